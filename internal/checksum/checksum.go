// Package checksum computes content digests for notebook files.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Changed reports whether after differs from before. Writers use it to
// skip rewriting a file whose serialized form is unchanged.
func Changed(before, after []byte) bool {
	return Sum(before) != Sum(after)
}
