package notebook

import (
	"fmt"

	"github.com/starford/juv/internal/apperr"
)

// FormatError reports a document that is not valid JSON or uses a schema
// that cannot be read or upgraded.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notebook: %s: %v", e.Reason, e.Err)
	}
	return "notebook: " + e.Reason
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperr.ErrInvalidFormat}
	}
	return []error{apperr.ErrInvalidFormat, e.Err}
}

func formatErr(reason string, err error) error {
	return &FormatError{Reason: reason, Err: err}
}
