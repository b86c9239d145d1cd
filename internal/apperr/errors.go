// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrInvalidFormat  = errors.New("invalid notebook format")
	ErrInvalidRuntime = errors.New("invalid runtime specifier")
	ErrNotNotebook    = errors.New("not a notebook")
	ErrNoMetadata     = errors.New("no inline metadata block")
	ErrToolFailed     = errors.New("external tool failed")
)
