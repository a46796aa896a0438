package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds      = errors.New("index out of range")
	ErrEditDeclined     = errors.New("decline edit")
	ErrInvalidStatement = errors.New("invalid statement")
	ErrEditInclude      = errors.New("include is not supported in edited manifests")
)
