package constants

import "errors"

// Errors
var (
	ErrMissingConfig      = errors.New("required configuration is not set")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnexpectedResponse = errors.New("unexpected Confluence response")
)
