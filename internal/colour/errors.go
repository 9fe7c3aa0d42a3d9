package colour

import "errors"

// ErrInvalidInput is wrapped by every error caused by a malformed pixel buffer
// or extraction parameter.
var ErrInvalidInput = errors.New("invalid input")
