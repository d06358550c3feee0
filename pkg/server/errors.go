package server

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a required request field that is absent or null.
var ErrMissingField = errors.New("missing required field")

// DecodeError is returned when a request body does not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s request: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
