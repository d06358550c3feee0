package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks input the engine cannot process.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidWindow marks a non-positive max window passed to AddWords.
	ErrInvalidWindow = errors.New("max window must be positive")
	// ErrEngine marks an internal engine fault.
	ErrEngine = errors.New("engine fault")
	// ErrUpstream marks a failure reported by, or while reaching, an upstream engine.
	ErrUpstream = errors.New("upstream failure")
)

// PipelineError is returned by every Adapter operation that fails.
type PipelineError struct {
	Op  string
	Err error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Errorf builds a PipelineError for op. The format may use %w to wrap a sentinel.
func Errorf(op, format string, args ...any) error {
	return &PipelineError{Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap returns err as a PipelineError for op, leaving existing PipelineErrors untouched.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return err
	}
	return &PipelineError{Op: op, Err: err}
}
