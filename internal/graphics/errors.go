package graphics

import (
	"errors"
	"fmt"
)

// ErrorKind classifies render failures
type ErrorKind int

const (
	// ResourceBindFailure: a buffer, texture, program or render target could
	// not be created or bound.
	ResourceBindFailure ErrorKind = iota + 1
	// AttributeMismatch: a material needs a vertex attribute the geometry
	// cannot supply.
	AttributeMismatch
	// PipelineStateError: a pass ran out of order or against an incomplete
	// G-buffer.
	PipelineStateError
)

var (
	ErrResourceBind      = errors.New("resource bind failure")
	ErrAttributeMismatch = errors.New("attribute mismatch")
	ErrPipelineState     = errors.New("pipeline state error")
)

func (k ErrorKind) String() string {
	switch k {
	case ResourceBindFailure:
		return "resource bind failure"
	case AttributeMismatch:
		return "attribute mismatch"
	case PipelineStateError:
		return "pipeline state error"
	}
	return "unknown render error"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ResourceBindFailure:
		return ErrResourceBind
	case AttributeMismatch:
		return ErrAttributeMismatch
	case PipelineStateError:
		return ErrPipelineState
	}
	return nil
}

// RenderError is the typed result of a failed render operation
type RenderError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is lets errors.Is match a RenderError against the sentinel of its kind.
func (e *RenderError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// NewError builds a RenderError. Err may be nil.
func NewError(kind ErrorKind, op string, err error) *RenderError {
	return &RenderError{Kind: kind, Op: op, Err: err}
}

// Errorf builds a RenderError with a formatted cause.
func Errorf(kind ErrorKind, op, format string, args ...any) *RenderError {
	return &RenderError{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// ErrorKindOf returns the kind of the first RenderError in err's chain, or 0.
func ErrorKindOf(err error) ErrorKind {
	var re *RenderError
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
