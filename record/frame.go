package record

import "errors"

// ErrZeroFrame is returned when a frame sequence contains a frame that was
// never given a description.
var ErrZeroFrame = errors.New("record: zero-value stack frame")

// StackFrame is one human-readable frame of a decoded stack, typically of the
// form module`function+offset. It is produced by symbolication outside this
// package and is immutable.
type StackFrame struct {
	frame string
}

// NewStackFrame returns a frame with the given description.
func NewStackFrame(frame string) (StackFrame, error) {
	if frame == "" {
		return StackFrame{}, ErrZeroFrame
	}
	return StackFrame{frame: frame}, nil
}

// MustStackFrame is like NewStackFrame but panics on an empty description.
func MustStackFrame(frame string) StackFrame {
	f, err := NewStackFrame(frame)
	if err != nil {
		panic(err)
	}
	return f
}

// Frame returns the frame description.
func (f StackFrame) Frame() string {
	return f.frame
}

func (f StackFrame) String() string {
	return f.frame
}

// IsZero reports whether f is the zero StackFrame.
func (f StackFrame) IsZero() bool {
	return f.frame == ""
}
