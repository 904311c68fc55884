package record

import (
	"bytes"
	"fmt"
	"strings"
)

// StackKind identifies the action that captured a stack.
type StackKind uint8

const (
	KernelStack StackKind = iota // stack()
	UserStack                    // ustack()
	JavaStack                    // jstack()
)

func (k StackKind) String() string {
	switch k {
	case KernelStack:
		return "stack"
	case UserStack:
		return "ustack"
	case JavaStack:
		return "jstack"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// IsUser reports whether stacks of this kind belong to a user process.
func (k StackKind) IsUser() bool {
	return k == UserStack || k == JavaStack
}

// StackValueRecord is a stack captured by stack(), ustack() or jstack().
//
// The raw stack data is the native library's own encoding and is the only
// input to Equal and Hash. Two stacks that print the same frames can still be
// distinct, for example after program text is relocated, and user stacks
// embed the process ID in the raw bytes.
//
// The frames are empty when the producer skipped decoding. That happens for a
// stack in an aggregation tuple when a printa() format string omits the %k
// placeholder for it.
type StackValueRecord struct {
	kind   StackKind
	pid    int
	raw    []byte
	frames []StackFrame
}

var _ ValueRecord = (*StackValueRecord)(nil)

// NewStackValueRecord copies raw and frames into a new record. A nil raw or
// frames slice is stored as empty. It fails if any frame is the zero
// StackFrame.
func NewStackValueRecord(kind StackKind, raw []byte, frames []StackFrame) (*StackValueRecord, error) {
	return newStackValueRecord(kind, 0, raw, frames)
}

// NewUserStackRecord is NewStackValueRecord for a ustack() captured in the
// process pid.
func NewUserStackRecord(pid int, raw []byte, frames []StackFrame) (*StackValueRecord, error) {
	return newStackValueRecord(UserStack, pid, raw, frames)
}

// NewJavaStackRecord is NewStackValueRecord for a jstack() captured in the
// process pid.
func NewJavaStackRecord(pid int, raw []byte, frames []StackFrame) (*StackValueRecord, error) {
	return newStackValueRecord(JavaStack, pid, raw, frames)
}

func newStackValueRecord(kind StackKind, pid int, raw []byte, frames []StackFrame) (*StackValueRecord, error) {
	for i, f := range frames {
		if f.IsZero() {
			return nil, fmt.Errorf("frame %d: %w", i, ErrZeroFrame)
		}
	}
	r := &StackValueRecord{
		kind:   kind,
		pid:    pid,
		raw:    make([]byte, len(raw)),
		frames: make([]StackFrame, len(frames)),
	}
	copy(r.raw, raw)
	copy(r.frames, frames)
	return r, nil
}

func (*StackValueRecord) isValueRecord() {}

// Kind returns the action that captured the stack.
func (r *StackValueRecord) Kind() StackKind {
	return r.kind
}

// PID returns the process the stack belongs to, or 0 for kernel stacks.
func (r *StackValueRecord) PID() int {
	return r.pid
}

// StackFrames returns a copy of the decoded frames. The result is empty, never
// nil, when the raw data was not decoded.
func (r *StackValueRecord) StackFrames() []StackFrame {
	out := make([]StackFrame, len(r.frames))
	copy(out, r.frames)
	return out
}

// RawStackData returns a copy of the native encoding of the stack.
func (r *StackValueRecord) RawStackData() []byte {
	out := make([]byte, len(r.raw))
	copy(out, r.raw)
	return out
}

// Value returns RawStackData.
func (r *StackValueRecord) Value() any {
	return r.RawStackData()
}

// AsList returns a read-only view of the frames.
func (r *StackValueRecord) AsList() List[StackFrame] {
	return newReadOnlyList(r.frames)
}

// Decoded reports whether the record carries any frames.
func (r *StackValueRecord) Decoded() bool {
	return len(r.frames) > 0
}

// Equal reports whether other is a stack record with the same raw data. A
// nil record equals only another nil stack record.
func (r *StackValueRecord) Equal(other ValueRecord) bool {
	o, ok := other.(*StackValueRecord)
	if !ok {
		return false
	}
	if r == nil || o == nil {
		return r == nil && o == nil
	}
	return bytes.Equal(r.raw, o.raw)
}

// Hash is computed from the raw data only.
func (r *StackValueRecord) Hash() uint64 {
	return hashWithTag(KindStack, r.raw)
}

// Compare orders stack records by raw data. Nil sorts before any record.
func (r *StackValueRecord) Compare(other *StackValueRecord) int {
	switch {
	case r == nil && other == nil:
		return 0
	case r == nil:
		return -1
	case other == nil:
		return 1
	}
	return bytes.Compare(r.raw, other.raw)
}

func (r *StackValueRecord) String() string {
	if len(r.frames) == 0 {
		return fmt.Sprintf("%s[raw %d bytes: %x]", r.kind, len(r.raw), r.raw)
	}
	var b strings.Builder
	for i, f := range r.frames {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.frame)
	}
	return b.String()
}
