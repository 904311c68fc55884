package record

import (
	"errors"
	"iter"
	"slices"
)

// ErrUnsupportedMutation is returned by every mutator of a read-only view.
var ErrUnsupportedMutation = errors.New("record: unsupported mutation of read-only view")

// List is an ordered, randomly indexable sequence.
type List[T any] interface {
	Len() int
	At(i int) T
	All() iter.Seq2[int, T]
	Slice() []T

	Set(i int, v T) error
	Insert(i int, v ...T) error
	Remove(i int) error
}

// readOnlyList is a fixed snapshot. The backing slice is never handed out.
type readOnlyList[T any] struct {
	items []T
}

func newReadOnlyList[T any](items []T) List[T] {
	return readOnlyList[T]{items: items}
}

func (l readOnlyList[T]) Len() int {
	return len(l.items)
}

// At panics on an out of range index, like a slice.
func (l readOnlyList[T]) At(i int) T {
	return l.items[i]
}

func (l readOnlyList[T]) All() iter.Seq2[int, T] {
	return slices.All(l.items)
}

// Slice returns a copy of the view's contents.
func (l readOnlyList[T]) Slice() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (readOnlyList[T]) Set(int, T) error {
	return ErrUnsupportedMutation
}

func (readOnlyList[T]) Insert(int, ...T) error {
	return ErrUnsupportedMutation
}

func (readOnlyList[T]) Remove(int) error {
	return ErrUnsupportedMutation
}
