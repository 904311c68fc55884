package record

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/dgryski/go-farm"
)

// Tuple is the key of an aggregation entry: an ordered list of values, any of
// which may be a stack.
type Tuple struct {
	elems []ValueRecord
}

// NewTuple copies elems into a new tuple. Nil elements are rejected.
func NewTuple(elems ...ValueRecord) (Tuple, error) {
	out := make([]ValueRecord, len(elems))
	for i, e := range elems {
		if e == nil {
			return Tuple{}, errors.New("record: nil tuple element")
		}
		out[i] = e
	}
	return Tuple{elems: out}, nil
}

func (t Tuple) Len() int {
	return len(t.elems)
}

// Get returns the i'th element.
func (t Tuple) Get(i int) ValueRecord {
	return t.elems[i]
}

// AsList returns a read-only view of the elements.
func (t Tuple) AsList() List[ValueRecord] {
	return newReadOnlyList(t.elems)
}

// Stacks returns the indexes of the stack elements.
func (t Tuple) Stacks() []int {
	var out []int
	for i, e := range t.elems {
		if _, ok := e.(*StackValueRecord); ok {
			out = append(out, i)
		}
	}
	return out
}

func (t Tuple) Equal(o Tuple) bool {
	if len(t.elems) != len(o.elems) {
		return false
	}
	for i := range t.elems {
		if !t.elems[i].Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

// Hash combines the element hashes in order.
func (t Tuple) Hash() uint64 {
	buf := make([]byte, 8*len(t.elems))
	for i, e := range t.elems {
		binary.LittleEndian.PutUint64(buf[8*i:], e.Hash())
	}
	return farm.Hash64(buf)
}

func (t Tuple) String() string {
	parts := make([]string, len(t.elems))
	for i, e := range t.elems {
		if s, ok := e.(interface{ String() string }); ok {
			parts[i] = s.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
