package record

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ScalarRecord is a count, a numeric trace() argument, or an opaque run of
// bytes from tracemem().
type ScalarRecord struct {
	numeric bool
	num     int64
	raw     []byte
}

var _ ValueRecord = (*ScalarRecord)(nil)

// NewScalarInt returns a numeric scalar.
func NewScalarInt(v int64) *ScalarRecord {
	return &ScalarRecord{numeric: true, num: v}
}

// NewScalarRecord returns a scalar wrapping a copy of raw.
func NewScalarRecord(raw []byte) *ScalarRecord {
	r := &ScalarRecord{raw: make([]byte, len(raw))}
	copy(r.raw, raw)
	return r
}

func (*ScalarRecord) isValueRecord() {}

// IsNumeric reports whether Value returns an int64.
func (r *ScalarRecord) IsNumeric() bool {
	return r.numeric
}

// Int returns the numeric value, or 0 for a byte scalar.
func (r *ScalarRecord) Int() int64 {
	return r.num
}

// Bytes returns a copy of the canonical bytes. Numeric values are encoded as
// 8 little-endian bytes.
func (r *ScalarRecord) Bytes() []byte {
	if r.numeric {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(r.num))
		return b[:]
	}
	out := make([]byte, len(r.raw))
	copy(out, r.raw)
	return out
}

// Value returns an int64 for numeric scalars and a copy of the bytes
// otherwise.
func (r *ScalarRecord) Value() any {
	if r.numeric {
		return r.num
	}
	return r.Bytes()
}

func (r *ScalarRecord) Equal(other ValueRecord) bool {
	o, ok := other.(*ScalarRecord)
	if !ok || o == nil || r.numeric != o.numeric {
		return false
	}
	if r.numeric {
		return r.num == o.num
	}
	return bytes.Equal(r.raw, o.raw)
}

// Hash covers the numeric flag as well as the bytes, so an integer and the
// byte scalar holding its encoding hash apart.
func (r *ScalarRecord) Hash() uint64 {
	b := r.Bytes()
	key := make([]byte, 1+len(b))
	if r.numeric {
		key[0] = 1
	}
	copy(key[1:], b)
	return hashWithTag(KindScalar, key)
}

func (r *ScalarRecord) String() string {
	if r.numeric {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%x", r.raw)
}
