package record

import (
	"testing"

	"github.com/shamaton/msgpack/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRecord(t *testing.T) {
	a := NewScalarInt(42)
	assert.Equal(t, int64(42), a.Value())
	assert.True(t, a.Equal(NewScalarInt(42)))
	assert.Equal(t, a.Hash(), NewScalarInt(42).Hash())
	assert.False(t, a.Equal(NewScalarInt(43)))
	assert.False(t, a.Equal(NewScalarRecord(a.Bytes())))

	raw := []byte{1, 2}
	b := NewScalarRecord(raw)
	raw[0] = 9
	assert.Equal(t, []byte{1, 2}, b.Value())
	v := b.Value().([]byte)
	v[0] = 9
	assert.Equal(t, []byte{1, 2}, b.Bytes())
	assert.Equal(t, "0102", b.String())
}

func TestScalarRecord_NumericAndBytesHashApart(t *testing.T) {
	n := NewScalarInt(5)
	b := NewScalarRecord(n.Bytes())

	assert.False(t, n.Equal(b))
	assert.False(t, b.Equal(n))
	assert.NotEqual(t, n.Hash(), b.Hash())
	assert.Equal(t, b.Hash(), NewScalarRecord(n.Bytes()).Hash())
}

func TestSymbolValueRecord(t *testing.T) {
	k := NewKernelSymbolRecord(0xfffffffffb800000, "genunix`cv_wait")
	assert.Equal(t, uint64(0xfffffffffb800000), k.Value())
	assert.True(t, k.Equal(NewKernelSymbolRecord(0xfffffffffb800000, "")))
	assert.Equal(t, "genunix`cv_wait", k.String())
	assert.Equal(t, "0x10", NewKernelSymbolRecord(0x10, "").String())

	u1 := NewUserSymbolRecord(10, 0x400000, "a.out`main")
	u2 := NewUserSymbolRecord(11, 0x400000, "a.out`main")
	assert.False(t, u1.Equal(u2))
	assert.NotEqual(t, u1.Hash(), u2.Hash())
	assert.False(t, u1.Equal(NewKernelSymbolRecord(0x400000, "")))
}

func TestKindOf(t *testing.T) {
	s, err := NewStackValueRecord(KernelStack, []byte{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, KindStack, KindOf(s))
	assert.Equal(t, KindScalar, KindOf(NewScalarInt(1)))
	assert.Equal(t, KindSymbol, KindOf(NewKernelSymbolRecord(1, "")))
	assert.Equal(t, "stack", KindStack.String())
}

func TestVariantsWithSameBytesHashApart(t *testing.T) {
	raw := []byte{1, 2, 3}
	s, err := NewStackValueRecord(KernelStack, raw, nil)
	require.NoError(t, err)
	assert.NotEqual(t, s.Hash(), NewScalarRecord(raw).Hash())
}

func TestTuple(t *testing.T) {
	s1, err := NewStackValueRecord(KernelStack, []byte{1, 2}, nil)
	require.NoError(t, err)
	s2, err := NewStackValueRecord(KernelStack, []byte{1, 2}, frames("a`f"))
	require.NoError(t, err)

	t1, err := NewTuple(NewScalarInt(7), s1)
	require.NoError(t, err)
	t2, err := NewTuple(NewScalarInt(7), s2)
	require.NoError(t, err)
	t3, err := NewTuple(s2, NewScalarInt(7))
	require.NoError(t, err)

	assert.True(t, t1.Equal(t2))
	assert.Equal(t, t1.Hash(), t2.Hash())
	assert.False(t, t1.Equal(t3))
	assert.Equal(t, []int{1}, t1.Stacks())
	assert.Equal(t, 2, t1.AsList().Len())
	assert.ErrorIs(t, t1.AsList().Remove(0), ErrUnsupportedMutation)

	_, err = NewTuple(NewScalarInt(1), nil)
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	stack, err := NewUserStackRecord(123, []byte{5, 6, 7}, frames("a.out`main+0x10"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		value ValueRecord
	}{
		{"Stack", stack},
		{"ScalarInt", NewScalarInt(-3)},
		{"ScalarBytes", NewScalarRecord([]byte("hello"))},
		{"KernelSymbol", NewKernelSymbolRecord(0x1000, "unix`swtch")},
		{"UserSymbol", NewUserSymbolRecord(9, 0x2000, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Marshal(tt.value)
			require.NoError(t, err)
			got, err := Unmarshal(b)
			require.NoError(t, err)
			assert.True(t, tt.value.Equal(got))
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestUnmarshalRejectsZeroFrame(t *testing.T) {
	data, err := msgpack.Marshal(&stackWire{StackKind: KernelStack, Raw: []byte{1}, Frames: []string{""}})
	require.NoError(t, err)
	b, err := msgpack.Marshal(&Entry{Kind: KindStack, Data: data})
	require.NoError(t, err)

	v, err := Unmarshal(b)
	assert.Nil(t, v)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrZeroFrame)
	assert.Contains(t, err.Error(), "decoding stack")
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	_, err := Unmarshal([]byte{0xc0})
	assert.Error(t, err)
}
