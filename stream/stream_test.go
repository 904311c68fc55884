package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/tracerec/record"
)

func testRecords(t *testing.T) []record.ValueRecord {
	t.Helper()
	s, err := record.NewStackValueRecord(record.KernelStack, []byte{1, 2, 3},
		[]record.StackFrame{record.MustStackFrame("unix`swtch+0x1"), record.MustStackFrame("genunix`cv_wait+0x61")})
	require.NoError(t, err)
	u, err := record.NewUserStackRecord(4242, []byte{9, 9}, nil)
	require.NoError(t, err)
	return []record.ValueRecord{
		s,
		u,
		record.NewScalarInt(17),
		record.NewUserSymbolRecord(4242, 0x400123, "a.out`main"),
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionZstd} {
		t.Run(string(c), func(t *testing.T) {
			id := uuid.New()
			var buf bytes.Buffer
			w, err := NewWriter(&buf, Options{Compression: c, SessionID: id})
			require.NoError(t, err)
			recs := testRecords(t)
			for _, r := range recs {
				require.NoError(t, w.Write(r))
			}
			require.NoError(t, w.Close())
			assert.Equal(t, len(recs), w.Count())

			r, err := NewReader(&buf)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, id, r.SessionID())
			assert.Equal(t, c, r.Header().Compression)

			var got []record.ValueRecord
			for {
				v, err := r.Next()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				got = append(got, v)
			}
			require.Len(t, got, len(recs))
			for i := range recs {
				assert.True(t, recs[i].Equal(got[i]), "record %d", i)
			}
			st := got[0].(*record.StackValueRecord)
			assert.Equal(t, 2, st.AsList().Len())
			assert.Equal(t, 4242, got[1].(*record.StackValueRecord).PID())
		})
	}
}

func TestNewWriter_GeneratesSessionID(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Options{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, CompressionZstd, w.Header().Compression)

	id, err := uuid.Parse(w.Header().SessionID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestNewWriter_UnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, Options{Compression: "lz4"})
	assert.Error(t, err)
}

func TestNewReader_BadHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("not a stream at all")))
	assert.ErrorIs(t, err, ErrBadHeader)

	_, err = NewReader(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestReader_TruncatedEntry(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Options{Compression: CompressionNone})
	require.NoError(t, err)
	require.NoError(t, w.Write(record.NewScalarInt(1)))
	require.NoError(t, w.Close())

	data := buf.Bytes()[:buf.Len()-1]
	r, err := NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
