// Package stream reads and writes files of trace records: a msgpack header
// followed by length-delimited records, optionally zstd compressed.
package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/tracerec/record"
)

const (
	Magic   = "TRACEREC"
	Version = 1

	maxEntrySize = 64 << 20
)

var ErrBadHeader = errors.New("stream: not a record stream")

// Compression selects how the record body is encoded.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

type Header struct {
	Magic       string
	Version     int
	SessionID   string
	Compression Compression
}

type Options struct {
	Compression Compression
	// SessionID identifies the tracing session. A new one is generated when
	// left as uuid.Nil.
	SessionID uuid.UUID
}

type Writer struct {
	header Header
	out    io.Writer
	zw     *zstd.Encoder
	count  int
	buf    [binary.MaxVarintLen64]byte
}

func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	if opts.Compression == "" {
		opts.Compression = CompressionZstd
	}
	if opts.SessionID == uuid.Nil {
		opts.SessionID = uuid.New()
	}
	sw := &Writer{
		header: Header{
			Magic:       Magic,
			Version:     Version,
			SessionID:   opts.SessionID.String(),
			Compression: opts.Compression,
		},
		out: w,
	}
	h, err := msgpack.Marshal(&sw.header)
	if err != nil {
		return nil, err
	}
	if err := sw.writeFrame(w, h); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	switch opts.Compression {
	case CompressionNone:
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, err
		}
		sw.zw = zw
		sw.out = zw
	default:
		return nil, fmt.Errorf("unknown compression %q", opts.Compression)
	}
	log.Debug().Str("session", sw.header.SessionID).Str("compression", string(opts.Compression)).Msg("Opened record stream for writing")
	return sw, nil
}

func (w *Writer) Header() Header {
	return w.header
}

// Write appends one record.
func (w *Writer) Write(rec record.ValueRecord) error {
	b, err := record.Marshal(rec)
	if err != nil {
		return err
	}
	if err := w.writeFrame(w.out, b); err != nil {
		return err
	}
	w.count++
	return nil
}

func (w *Writer) writeFrame(out io.Writer, b []byte) error {
	n := binary.PutUvarint(w.buf[:], uint64(len(b)))
	if _, err := out.Write(w.buf[:n]); err != nil {
		return err
	}
	_, err := out.Write(b)
	return err
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes the compressor. It does not close the underlying writer.
func (w *Writer) Close() error {
	log.Debug().Int("records", w.count).Msg("Closing record stream")
	if w.zw != nil {
		return w.zw.Close()
	}
	return nil
}

type Reader struct {
	header Header
	in     *bufio.Reader
	zr     *zstd.Decoder
}

func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	h, err := readFrame(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	sr := &Reader{in: br}
	if err := msgpack.Unmarshal(h, &sr.header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if sr.header.Magic != Magic {
		return nil, ErrBadHeader
	}
	if sr.header.Version != Version {
		return nil, fmt.Errorf("unsupported stream version %d", sr.header.Version)
	}
	if _, err := uuid.Parse(sr.header.SessionID); err != nil {
		return nil, fmt.Errorf("bad session id: %w", err)
	}
	switch sr.header.Compression {
	case CompressionNone:
	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		sr.zr = zr
		sr.in = bufio.NewReader(zr)
	default:
		return nil, fmt.Errorf("unknown compression %q", sr.header.Compression)
	}
	return sr, nil
}

func (r *Reader) Header() Header {
	return r.header
}

// SessionID returns the parsed session identifier.
func (r *Reader) SessionID() uuid.UUID {
	return uuid.MustParse(r.header.SessionID)
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (record.ValueRecord, error) {
	b, err := readFrame(r.in)
	if err != nil {
		return nil, err
	}
	return record.Unmarshal(b)
}

func (r *Reader) Close() {
	if r.zr != nil {
		r.zr.Close()
	}
}

func readFrame(br *bufio.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	if n > maxEntrySize {
		return nil, fmt.Errorf("entry of %d bytes exceeds limit", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(br, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}
