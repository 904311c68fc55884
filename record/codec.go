package record

import (
	"fmt"

	"github.com/shamaton/msgpack/v2"
)

// Entry wraps an encoded record with its variant tag for decoding.
type Entry struct {
	Kind Kind
	Data []byte
}

type stackWire struct {
	StackKind StackKind
	PID       int
	Raw       []byte
	Frames    []string
}

type scalarWire struct {
	Numeric bool
	Num     int64
	Raw     []byte
}

type symbolWire struct {
	User    bool
	PID     int
	Address uint64
	Symbol  string
}

// Marshal encodes v as a msgpack Entry.
func Marshal(v ValueRecord) ([]byte, error) {
	var wire any
	switch r := v.(type) {
	case *StackValueRecord:
		frames := make([]string, len(r.frames))
		for i, f := range r.frames {
			frames[i] = f.frame
		}
		wire = &stackWire{StackKind: r.kind, PID: r.pid, Raw: r.raw, Frames: frames}
	case *ScalarRecord:
		wire = &scalarWire{Numeric: r.numeric, Num: r.num, Raw: r.raw}
	case *SymbolValueRecord:
		wire = &symbolWire{User: r.user, PID: r.pid, Address: r.address, Symbol: r.symbol}
	default:
		return nil, fmt.Errorf("record: cannot marshal %T", v)
	}
	data, err := msgpack.Marshal(wire)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&Entry{Kind: KindOf(v), Data: data})
}

// Unmarshal decodes an Entry produced by Marshal.
func Unmarshal(b []byte) (ValueRecord, error) {
	var e Entry
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decoding entry: %w", err)
	}
	switch e.Kind {
	case KindStack:
		var w stackWire
		if err := msgpack.Unmarshal(e.Data, &w); err != nil {
			return nil, fmt.Errorf("decoding stack: %w", err)
		}
		frames := make([]StackFrame, len(w.Frames))
		for i, f := range w.Frames {
			frames[i] = StackFrame{frame: f}
		}
		rec, err := newStackValueRecord(w.StackKind, w.PID, w.Raw, frames)
		if err != nil {
			return nil, fmt.Errorf("decoding stack: %w", err)
		}
		return rec, nil
	case KindScalar:
		var w scalarWire
		if err := msgpack.Unmarshal(e.Data, &w); err != nil {
			return nil, fmt.Errorf("decoding scalar: %w", err)
		}
		if w.Numeric {
			return NewScalarInt(w.Num), nil
		}
		return NewScalarRecord(w.Raw), nil
	case KindSymbol:
		var w symbolWire
		if err := msgpack.Unmarshal(e.Data, &w); err != nil {
			return nil, fmt.Errorf("decoding symbol: %w", err)
		}
		if w.User {
			return NewUserSymbolRecord(w.PID, w.Address, w.Symbol), nil
		}
		return NewKernelSymbolRecord(w.Address, w.Symbol), nil
	default:
		return nil, fmt.Errorf("unknown record kind: %d", e.Kind)
	}
}
