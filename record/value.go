package record

import (
	"encoding/binary"

	"github.com/dgryski/go-farm"
)

// ValueRecord is a value held by a trace record or by one element of an
// aggregation tuple. Value returns the canonical, identity-bearing
// representation of the variant.
type ValueRecord interface {
	isValueRecord()
	Value() any
	Equal(other ValueRecord) bool
	Hash() uint64
}

// Kind tags the concrete variant of a ValueRecord on the wire.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindStack
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStack:
		return "stack"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// KindOf returns the wire tag for v, or 0 if v is not a known variant.
func KindOf(v ValueRecord) Kind {
	switch v.(type) {
	case *ScalarRecord:
		return KindScalar
	case *StackValueRecord:
		return KindStack
	case *SymbolValueRecord:
		return KindSymbol
	}
	return 0
}

// hashWithTag mixes the variant tag in so that a scalar and a stack with the
// same bytes don't collide in a store.
func hashWithTag(k Kind, data []byte) uint64 {
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], uint64(k))
	return farm.Hash64WithSeed(data, farm.Hash64(seed[:]))
}
