package cas

import (
	"errors"
	"fmt"

	"github.com/timewinder-dev/tracerec/record"
)

// ErrHashCollision is returned when two unequal records share a hash.
var ErrHashCollision = errors.New("cas: hash collision between unequal records")

// ErrNotFound is returned when a hash is not in the store.
var ErrNotFound = errors.New("cas: hash not found")

// Store deduplicates records by identity. Records that are Equal share one
// slot, so a stack seen undecoded and decoded is stored once.
type Store interface {
	Put(rec record.ValueRecord) (Hash, error)
	Has(hash Hash) bool
	Get(hash Hash) (record.ValueRecord, error)
}

type Hash uint64

// HashOf returns the key a record is stored under.
func HashOf(rec record.ValueRecord) Hash {
	return Hash(rec.Hash())
}

// Retrieve fetches a record and checks its variant.
func Retrieve[T record.ValueRecord](s Store, hash Hash) (T, error) {
	var t T
	v, err := s.Get(hash)
	if err != nil {
		return t, err
	}
	result, ok := v.(T)
	if !ok {
		return t, fmt.Errorf("type mismatch: expected %T, got %T", t, v)
	}
	return result, nil
}

func decode(hash Hash, data []byte) (record.ValueRecord, error) {
	v, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decoding entry %x: %w", uint64(hash), err)
	}
	return v, nil
}
