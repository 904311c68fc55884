package cas

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/timewinder-dev/tracerec/record"
)

type MemoryStore struct {
	mu     sync.RWMutex
	data   map[Hash][]byte
	hits   map[Hash]int // Number of Puts per slot, including the first
	hashOf func(record.ValueRecord) Hash
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[Hash][]byte),
		hits:   make(map[Hash]int),
		hashOf: HashOf,
	}
}

func (m *MemoryStore) getValue(h Hash) (bool, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[h]
	if !ok {
		return false, nil, nil
	}
	return true, v, nil
}

func (m *MemoryStore) Has(hash Hash) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[hash]
	return ok
}

// Put stores rec unless an equal record is already present. If the stored
// copy is an undecoded stack and rec carries frames, the decoded form
// replaces it.
func (m *MemoryStore) Put(rec record.ValueRecord) (Hash, error) {
	data, err := record.Marshal(rec)
	if err != nil {
		return 0, err
	}
	h := m.hashOf(rec)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.data[h]
	if !ok {
		m.data[h] = data
		m.hits[h] = 1
		return h, nil
	}
	prev, err := decode(h, existing)
	if err != nil {
		return 0, err
	}
	if !prev.Equal(rec) {
		log.Debug().Uint64("hash", uint64(h)).Msg("Record hash collision")
		return 0, fmt.Errorf("%w: %x", ErrHashCollision, uint64(h))
	}
	m.hits[h]++
	if upgrades(prev, rec) {
		log.Trace().Uint64("hash", uint64(h)).Msg("Replacing undecoded stack with decoded one")
		m.data[h] = data
	}
	return h, nil
}

func upgrades(prev, next record.ValueRecord) bool {
	p, ok := prev.(*record.StackValueRecord)
	if !ok {
		return false
	}
	n := next.(*record.StackValueRecord)
	return !p.Decoded() && n.Decoded()
}

func (m *MemoryStore) Get(hash Hash) (record.ValueRecord, error) {
	has, data, err := m.getValue(hash)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: %x", ErrNotFound, uint64(hash))
	}
	return decode(hash, data)
}

// Count returns how many times an equal record was put under hash.
func (m *MemoryStore) Count(hash Hash) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits[hash]
}

// Hashes returns a copy of the stored keys.
func (m *MemoryStore) Hashes() []Hash {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Hash, 0, len(m.data))
	for h := range m.data {
		out = append(out, h)
	}
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
