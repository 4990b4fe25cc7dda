package snapshot

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory. It backs tests and
// ephemeral runs where durability is not wanted.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[Kind][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[Kind][]byte)}
}

// Save overwrites the slot with a copy of data.
func (m *MemoryStore) Save(_ context.Context, kind Kind, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.slots[kind] = buf
	return nil
}

// Load returns a copy of the stored slot.
func (m *MemoryStore) Load(_ context.Context, kind Kind) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[kind]
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, true, nil
}

// Delete clears the slot.
func (m *MemoryStore) Delete(_ context.Context, kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, kind)
	return nil
}
