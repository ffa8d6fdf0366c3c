package cart

import (
	"context"
	"sync"
)

// Store persists cart records keyed by session.
type Store interface {
	// Load returns nil, nil when the session has no cart.
	Load(ctx context.Context, sessionID string) (*Record, error)
	Save(ctx context.Context, sessionID string, rec Record) error
	Delete(ctx context.Context, sessionID string) error
	Backend() string
}

// MemoryStore keeps records in process memory. Records are copied on the way
// in and out so callers never share slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Backend() string { return "memory" }

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[sessionID]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = cloneRecord(rec)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

// Len reports how many sessions hold a cart.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func cloneRecord(rec Record) Record {
	out := rec
	out.Items = make([]ItemRecord, len(rec.Items))
	for i, item := range rec.Items {
		cp := item
		cp.Size = cloneString(item.Size)
		cp.Color = cloneString(item.Color)
		if item.Product != nil {
			snap := *item.Product
			cp.Product = &snap
		}
		out.Items[i] = cp
	}
	return out
}
