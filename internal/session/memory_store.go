package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps attempts in process. Used when no Redis is configured;
// attempts do not survive a restart and are not shared between replicas.
type MemoryStore struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]Attempt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:   time.Now,
		items: make(map[string]Attempt),
	}
}

func (m *MemoryStore) Save(_ context.Context, a Attempt) error {
	if a.ID == "" || a.State == "" {
		return fmt.Errorf("session: missing attempt id or state")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !a.ExpiresAt.After(m.now()) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	m.cleanupLocked()
	m.items[a.ID] = a
	return nil
}

func (m *MemoryStore) Take(_ context.Context, id string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupLocked()

	a, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	delete(m.items, id)
	return &a, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	return nil
}

func (m *MemoryStore) cleanupLocked() {
	now := m.now()
	for id, a := range m.items {
		if !a.ExpiresAt.After(now) {
			delete(m.items, id)
		}
	}
}
