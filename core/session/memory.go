package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is an in-memory Registry for tests and local development.
type MemoryRegistry struct {
	mu    sync.RWMutex
	table map[string]Session
}

var _ Registry = (*MemoryRegistry)(nil)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{table: make(map[string]Session)}
}

func (reg *MemoryRegistry) SaveSession(_ context.Context, sess Session) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.table[sess.ID] = sess
	return nil
}

func (reg *MemoryRegistry) GetSession(_ context.Context, id string) (Session, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	sess, ok := reg.table[id]
	if !ok || sess.Expired(time.Now().UTC()) {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (reg *MemoryRegistry) DeleteSession(_ context.Context, id string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.table, id)
	return nil
}
