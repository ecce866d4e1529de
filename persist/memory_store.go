package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/krisalay/ui-memory/types"
)

// MemoryStore keeps snapshots in process memory. Useful for tests and for hosts that
// only want state to survive a reload of the UI, not of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load implements types.Store.
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("memory store %q: %w", key, types.ErrNotFound)
	}
	return append([]byte(nil), b...), nil
}

// Put implements types.Store.
func (s *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete implements types.Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// Close implements io.Closer.
func (s *MemoryStore) Close() error {
	return nil
}
