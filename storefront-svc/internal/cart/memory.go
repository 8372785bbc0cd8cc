package cart

import (
	"context"
	"sync"
)

// MemoryStorage keeps the snapshot in process.
type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryStorage(initial []byte) *MemoryStorage {
	return &MemoryStorage{data: initial}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStorage) Save(ctx context.Context, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), snapshot...)
	s.saves++
	return nil
}

func (s *MemoryStorage) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// SaveCount reports how many snapshots have been written.
func (s *MemoryStorage) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
