package memory

import (
	"context"
	"sync"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/counter"
)

type store struct {
	mu     sync.Mutex
	values map[string]uint64
}

// New returns a new in-memory counter.Store
func New() counter.Store {
	return &store{
		values: make(map[string]uint64),
	}
}

func (s *store) reset() {
	s.mu.Lock()
	s.values = make(map[string]uint64)
	s.mu.Unlock()
}

func (s *store) GetNext(_ context.Context, key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key]++
	return s.values[key], nil
}
