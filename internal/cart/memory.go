package cart

import (
	"context"
	"sync"
)

// MemoryStore is the single-process Store used when no Redis is configured.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]map[uint]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]map[uint]int)}
}

func (s *MemoryStore) Get(_ context.Context, sid string) (map[uint]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[uint]int, len(s.carts[sid]))
	for id, qty := range s.carts[sid] {
		out[id] = qty
	}
	return out, nil
}

func (s *MemoryStore) Add(_ context.Context, sid string, productID uint, qty int) (int, error) {
	if sid == "" {
		return 0, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.carts[sid]
	if c == nil {
		c = make(map[uint]int)
		s.carts[sid] = c
	}
	n := c[productID] + qty
	if n <= 0 {
		delete(c, productID)
		return 0, nil
	}
	c[productID] = n
	return n, nil
}

func (s *MemoryStore) Set(_ context.Context, sid string, productID uint, qty int) error {
	if sid == "" {
		return ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		delete(s.carts[sid], productID)
		return nil
	}
	c := s.carts[sid]
	if c == nil {
		c = make(map[uint]int)
		s.carts[sid] = c
	}
	c[productID] = qty
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sid string, productID uint) error {
	if sid == "" {
		return ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts[sid], productID)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sid)
	return nil
}
