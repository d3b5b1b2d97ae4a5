// Package kvtest provides kv.Store doubles for tests.
package kvtest

import (
	"context"
	"sync"

	"github.com/five82/slumber/internal/kv"
)

// Store wraps a kv.MemStore and can be told to fail reads or writes.
type Store struct {
	mem *kv.MemStore

	mu     sync.Mutex
	getErr error
	setErr error
	sets   int
}

var _ kv.Store = (*Store)(nil)

// New returns a Store pre-populated with seed.
func New(seed map[string]string) *Store {
	mem := kv.NewMemStore()
	for k, v := range seed {
		_ = mem.Set(context.Background(), k, v)
	}
	return &Store{mem: mem}
}

// FailGet makes every Get return err until reset with nil.
func (s *Store) FailGet(err error) {
	s.mu.Lock()
	s.getErr = err
	s.mu.Unlock()
}

// FailSet makes every Set return err until reset with nil. Failed writes are
// not applied.
func (s *Store) FailSet(err error) {
	s.mu.Lock()
	s.setErr = err
	s.mu.Unlock()
}

// Sets reports how many Set calls were attempted.
func (s *Store) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// Value returns the stored value for key, bypassing injected failures.
func (s *Store) Value(key string) (string, bool) {
	v, ok, _ := s.mem.Get(context.Background(), key)
	return v, ok
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	err := s.getErr
	s.mu.Unlock()
	if err != nil {
		return "", false, err
	}
	return s.mem.Get(ctx, key)
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets++
	err := s.setErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.mem.Set(ctx, key, value)
}
