package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrClosed is returned by a backend after Close.
var ErrClosed = errors.New("kv store closed")

// Store is durable string-keyed storage shared by the application stores.
// Each store owns a disjoint set of keys.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Backend is a Store that holds resources.
type Backend interface {
	Store
	io.Closer
}

// Kind selects the durable backend.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// Open returns the backend named by kind rooted at path.
func Open(ctx context.Context, kind Kind, path string) (Backend, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(string(kind)))) {
	case KindFile, "":
		return NewFileStore(path)
	case KindSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// MemStore keeps values in memory. It does not survive restarts and is meant
// for tests and for running without durable storage.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (m *MemStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MemStore) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
