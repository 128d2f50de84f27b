// Package kv provides the synchronous string key-value primitive that local
// state (history, session) is persisted through.
package kv

import (
	"errors"
	"fmt"
	"sync"
)

// ErrQuotaExceeded is returned when a write does not fit the storage quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Storage is a synchronous string key-value store.
type Storage interface {
	// GetItem returns the value for key; ok is false when the key is absent.
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Memory is an in-process Storage.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

type quota struct {
	Storage
	max int
}

// WithQuota wraps s so that SetItem fails with ErrQuotaExceeded when
// len(key)+len(value) is larger than maxBytes.
func WithQuota(s Storage, maxBytes int) Storage {
	return &quota{Storage: s, max: maxBytes}
}

func (q *quota) SetItem(key, value string) error {
	if n := len(key) + len(value); n > q.max {
		return fmt.Errorf("setting %q (%d bytes, limit %d): %w", key, n, q.max, ErrQuotaExceeded)
	}
	return q.Storage.SetItem(key, value)
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Closer is implemented by backends holding OS resources.
type Closer interface {
	Close() error
}

// Open creates the named backend at path. path is ignored for memory.
func Open(backend, path string) (Storage, error) {
	switch backend {
	case BackendSQLite, "":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		f, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// Close closes s if it holds resources.
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
