// ABOUTME: Key-value string store contract shared by every persistence backend.
// ABOUTME: Backends: sqlite (default), badger, charm, and in-memory.
package kv

import (
	"errors"
	"fmt"
)

// Backend names accepted by configuration.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// AllBackends lists every supported backend name.
var AllBackends = []string{BackendSQLite, BackendBadger, BackendCharm, BackendMemory}

// ErrReadOnly is returned on writes when the backend is opened read-only.
var ErrReadOnly = errors.New("store is read-only")

// Store persists string values under string keys.
// Get reports absence with ok=false and a nil error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// IsValidBackend checks if a string names a supported backend.
func IsValidBackend(name string) bool {
	for _, b := range AllBackends {
		if b == name {
			return true
		}
	}
	return false
}

// Copy copies each key present in src into dst and returns how many were copied.
// Keys absent from src are skipped.
func Copy(src, dst Store, keys ...string) (int, error) {
	copied := 0
	for _, key := range keys {
		value, ok, err := src.Get(key)
		if err != nil {
			return copied, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Set(key, value); err != nil {
			return copied, fmt.Errorf("write %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}
