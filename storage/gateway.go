// Package storage persists quadrant's collections as whole JSON documents
// under a fixed set of keys.
//
// Every write replaces the value for one key. There is no atomicity across
// keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/amonks/quadrant/internal/config"
	"github.com/amonks/quadrant/internal/paths"
)

// ErrUnknownKey is returned when a key outside the fixed set is used.
var ErrUnknownKey = errors.New("unknown storage key")

// ErrUnknownBackend is returned when the configured backend is not recognized.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Gateway reads and writes raw values by key.
type Gateway interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	// Set replaces the value for key.
	Set(ctx context.Context, key Key, value []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key Key) error
}

// Backend is a Gateway that holds resources until closed.
type Backend interface {
	Gateway
	Close() error
}

// Open constructs the backend named in cfg.
func Open(ctx context.Context, cfg config.Storage) (Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		path, err := paths.ResolveWithDefault(cfg.Path, paths.DefaultDatabasePath)
		if err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, path)
	case config.BackendFile:
		dir, err := paths.ResolveWithDefault(cfg.Path, paths.DefaultDataDir)
		if err != nil {
			return nil, err
		}
		return NewFile(filepath.Clean(dir)), nil
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// LoadList decodes the list stored at key. A missing key yields an empty list.
func LoadList[T any](ctx context.Context, gw Gateway, key Key) ([]T, error) {
	data, ok, err := gw.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// LoadValue decodes the value stored at key into a T. The second return is
// false when the key is missing, in which case the zero T is returned.
func LoadValue[T any](ctx context.Context, gw Gateway, key Key) (T, bool, error) {
	var value T
	data, ok, err := gw.Get(ctx, key)
	if err != nil {
		return value, false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return value, false, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

// Save encodes value as JSON and writes it at key.
func Save(ctx context.Context, gw Gateway, key Key, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := gw.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func checkKey(key Key) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, string(key))
	}
	return nil
}
