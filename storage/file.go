package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// File stores one JSON document per key in a directory.
// Writes hold an exclusive flock and land through a temp file and rename.
type File struct {
	dir string
}

// NewFile returns a gateway rooted at dir. The directory is created on first write.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Dir returns the directory holding the documents.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key Key) string {
	return filepath.Join(f.dir, strings.TrimPrefix(string(key), "@")+".json")
}

func (f *File) lockPath() string {
	return filepath.Join(f.dir, "quadrant.lock")
}

// Get reads the document for key.
func (f *File) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", f.path(key), err)
	}
	return data, true, nil
}

// Set replaces the document for key.
func (f *File) Set(ctx context.Context, key Key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return f.withLock(func() error {
		path := f.path(key)
		if existing, err := os.ReadFile(path); err == nil {
			if bytes.Equal(existing, value) {
				return nil
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", path, err)
		}

		tmpFile, err := os.CreateTemp(f.dir, filepath.Base(path)+".tmp")
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		name := tmpFile.Name()
		_, err = tmpFile.Write(value)
		if err1 := tmpFile.Close(); err1 != nil && err == nil {
			err = err1
		}
		if err != nil {
			os.Remove(name)
			return fmt.Errorf("write temp file: %w", err)
		}

		if err := os.Rename(name, path); err != nil {
			os.Remove(name)
			return fmt.Errorf("rename %s: %w", path, err)
		}
		return nil
	})
}

// Remove deletes the document for key.
func (f *File) Remove(ctx context.Context, key Key) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return f.withLock(func() error {
		err := os.Remove(f.path(key))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", f.path(key), err)
		}
		return nil
	})
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}

func (f *File) withLock(fn func() error) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	lockFile, err := os.OpenFile(f.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	return fn()
}
