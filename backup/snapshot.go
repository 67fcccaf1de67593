package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/amonks/quadrant/storage"
)

// Snapshot exports the current data, appends it to the stored snapshots and
// drops snapshots older than RetentionDays.
func Snapshot(ctx context.Context, gw storage.Gateway, now time.Time) (Data, error) {
	data, err := Export(ctx, gw, now)
	if err != nil {
		return Data{}, err
	}

	snapshots, err := storage.LoadList[Data](ctx, gw, storage.KeyBackups)
	if err != nil {
		return Data{}, fmt.Errorf("load snapshots: %w", err)
	}
	snapshots = append(Prune(snapshots, now), data)

	if err := storage.Save(ctx, gw, storage.KeyBackups, snapshots); err != nil {
		return Data{}, fmt.Errorf("save snapshots: %w", err)
	}
	return data, nil
}

// Prune returns the snapshots taken within RetentionDays of now.
func Prune(snapshots []Data, now time.Time) []Data {
	cutoff := now.AddDate(0, 0, -RetentionDays)
	return slices.DeleteFunc(slices.Clone(snapshots), func(d Data) bool {
		return d.Timestamp.Before(cutoff)
	})
}

// List returns the stored snapshots, newest first.
func List(ctx context.Context, gw storage.Gateway) ([]Data, error) {
	snapshots, err := storage.LoadList[Data](ctx, gw, storage.KeyBackups)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	slices.SortStableFunc(snapshots, func(a, b Data) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return snapshots, nil
}

// ReadFile reads an exported document from path.
func ReadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read backup: %w", err)
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("decode backup %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to path as indented JSON through a temp file.
func WriteFile(path string, data Data) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	raw = append(raw, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, raw) {
		return nil
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp backup file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(raw)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp backup file: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename backup file: %w", err)
	}
	return nil
}
