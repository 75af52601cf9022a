// Package backup stores exports outside the local database: as files on disk
// and as objects in an S3-compatible bucket.
package backup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// FileName returns the default export file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("keepers-%s.json", t.UTC().Format("20060102-150405"))
}

// WriteFile writes data to path atomically, creating parent directories.
// Readers never observe a partially written export.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return nil
}

// ReadFile reads an export written by WriteFile or by hand.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", path, err)
	}
	return data, nil
}
