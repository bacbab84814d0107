// Package persistence handles snapshotting index structures to disk using
// encoding/gob. Payload bytes inside posting entries are opaque to gob, so
// annotation data survives round-trips unchanged.
package persistence

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// SaveSnapshot gob-encodes object into a temporary file next to filePath and
// renames it into place, so a crash mid-write never leaves a torn snapshot.
func SaveSnapshot(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpPath := filePath + ".tmp"
	file, err := os.Create(tmpPath) // #nosec G304 -- path is derived from the configured data directory
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", tmpPath, err)
	}

	if err := gob.NewEncoder(file).Encode(object); err != nil {
		closeAndWarn(file, tmpPath)
		return fmt.Errorf("failed to gob encode to file %s: %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		return fmt.Errorf("failed to move snapshot into place at %s: %w", filePath, err)
	}
	return nil
}

// LoadSnapshot decodes a gob-encoded file from filePath into the provided
// pointer. A missing file returns os.ErrNotExist so callers can treat it as a
// fresh start.
func LoadSnapshot(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- path is derived from the configured data directory
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer closeAndWarn(file, filePath)

	if err := gob.NewDecoder(file).Decode(objectPointer); err != nil {
		return fmt.Errorf("failed to gob decode from file %s: %w", filePath, err)
	}
	return nil
}

func closeAndWarn(file *os.File, path string) {
	if err := file.Close(); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to close snapshot file")
	}
}
