package gen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files into their package directories.
func WriteFiles(files []GeneratedFile) error {
	for _, file := range files {
		if err := os.MkdirAll(file.Dir, dirPerm); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		outputPath := filepath.Join(file.Dir, file.Filename)

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", outputPath, err)
		}
	}

	return nil
}

// RemoveStale deletes a previously generated file that is no longer needed.
// It reports whether a file was removed.
func RemoveStale(dir, filename string) (bool, error) {
	p := filepath.Join(dir, filename)

	err := os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("removing %s: %w", p, err)
	}

	return true, nil
}

// UpToDate reports whether the file on disk matches want. A nil want means
// no file should exist.
func UpToDate(dir, filename string, want *GeneratedFile) (bool, error) {
	current, err := os.ReadFile(filepath.Join(dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return want == nil, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading %s: %w", filename, err)
	}

	return want != nil && bytes.Equal(current, want.Content), nil
}
