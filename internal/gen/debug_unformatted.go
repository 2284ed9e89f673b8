package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. This is best-effort and should never make generation fail
// harder.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}
	// Keep the .go suffix for syntax highlighting, but build-ignore the file
	// so it cannot break the package it sits in.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.go"
	content = append([]byte("//go:build ignore\n\n"), content...)

	return os.WriteFile(filepath.Join(outDir, debugName), content, filePerm)
}
