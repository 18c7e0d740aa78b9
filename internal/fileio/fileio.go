// ABOUTME: File I/O boundary per spec.md §6.1: read_file(path) -> bytes, write_file(path, bytes)
// ABOUTME: Line endings are preserved verbatim; the core only sniffs and caches the newline style

package fileio

import (
	"fmt"
	"os"

	"github.com/fresheditor/fresh/internal/textbuffer"
)

// ReadResult pairs a file's raw bytes with the document metadata sniffed
// from them.
type ReadResult struct {
	Content      []byte
	NewlineStyle textbuffer.NewlineStyle
}

// ReadFile reads path verbatim and detects its newline style from the
// first line ending found, without altering any byte.
func ReadFile(path string) (ReadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReadResult{}, fmt.Errorf("reading file: %w", err)
	}
	return ReadResult{
		Content:      data,
		NewlineStyle: textbuffer.DetectNewlineStyle(data),
	}, nil
}

// WriteFile writes data to path atomically: write to a sibling temp file,
// then rename over the destination, so a crash mid-write never leaves a
// truncated file in place.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
