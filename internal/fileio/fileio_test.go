package fileio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fresheditor/fresh/internal/textbuffer"
)

func TestReadFileDetectsLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(res.Content) != "a\nb\n" {
		t.Fatalf("Content = %q, want %q", res.Content, "a\nb\n")
	}
	if res.NewlineStyle != textbuffer.NewlineLF {
		t.Fatalf("NewlineStyle = %q, want LF", res.NewlineStyle)
	}
}

func TestReadFileDetectsCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("a\r\nb\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if res.NewlineStyle != textbuffer.NewlineCRLF {
		t.Fatalf("NewlineStyle = %q, want CRLF", res.NewlineStyle)
	}
}

func TestReadFileMissingReturnsError(t *testing.T) {
	if _, err := ReadFile("/nonexistent/path/to/file"); err == nil {
		t.Fatal("ReadFile() on missing file should return an error")
	}
}

func TestWriteFileThenReadFileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	res, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(res.Content) != "hello\n" {
		t.Fatalf("Content = %q, want %q", res.Content, "hello\n")
	}
}

func TestWriteFileLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("expected the .tmp file to be renamed away, not left behind")
	}
}

func TestWriteFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content = %q, want %q", got, "new")
	}
}
