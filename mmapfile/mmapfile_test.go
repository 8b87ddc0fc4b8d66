//go:build unix

package mmapfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestOpenAndRead(t *testing.T) {
	content := []byte("hello, mapped world")
	path := writeTemp(t, content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	if f.Size() != len(content) {
		t.Fatalf("Size=%d, expected %d", f.Size(), len(content))
	}
	if !bytes.Equal(f.Data(), content) {
		t.Fatalf("mapped data differs from file content")
	}
	if f.Path() != path {
		t.Fatalf("Path=%q, expected %q", f.Path(), path)
	}
}

func TestOpenLarge(t *testing.T) {
	content := bytes.Repeat([]byte{0xAB}, 1<<20)
	path := writeTemp(t, content)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data := f.Data()
	if data[0] != 0xAB || data[len(data)-1] != 0xAB {
		t.Fatalf("mapped data corrupted at the edges")
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := writeTemp(t, nil)
	if _, err := Open(path); err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCloseIdempotent(t *testing.T) {
	path := writeTemp(t, []byte("x"))
	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if f.Data() != nil {
		t.Fatalf("Data must be nil after Close")
	}
}
