package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agenthands/thorn/pkg/loader"
)

func TestReadLines(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "prog.th")
	if err := os.WriteFile(path, []byte("1 2 +\r\nput\n\n[last]"), 0644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	l := loader.New("", 1024)
	lines, err := l.ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}

	want := []string{"1 2 +", "put", "", "[last]"}
	if len(lines) != len(want) {
		t.Fatalf("expected %q, got %q", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestReadLinesTooLarge(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "big.th")
	os.WriteFile(path, []byte("1 2 3 4 5 6 7 8 9"), 0644)

	l := loader.New("", 4)
	if _, err := l.ReadLines(path); !errors.Is(err, loader.ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestLoaderJailing(t *testing.T) {
	tempDir := t.TempDir()
	l := loader.New(tempDir, 1024)

	if _, err := l.ReadLines("../../etc/passwd"); err != loader.ErrPathEscape {
		t.Errorf("expected ErrPathEscape, got %v", err)
	}

	os.WriteFile(filepath.Join(tempDir, "ok.th"), []byte("1 put"), 0644)
	lines, err := l.ReadLines("ok.th")
	if err != nil {
		t.Fatalf("ReadLines inside root failed: %v", err)
	}
	if len(lines) != 1 || lines[0] != "1 put" {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestReadLinesMissing(t *testing.T) {
	l := loader.New("", 0)
	if _, err := l.ReadLines(filepath.Join(t.TempDir(), "nope.th")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
