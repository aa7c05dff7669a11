package prerender

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "blog", "hello-world", "index.html")

	err := WriteFileAtomic(target, []byte("first"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = WriteFileAtomic(target, []byte("second"), 0o600)
	if err != nil {
		t.Fatalf("unexpected error on overwrite: %v", err)
	}

	b, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read target: %v", err)
	}
	if string(b) != "second" {
		t.Fatalf("unexpected content %q", b)
	}

	stat, err := os.Stat(target)
	if err != nil {
		t.Fatalf("failed to stat target: %v", err)
	}
	if perm := stat.Mode().Perm(); perm != 0o600 {
		t.Fatalf("unexpected perm %o", perm)
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the target in dir, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	err := os.WriteFile(blocker, nil, 0o644)
	if err != nil {
		t.Fatalf("failed to write blocker: %v", err)
	}

	err = WriteFileAtomic(filepath.Join(blocker, "index.html"), []byte("x"), 0)
	if err == nil {
		t.Fatalf("expected error when parent is a file")
	}

	var wErr writeError
	if !errors.As(err, &wErr) {
		t.Fatalf("expected writeError, got %T", err)
	}
}

func TestStageError(t *testing.T) {
	err := StageError{
		Err:   ErrNotFound,
		Key:   "hello-world",
		Msg:   "missing artifact",
		Stage: StageInject,
	}

	if err.Error() != "[inject hello-world] missing artifact: not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected StageError to unwrap to ErrNotFound")
	}
}
