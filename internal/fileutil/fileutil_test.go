package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		maxSize int64
		wantErr error
	}{
		{name: "under limit", input: "feat: a", maxSize: 100},
		{name: "exact limit", input: "12345", maxSize: 5},
		{name: "over limit", input: "fix: this is too long", maxSize: 10, wantErr: ErrTooLarge},
		{name: "empty", input: "", maxSize: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := ReadLimited(strings.NewReader(tt.input), tt.maxSize)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReadLimited() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadLimited() error = %v", err)
			}
			if string(data) != tt.input {
				t.Errorf("ReadLimited() = %q, want %q", data, tt.input)
			}
		})
	}
}

func TestReadFileLimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		maxSize int64
		wantErr bool
	}{
		{name: "small message", content: "feat: add x\n\nbody\n", maxSize: 100},
		{name: "exact limit", content: "12345", maxSize: 5},
		{name: "too large", content: strings.Repeat("x", 64), maxSize: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("failed to create test file: %v", err)
			}

			data, err := ReadFileLimited(path, tt.maxSize)
			if tt.wantErr {
				if !errors.Is(err, ErrTooLarge) {
					t.Errorf("ReadFileLimited() error = %v, want ErrTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFileLimited() error = %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("content mismatch: got %q, want %q", data, tt.content)
			}
		})
	}
}

func TestReadFileLimited_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := ReadFileLimited(filepath.Join(t.TempDir(), "missing"), 100)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got: %v", err)
	}
}

func TestReadFileLimited_Directory(t *testing.T) {
	t.Parallel()

	if _, err := ReadFileLimited(t.TempDir(), 100); err == nil {
		t.Error("expected error when reading directory, got nil")
	}
}

func TestAtomicWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".commitkit.yaml")

	if err := AtomicWriteFile(path, []byte("rules: {}\n"), 0o644); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("output: {}\n"), 0o644); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "output: {}\n" {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("permissions = %o, want 644", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, got %d entries", len(entries))
	}
}

func TestAtomicWriteFile_InvalidDirectory(t *testing.T) {
	t.Parallel()

	err := AtomicWriteFile(filepath.Join(t.TempDir(), "missing", "file"), []byte("x"), 0o600)
	if err == nil {
		t.Error("expected error for nonexistent directory, got nil")
	}
}

type fakeTempFile struct {
	name     string
	writeErr error
	closed   bool
}

func (f *fakeTempFile) Name() string                { return f.name }
func (f *fakeTempFile) Chmod(os.FileMode) error     { return nil }
func (f *fakeTempFile) Write(p []byte) (int, error) { return len(p), f.writeErr }
func (f *fakeTempFile) Sync() error                 { return nil }
func (f *fakeTempFile) Close() error                { f.closed = true; return nil }

func TestAtomicWriteFile_CleansUpOnFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		writeErr  error
		renameErr error
	}{
		{name: "write fails", writeErr: errors.New("disk full")},
		{name: "rename fails", renameErr: errors.New("cross-device link")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmp := &fakeTempFile{name: "msg.tmp123", writeErr: tt.writeErr}
			var removed []string
			ops := fsOps{
				createTemp: func(dir, pattern string) (tempFile, error) { return tmp, nil },
				rename:     func(oldpath, newpath string) error { return tt.renameErr },
				remove: func(path string) error {
					removed = append(removed, path)
					return nil
				},
			}

			if err := atomicWriteFile("msg", []byte("feat: a"), 0o600, ops); err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tmp.closed {
				t.Error("temp file was not closed")
			}
			if len(removed) == 0 || removed[0] != "msg.tmp123" {
				t.Errorf("removed = %v, want temp file removed", removed)
			}
		})
	}
}
