package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalArchiver_Archive(t *testing.T) {
	dir := t.TempDir()
	archiver, err := NewLocalArchiver(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := archiver.Archive(context.Background(), "sora-job_1.mp4", "video/mp4", bytes.NewReader([]byte("video-bytes")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(dir, "sora-job_1.mp4")
	if url != want {
		t.Errorf("expected path %s, got %s", want, url)
	}

	data, err := os.ReadFile(url)
	if err != nil {
		t.Fatalf("failed to read archived file: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestLocalArchiver_StripsPathFromKey(t *testing.T) {
	dir := t.TempDir()
	archiver, err := NewLocalArchiver(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := archiver.Archive(context.Background(), "../../escape.mp4", "video/mp4", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != filepath.Join(dir, "escape.mp4") {
		t.Errorf("key must be flattened into the archive dir, got %s", url)
	}
}

func TestLocalArchiver_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")

	archiver, err := NewLocalArchiver(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archiver.Dir() != dir {
		t.Errorf("expected dir %s, got %s", dir, archiver.Dir())
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

func TestLocalArchiver_ContextCancelled(t *testing.T) {
	archiver, err := NewLocalArchiver(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := archiver.Archive(ctx, "x.mp4", "video/mp4", bytes.NewReader(nil)); err == nil {
		t.Error("expected error for cancelled context")
	}
}
