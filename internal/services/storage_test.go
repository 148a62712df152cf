package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"alfredoptarigan/resume-analyzer/internal/config"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(filepath.Join(dir, "uploads"))
	ctx := context.Background()

	if err := s.EnsureReady(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key := "resumes/abc/resume.pdf"
	if err := s.Save(ctx, key, "application/pdf", []byte("%PDF")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := s.Open(ctx, key)
	if err != nil || string(data) != "%PDF" {
		t.Fatalf("Open = %q, %v", data, err)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Open(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("deleting a missing key should succeed: %v", err)
	}
}

func TestLocalStorageStaysInRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "uploads")
	s := NewLocalStorage(root)
	ctx := context.Background()

	if err := s.Save(ctx, "../../escape.txt", "text/plain", []byte("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); err != nil {
		t.Fatalf("key should resolve inside the root: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Fatalf("file escaped the storage root")
	}

	if err := s.Save(ctx, "/", "text/plain", nil); err == nil {
		t.Fatalf("expected an error for an empty key")
	}
}

func TestNewStorageServiceDrivers(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "local", UploadPath: t.TempDir()}}
	if _, err := NewStorageService(context.Background(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Storage.Driver = "s3"
	if _, err := NewStorageService(context.Background(), cfg); err == nil {
		t.Fatalf("s3 without a bucket should fail")
	}

	cfg.Storage.Driver = "ftp"
	if _, err := NewStorageService(context.Background(), cfg); err == nil {
		t.Fatalf("unknown driver should fail")
	}
}
