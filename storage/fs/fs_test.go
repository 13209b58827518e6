package fs_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/xraph/floe"
	"github.com/xraph/floe/checkpoint"
	"github.com/xraph/floe/storage/fs"
)

func TestResolveDirectoryPointer(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "chk-1")

	if err := fs.WriteMetadata(dir, []byte("blob")); err != nil {
		t.Fatalf("write: %v", err)
	}

	loc, err := fs.NewResolver().Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if loc.Path() != dir {
		t.Errorf("Path() = %q, want %q", loc.Path(), dir)
	}

	stream, err := loc.OpenMetadata(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "blob" {
		t.Errorf("read %q, want %q", data, "blob")
	}
}

func TestResolveFilePointer(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "chk-1")

	if err := fs.WriteMetadata(dir, []byte("blob")); err != nil {
		t.Fatalf("write: %v", err)
	}

	pointer := filepath.Join(dir, checkpoint.MetadataFileName)
	loc, err := fs.NewResolver().Resolve(pointer)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if loc.Path() != dir {
		t.Errorf("Path() = %q, want %q", loc.Path(), dir)
	}
}

func TestResolveMissingPointer(t *testing.T) {
	t.Parallel()

	_, err := fs.NewResolver().Resolve(filepath.Join(t.TempDir(), "chk-404"))
	if !errors.Is(err, floe.ErrPointerNotFound) {
		t.Fatalf("error = %v, want ErrPointerNotFound", err)
	}
}

func TestResolveDirectoryWithoutMetadata(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "chk-1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := fs.NewResolver().Resolve(dir)
	if !errors.Is(err, floe.ErrNoMetadata) {
		t.Fatalf("error = %v, want ErrNoMetadata", err)
	}
}

func TestWriteMetadataReplaces(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "chk-1")

	if err := fs.WriteMetadata(dir, []byte("first")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fs.WriteMetadata(dir, []byte("second")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, checkpoint.MetadataFileName))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("read %q, want %q", data, "second")
	}

	// No stray temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("checkpoint dir has %d entries, want 1", len(entries))
	}
}

func TestOpenMetadataCancelledContext(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "chk-1")
	if err := fs.WriteMetadata(dir, []byte("blob")); err != nil {
		t.Fatalf("write: %v", err)
	}

	loc, err := fs.NewResolver().Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := loc.OpenMetadata(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
