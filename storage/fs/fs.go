// Package fs implements the storage boundary on the local filesystem —
// the layout streaming jobs actually write: one "chk-<id>" directory
// per checkpoint with a "_metadata" file as a direct child.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/xraph/floe"
	"github.com/xraph/floe/checkpoint"
	"github.com/xraph/floe/storage"
)

// Compile-time interface check.
var _ storage.Resolver = (*Resolver)(nil)

// Resolver resolves checkpoint pointers against the local filesystem.
type Resolver struct{}

// NewResolver creates a filesystem Resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve implements storage.Resolver. The pointer may name either a
// checkpoint directory or its metadata file directly.
func (r *Resolver) Resolve(pointer string) (storage.Location, error) {
	info, err := os.Stat(pointer)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", floe.ErrPointerNotFound, pointer)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve checkpoint pointer %q: %w", pointer, err)
	}

	if !info.IsDir() {
		// The pointer names the metadata file itself.
		return &Location{dir: filepath.Dir(pointer), metadataPath: pointer}, nil
	}

	metadataPath := filepath.Join(pointer, checkpoint.MetadataFileName)
	if _, err := os.Stat(metadataPath); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", floe.ErrNoMetadata, pointer)
		}
		return nil, fmt.Errorf("resolve checkpoint pointer %q: %w", pointer, err)
	}

	return &Location{dir: pointer, metadataPath: metadataPath}, nil
}

// Location is a resolved filesystem checkpoint location.
type Location struct {
	dir          string
	metadataPath string
}

// Path returns the checkpoint directory path.
func (l *Location) Path() string { return l.dir }

// OpenMetadata opens the metadata file for reading.
func (l *Location) OpenMetadata(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint metadata %q: %w", l.metadataPath, err)
	}
	return f, nil
}

// WriteMetadata writes a metadata blob into the given checkpoint
// directory, creating the directory if needed. The write is staged
// through a temp file and renamed into place, so a concurrent scanner
// observes the metadata file either fully written or absent.
func WriteMetadata(dir string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create checkpoint dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, checkpoint.MetadataFileName+".*")
	if err != nil {
		return fmt.Errorf("stage checkpoint metadata in %q: %w", dir, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write checkpoint metadata in %q: %w", dir, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write checkpoint metadata in %q: %w", dir, err)
	}

	final := filepath.Join(dir, checkpoint.MetadataFileName)
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish checkpoint metadata %q: %w", final, err)
	}
	return nil
}
