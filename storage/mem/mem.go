// Package mem implements the storage boundary fully in memory.
// Safe for concurrent access. Intended for unit testing and development.
package mem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/xraph/floe"
	"github.com/xraph/floe/checkpoint"
	"github.com/xraph/floe/storage"
)

// Compile-time interface check.
var _ storage.Resolver = (*Resolver)(nil)

// Resolver holds checkpoint metadata blobs keyed by checkpoint
// directory path.
type Resolver struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewResolver returns a new empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{blobs: make(map[string][]byte)}
}

// PutMetadata stores a metadata blob for the given checkpoint
// directory path, replacing any previous blob.
func (r *Resolver) PutMetadata(dir string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	r.blobs[path.Clean(dir)] = cp
}

// DeleteMetadata removes the blob for the given checkpoint directory,
// mimicking retention subsuming the checkpoint.
func (r *Resolver) DeleteMetadata(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.blobs, path.Clean(dir))
}

// Resolve implements storage.Resolver. The pointer may name either a
// checkpoint directory or its metadata file directly.
func (r *Resolver) Resolve(pointer string) (storage.Location, error) {
	dir := path.Clean(pointer)
	dir = strings.TrimSuffix(dir, "/"+checkpoint.MetadataFileName)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.blobs[dir]; !ok {
		return nil, fmt.Errorf("%w: %q", floe.ErrPointerNotFound, pointer)
	}
	return &location{resolver: r, dir: dir}, nil
}

// location defers the blob read to OpenMetadata so that a delete
// between Resolve and OpenMetadata surfaces like the filesystem race.
type location struct {
	resolver *Resolver
	dir      string
}

func (l *location) Path() string { return l.dir }

func (l *location) OpenMetadata(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.resolver.mu.RLock()
	data, ok := l.resolver.blobs[l.dir]
	l.resolver.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", floe.ErrNoMetadata, l.dir)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
