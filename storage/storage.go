// Package storage defines the pointer-resolution boundary for checkpoint
// metadata. A checkpoint pointer is a string naming either a checkpoint
// directory or its metadata file directly; a Resolver turns it into a
// Location from which the metadata blob can be read.
//
// Floe ships two backends: storage/fs for the local filesystem layout
// written by streaming jobs, and storage/mem for tests and development.
package storage

import (
	"context"
	"io"
)

// Location is a resolved checkpoint storage location.
type Location interface {
	// Path returns the checkpoint directory path this location denotes.
	Path() string

	// OpenMetadata opens the metadata blob for reading. The caller owns
	// the returned stream and must close it on every exit path.
	OpenMetadata(ctx context.Context) (io.ReadCloser, error)
}

// Resolver resolves checkpoint pointers into storage locations.
type Resolver interface {
	// Resolve turns a pointer into a Location. A valid pointer names
	// either a checkpoint directory or its metadata file. A
	// nonexistent pointer fails with floe.ErrPointerNotFound; a
	// directory pointer without a metadata file fails with
	// floe.ErrNoMetadata.
	Resolve(pointer string) (Location, error)
}
