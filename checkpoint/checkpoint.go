// Package checkpoint discovers completed checkpoints under a checkpoint
// root directory.
//
// A streaming job persists each checkpoint as a directory named
// "chk-<id>" directly under the root. A checkpoint is complete iff a
// file named "_metadata" exists as a direct child of its directory.
// Completeness is re-evaluated on every scan: a retention process may
// delete ("subsume") a checkpoint concurrently, and the only visible
// symptom of that race is the metadata file going missing.
package checkpoint

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xraph/floe"
)

const (
	// DirPrefix is the name prefix of checkpoint directories.
	DirPrefix = "chk-"

	// MetadataFileName is the name of the metadata file inside a
	// completed checkpoint directory.
	MetadataFileName = "_metadata"
)

// Handle identifies one checkpoint candidate directory.
type Handle struct {
	// Path is the checkpoint directory path.
	Path string

	// ID is the numeric checkpoint ID parsed from the directory name.
	// IDs increase monotonically per root, so the handle with the
	// greatest ID is the most recently created checkpoint.
	ID uint64
}

// MetadataPath returns the path of the metadata file inside the
// checkpoint directory.
func (h Handle) MetadataPath() string {
	return filepath.Join(h.Path, MetadataFileName)
}

// ParseHandle parses a checkpoint directory path into a Handle. The
// base name must be DirPrefix followed by a decimal checkpoint ID.
func ParseHandle(path string) (Handle, error) {
	name := filepath.Base(path)
	suffix, ok := strings.CutPrefix(name, DirPrefix)
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q has no %q prefix", floe.ErrBadCheckpointID, name, DirPrefix)
	}

	cid, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %q: %v", floe.ErrBadCheckpointID, name, err)
	}

	return Handle{Path: path, ID: cid}, nil
}
