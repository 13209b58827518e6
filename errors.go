package floe

import "errors"

var (
	// Checkpoint discovery errors.
	ErrNoCheckpoint    = errors.New("floe: no completed checkpoint found")
	ErrBadCheckpointID = errors.New("floe: malformed checkpoint directory name")

	// Storage errors.
	ErrPointerNotFound = errors.New("floe: checkpoint pointer does not exist")
	ErrNoMetadata      = errors.New("floe: checkpoint has no metadata file")

	// Metadata decode errors.
	ErrUnknownSerializer = errors.New("floe: unknown state serializer")

	// Job execution errors.
	ErrNoResult = errors.New("floe: job produced no result")
)
