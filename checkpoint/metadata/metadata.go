// Package metadata defines the structured checkpoint metadata record
// and loads it from a resolved storage location.
//
// The on-disk metadata blob references the state serializers used by
// the job's operators by name. Decoding is therefore parameterized by
// a Registry that resolves those names to StateCodecs — the loader
// rejects a blob that references a serializer the caller has not
// registered, naming the original pointer in the error.
package metadata

// Metadata is the decoded checkpoint metadata record. The record is
// owned exclusively by the caller once returned; there is no shared
// mutable state.
type Metadata struct {
	// CheckpointID is the numeric checkpoint ID, matching the
	// "chk-<id>" directory the blob was read from.
	CheckpointID uint64 `json:"checkpoint_id" msgpack:"checkpoint_id"`

	// Timestamp is when the checkpoint was triggered, in unix
	// milliseconds as recorded by the checkpoint writer.
	Timestamp int64 `json:"timestamp" msgpack:"timestamp"`

	// OperatorStates holds the persisted state of each operator in the
	// job graph.
	OperatorStates []OperatorState `json:"operator_states,omitempty" msgpack:"operator_states,omitempty"`

	// MasterStates holds coordinator-side state hooks, if any.
	MasterStates []MasterState `json:"master_states,omitempty" msgpack:"master_states,omitempty"`
}

// OperatorState is the persisted state of one operator.
type OperatorState struct {
	OperatorID     string         `json:"operator_id" msgpack:"operator_id"`
	Parallelism    int            `json:"parallelism" msgpack:"parallelism"`
	MaxParallelism int            `json:"max_parallelism" msgpack:"max_parallelism"`
	Subtasks       []SubtaskState `json:"subtasks,omitempty" msgpack:"subtasks,omitempty"`
}

// SubtaskState is the state blob of one parallel subtask, tagged with
// the name of the serializer that wrote it.
type SubtaskState struct {
	Index      int    `json:"index" msgpack:"index"`
	Serializer string `json:"serializer" msgpack:"serializer"`
	State      []byte `json:"state" msgpack:"state"`
}

// MasterState is a named coordinator-side state entry.
type MasterState struct {
	Name    string `json:"name" msgpack:"name"`
	Version int    `json:"version" msgpack:"version"`
	State   []byte `json:"state" msgpack:"state"`
}
