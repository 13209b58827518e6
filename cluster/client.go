// Package cluster defines the job submission boundary. Floe never
// implements the execution fabric itself; callers supply a Client and
// floe composes submission, result retrieval, and cancellation on top
// of it.
package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/xraph/floe"
	"github.com/xraph/floe/checkpoint/metadata"
	"github.com/xraph/floe/id"
)

// Graph is an executable job graph produced by an execution
// environment. Floe only attaches a name before submission; the graph
// structure itself is owned by the execution fabric and carried
// opaquely.
type Graph struct {
	Name string
	Spec []byte
}

// Accumulator is a raw accumulator value returned by the fabric,
// tagged with the serializer that encoded it.
type Accumulator struct {
	Serializer string
	Data       []byte
}

// JobResult is the raw terminal result of a submitted job as reported
// by the execution fabric.
type JobResult struct {
	ID           id.JobID
	Runtime      time.Duration
	Accumulators map[string]Accumulator
}

// ToExecutionResult converts the raw result into an ExecutionResult,
// decoding each accumulator through the given registry. The registry
// plays the same role here as in metadata loading: it resolves the
// serializer names the fabric recorded.
func (r *JobResult) ToExecutionResult(registry *metadata.Registry) (*ExecutionResult, error) {
	res := &ExecutionResult{
		JobID:        r.ID,
		Runtime:      r.Runtime,
		Accumulators: make(map[string]any, len(r.Accumulators)),
	}

	for name, acc := range r.Accumulators {
		codec, ok := registry.Resolve(acc.Serializer)
		if !ok {
			return nil, fmt.Errorf("%w: %q for accumulator %q", floe.ErrUnknownSerializer, acc.Serializer, name)
		}
		v, err := codec.Decode(acc.Data)
		if err != nil {
			return nil, fmt.Errorf("decode accumulator %q: %w", name, err)
		}
		res.Accumulators[name] = v
	}

	return res, nil
}

// ExecutionResult is the decoded outcome of a completed job.
type ExecutionResult struct {
	JobID        id.JobID
	Runtime      time.Duration
	Accumulators map[string]any
}

// Client is the cluster-side submission capability.
type Client interface {
	// SubmitJob submits the graph and returns the job's ID.
	SubmitJob(ctx context.Context, g *Graph) (id.JobID, error)

	// RequestJobResult blocks until the job's terminal result is
	// available and returns it.
	RequestJobResult(ctx context.Context, jobID id.JobID) (*JobResult, error)

	// CancelJob requests cancellation of a running job and blocks for
	// the acknowledgment.
	CancelJob(ctx context.Context, jobID id.JobID) error
}

// SubmitAndAwait submits the graph, blocks for the job's terminal
// result, and decodes it through the registry. Pure composition over
// the Client; no logic of its own.
func SubmitAndAwait(ctx context.Context, c Client, g *Graph, registry *metadata.Registry) (*ExecutionResult, error) {
	jobID, err := c.SubmitJob(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("submit job %q: %w", g.Name, err)
	}

	raw, err := c.RequestJobResult(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("await result of job %s: %w", jobID, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: job %s", floe.ErrNoResult, jobID)
	}

	return raw.ToExecutionResult(registry)
}
