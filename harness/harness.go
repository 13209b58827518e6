// Package harness drives a streaming job to completion synchronously,
// for tests that assert on job behavior.
//
// Some tests stop a job on purpose once an assertion inside a user
// function is satisfied, by failing with ErrSuccess. The execution
// fabric reports any early termination as a failure regardless of
// cause, so the harness inspects the failure's cause chain: ErrSuccess
// anywhere in the chain reclassifies the run as successful. Any other
// failure is reported, after a best-effort cancellation of the job.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/floe/cluster"
)

// tracerName is the instrumentation scope name for floe tracing.
const tracerName = "github.com/xraph/floe"

// ErrSuccess is the intentional-termination sentinel. User code inside
// a job signals "test condition satisfied, stop the job" by failing
// with an error that wraps ErrSuccess.
var ErrSuccess = errors.New("harness: job stopped after success condition")

// IsSuccess reports whether ErrSuccess appears anywhere in err's cause
// chain.
func IsSuccess(err error) bool {
	return errors.Is(err, ErrSuccess)
}

// JobClient is the control handle for a submitted job.
type JobClient interface {
	// AwaitResult blocks until the job's terminal result is available.
	AwaitResult(ctx context.Context) (*cluster.ExecutionResult, error)

	// Cancel requests cancellation and blocks for the acknowledgment.
	Cancel(ctx context.Context) error
}

// Environment is the execution-environment capability: it turns the
// currently composed program into an executable graph and submits it.
type Environment interface {
	// StreamGraph builds the executable graph for the composed program.
	StreamGraph() (*cluster.Graph, error)

	// ExecuteAsync submits the graph and returns a job-control handle.
	ExecuteAsync(ctx context.Context, g *cluster.Graph) (JobClient, error)
}

// Harness runs jobs to completion. Create one with New.
type Harness struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithTracer sets the OpenTelemetry tracer used for run spans.
// Defaults to the global provider's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Harness) { h.tracer = tracer }
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunToCompletion attaches name to the environment's graph, submits it,
// and blocks until the job finishes.
//
// On failure — including failure of the submission itself — the
// harness first cancels the job if a control handle exists. The cancel
// is advisory cleanup: the job may have finished on its own in the
// meantime, so a cancel failure is expected and discarded. Then the
// failure's cause chain is searched for ErrSuccess: if present the run
// is treated as successful and nil is returned; otherwise the failure
// is logged in full and returned, wrapping the original cause.
func (h *Harness) RunToCompletion(ctx context.Context, env Environment, name string) error {
	ctx, span := h.tracer.Start(ctx, "floe.harness.run",
		trace.WithAttributes(attribute.String("floe.job.name", name)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	var client JobClient
	err := func() error {
		g, graphErr := env.StreamGraph()
		if graphErr != nil {
			return graphErr
		}
		g.Name = name

		c, execErr := env.ExecuteAsync(ctx, g)
		if execErr != nil {
			return execErr
		}
		client = c

		_, waitErr := c.AwaitResult(ctx)
		return waitErr
	}()

	if err == nil {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	// A nil client means submission failed before a handle existed;
	// there is nothing to cancel.
	if client != nil {
		if cancelErr := client.Cancel(ctx); cancelErr != nil {
			// Expected when the job already finished. Ignore.
			h.logger.Debug("cancel after failure ignored",
				slog.String("job_name", name),
				slog.String("error", cancelErr.Error()),
			)
		}
	}

	if IsSuccess(err) {
		span.SetStatus(codes.Ok, "")
		return nil
	}

	h.logger.Error("job run failed",
		slog.String("job_name", name),
		slog.String("error", err.Error()),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("job %q failed: %w", name, err)
}

// RunToCompletion runs a job through a default Harness.
func RunToCompletion(ctx context.Context, env Environment, name string) error {
	return New().RunToCompletion(ctx, env, name)
}
