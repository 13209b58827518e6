package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/xraph/floe"
)

// tracerName is the instrumentation scope name for floe tracing.
const tracerName = "github.com/xraph/floe"

// Scanner finds the most recent completed checkpoint under a root
// directory. The zero value is not usable; create one with NewScanner.
type Scanner struct {
	logger *slog.Logger
	tracer trace.Tracer

	// testHookAfterList runs between the directory listing and the
	// metadata presence checks. Tests use it to delete a checkpoint
	// mid-scan and exercise the subsumption race.
	testHookAfterList func()
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// WithTracer sets the OpenTelemetry tracer used for scan spans.
// Defaults to the global provider's tracer; with no global provider
// configured that is a noop tracer with zero overhead.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Scanner) { s.tracer = tracer }
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindMostRecentCompleted scans root for completed checkpoints and
// returns the one with the greatest checkpoint ID, or nil if no
// completed checkpoint exists. A missing metadata file is never an
// error: the candidate was subsumed by retention and is excluded. Any
// other I/O failure propagates.
//
// Recency is decided by the numeric checkpoint ID, not by string
// comparison of paths. String comparison misorders IDs of unequal
// digit width ("chk-9" sorts after "chk-10"); IDs increase
// monotonically, so the numeric order is the creation order.
func (s *Scanner) FindMostRecentCompleted(ctx context.Context, root string) (*Handle, error) {
	ctx, span := s.tracer.Start(ctx, "floe.checkpoint.scan",
		trace.WithAttributes(attribute.String("floe.checkpoint.root", root)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	h, err := s.scan(ctx, root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	if h != nil {
		span.SetAttributes(attribute.Int64("floe.checkpoint.id", int64(h.ID)))
	}
	return h, nil
}

// MostRecentCompleted is the variant for call sites that require a
// checkpoint to exist. It fails with floe.ErrNoCheckpoint when the
// root holds no completed checkpoint.
func (s *Scanner) MostRecentCompleted(ctx context.Context, root string) (*Handle, error) {
	h, err := s.FindMostRecentCompleted(ctx, root)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w under %q", floe.ErrNoCheckpoint, root)
	}
	return h, nil
}

func (s *Scanner) scan(ctx context.Context, root string) (*Handle, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list checkpoint root %q: %w", root, err)
	}

	var candidates []Handle
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// Not a checkpoint directory: no prefix, or a suffix that is
		// not a decimal ID. Not a candidate either way.
		h, parseErr := ParseHandle(filepath.Join(root, entry.Name()))
		if parseErr != nil {
			continue
		}
		candidates = append(candidates, h)
	}

	if s.testHookAfterList != nil {
		s.testHookAfterList()
	}

	// Completeness is checked per candidate, concurrently. A candidate
	// whose metadata file (or whole directory) vanished mid-scan was
	// subsumed and is excluded; any other failure aborts the scan.
	complete := make([]bool, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	for i, h := range candidates {
		g.Go(func() error {
			ok, checkErr := hasMetadata(h)
			if checkErr != nil {
				return checkErr
			}
			complete[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best *Handle
	for i, h := range candidates {
		if !complete[i] {
			continue
		}
		if best == nil || h.ID > best.ID {
			best = &candidates[i]
		}
	}

	if best == nil {
		s.logger.Debug("no completed checkpoint", slog.String("root", root))
		return nil, nil
	}
	return best, nil
}

// hasMetadata reports whether the metadata file exists as a direct
// child of the checkpoint directory right now. fs.ErrNotExist means
// the checkpoint was subsumed between listing and this check.
func hasMetadata(h Handle) (bool, error) {
	info, err := os.Stat(h.MetadataPath())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check metadata of %q: %w", h.Path, err)
	}
	return info.Mode().IsRegular(), nil
}
