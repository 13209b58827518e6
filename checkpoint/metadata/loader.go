package metadata

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/floe"
	"github.com/xraph/floe/storage"
)

// tracerName is the instrumentation scope name for floe tracing.
const tracerName = "github.com/xraph/floe"

// Loader resolves checkpoint pointers and decodes metadata records.
type Loader struct {
	resolver storage.Resolver
	registry *Registry
	codec    Codec
	tracer   trace.Tracer
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCodec sets the wire codec. Defaults to msgpack.
func WithCodec(c Codec) LoaderOption {
	return func(l *Loader) { l.codec = c }
}

// WithTracer sets the OpenTelemetry tracer used for load spans.
// Defaults to the global provider's tracer.
func WithTracer(tracer trace.Tracer) LoaderOption {
	return func(l *Loader) { l.tracer = tracer }
}

// NewLoader creates a Loader. The registry supplies the state codecs
// the metadata may reference; records referencing an unregistered
// serializer fail to load.
func NewLoader(resolver storage.Resolver, registry *Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		resolver: resolver,
		registry: registry,
		codec:    &MsgpackCodec{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves pointer into a storage location, reads the metadata
// stream, and decodes it. The stream is released on every exit path.
// Decode failures carry the original pointer for diagnostics.
func (l *Loader) Load(ctx context.Context, pointer string) (*Metadata, error) {
	ctx, span := l.tracer.Start(ctx, "floe.metadata.load",
		trace.WithAttributes(attribute.String("floe.checkpoint.pointer", pointer)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	md, err := l.load(ctx, pointer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return md, nil
}

func (l *Loader) load(ctx context.Context, pointer string) (*Metadata, error) {
	loc, err := l.resolver.Resolve(pointer)
	if err != nil {
		return nil, err
	}

	stream, err := loc.OpenMetadata(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint metadata %q: %w", pointer, err)
	}

	md, err := l.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode checkpoint metadata %q: %w", pointer, err)
	}

	// Every referenced serializer must be resolvable before the record
	// is handed to the caller.
	for _, op := range md.OperatorStates {
		for _, st := range op.Subtasks {
			if _, ok := l.registry.Resolve(st.Serializer); !ok {
				return nil, fmt.Errorf("%w: %q referenced by checkpoint %q", floe.ErrUnknownSerializer, st.Serializer, pointer)
			}
		}
	}

	return md, nil
}

// Load is a convenience for one-shot loads with default options.
func Load(ctx context.Context, resolver storage.Resolver, pointer string, registry *Registry) (*Metadata, error) {
	return NewLoader(resolver, registry).Load(ctx, pointer)
}
