package metadata

import (
	"encoding/json"
	"sync"
)

// StateCodec decodes a persisted state blob into its in-memory value.
// It is the resolution target for the serializer names referenced by
// checkpoint metadata and job accumulators.
type StateCodec interface {
	// Name returns the serializer name recorded in metadata.
	Name() string

	// Decode turns a persisted state blob into its value.
	Decode(data []byte) (any, error)

	// Encode turns a value back into a persisted state blob.
	Encode(v any) ([]byte, error)
}

// Registry resolves serializer names to StateCodecs. Safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]StateCodec
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]StateCodec)}
}

// DefaultRegistry returns a Registry with the built-in codecs
// ("bytes", "json") registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BytesCodec{})
	r.Register(JSONStateCodec{})
	return r
}

// Register adds a codec, replacing any codec with the same name.
func (r *Registry) Register(c StateCodec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[c.Name()] = c
}

// Resolve returns the codec registered under name.
func (r *Registry) Resolve(name string) (StateCodec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[name]
	return c, ok
}

// BytesCodec passes state blobs through untouched.
type BytesCodec struct{}

func (BytesCodec) Name() string { return "bytes" }

func (BytesCodec) Decode(data []byte) (any, error) {
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (BytesCodec) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return json.Marshal(v)
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// JSONStateCodec decodes state blobs as JSON into generic values.
type JSONStateCodec struct{}

func (JSONStateCodec) Name() string { return "json" }

func (JSONStateCodec) Decode(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (JSONStateCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
