package mem_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/xraph/floe"
	"github.com/xraph/floe/storage/mem"
)

func TestResolveAndOpen(t *testing.T) {
	t.Parallel()
	r := mem.NewResolver()
	r.PutMetadata("/ckpts/chk-1", []byte("blob"))

	tests := []struct {
		name    string
		pointer string
	}{
		{"directory pointer", "/ckpts/chk-1"},
		{"file pointer", "/ckpts/chk-1/_metadata"},
		{"unclean pointer", "/ckpts//chk-1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := r.Resolve(tt.pointer)
			if err != nil {
				t.Fatalf("resolve %q: %v", tt.pointer, err)
			}
			if loc.Path() != "/ckpts/chk-1" {
				t.Errorf("Path() = %q, want /ckpts/chk-1", loc.Path())
			}

			stream, err := loc.OpenMetadata(context.Background())
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer stream.Close()

			data, _ := io.ReadAll(stream)
			if string(data) != "blob" {
				t.Errorf("read %q, want %q", data, "blob")
			}
		})
	}
}

func TestResolveMissing(t *testing.T) {
	t.Parallel()
	r := mem.NewResolver()

	_, err := r.Resolve("/ckpts/chk-404")
	if !errors.Is(err, floe.ErrPointerNotFound) {
		t.Fatalf("error = %v, want ErrPointerNotFound", err)
	}
}

// Deleting the blob between Resolve and OpenMetadata mirrors the
// filesystem subsumption race.
func TestDeleteBetweenResolveAndOpen(t *testing.T) {
	t.Parallel()
	r := mem.NewResolver()
	r.PutMetadata("/ckpts/chk-1", []byte("blob"))

	loc, err := r.Resolve("/ckpts/chk-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	r.DeleteMetadata("/ckpts/chk-1")

	if _, err := loc.OpenMetadata(context.Background()); !errors.Is(err, floe.ErrNoMetadata) {
		t.Fatalf("error = %v, want ErrNoMetadata", err)
	}
}

func TestPutCopiesData(t *testing.T) {
	t.Parallel()
	r := mem.NewResolver()

	data := []byte("blob")
	r.PutMetadata("/ckpts/chk-1", data)
	data[0] = 'x'

	loc, err := r.Resolve("/ckpts/chk-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	stream, err := loc.OpenMetadata(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer stream.Close()

	got, _ := io.ReadAll(stream)
	if string(got) != "blob" {
		t.Errorf("read %q, want %q (stored blob mutated by caller)", got, "blob")
	}
}
