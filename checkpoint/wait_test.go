package checkpoint_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xraph/floe/backoff"
	"github.com/xraph/floe/checkpoint"
)

func TestWaitForCompleted(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := checkpoint.NewScanner()

	// The checkpoint completes while the waiter is polling.
	go func() {
		time.Sleep(20 * time.Millisecond)
		dir := filepath.Join(root, "chk-1")
		_ = os.MkdirAll(dir, 0o755)
		_ = os.WriteFile(filepath.Join(dir, checkpoint.MetadataFileName), []byte("meta"), 0o644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, err := s.WaitForCompleted(ctx, root, backoff.NewConstant(5*time.Millisecond))
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if h == nil || h.ID != 1 {
		t.Fatalf("got %+v, want chk-1", h)
	}
}

func TestWaitForCompleted_ContextDone(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	s := checkpoint.NewScanner()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := s.WaitForCompleted(ctx, root, backoff.NewConstant(5*time.Millisecond))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want DeadlineExceeded", err)
	}
}
