package checkpoint

import (
	"context"
	"time"

	"github.com/xraph/floe/backoff"
)

// WaitForCompleted polls root until a completed checkpoint appears,
// then returns its handle. The delay between polls is taken from the
// given strategy; a nil strategy uses backoff.DefaultStrategy().
// Returns the context error if ctx is done before a checkpoint
// completes. Hard scan errors propagate immediately.
func (s *Scanner) WaitForCompleted(ctx context.Context, root string, strategy backoff.Strategy) (*Handle, error) {
	if strategy == nil {
		strategy = backoff.DefaultStrategy()
	}

	for attempt := 1; ; attempt++ {
		h, err := s.FindMostRecentCompleted(ctx, root)
		if err != nil {
			return nil, err
		}
		if h != nil {
			return h, nil
		}

		timer := time.NewTimer(strategy.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
