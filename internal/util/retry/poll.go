package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PollConfig holds polling configuration.
type PollConfig struct {
	// Interval between probe attempts.
	Interval time.Duration
	// Timeout is the overall deadline for the poll. When it elapses the
	// poll fails with a *TimeoutError.
	Timeout time.Duration
	// Settle is an additional delay applied after the probe first reports
	// ready, before Poll returns. Used to let daemons finish initializing
	// after their port opens.
	Settle time.Duration
}

// TimeoutError indicates a poll gave up after its deadline elapsed.
// It is distinct from context cancellation, which surfaces as ctx.Err().
type TimeoutError struct {
	Elapsed time.Duration
	LastErr error
}

func (e *TimeoutError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("timed out after %v (last error: %v)", e.Elapsed.Round(time.Second), e.LastErr)
	}
	return fmt.Sprintf("timed out after %v", e.Elapsed.Round(time.Second))
}

func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}

// IsTimeout reports whether err is a poll timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// Poll repeatedly runs probe until it reports ready, the configured timeout
// elapses, or ctx is cancelled.
//
// Probe errors are treated as "not ready yet" and do not abort the poll; the
// last error is attached to the TimeoutError for diagnostics. The probe runs
// once immediately, then once per interval.
func Poll(ctx context.Context, cfg PollConfig, probe func(context.Context) (bool, error)) error {
	start := time.Now()

	deadline := time.NewTimer(cfg.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ready, err := probe(ctx)
		if err != nil {
			lastErr = err
		}
		if ready {
			return settle(ctx, cfg.Settle)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return &TimeoutError{Elapsed: time.Since(start), LastErr: lastErr}
		case <-ticker.C:
		}
	}
}

// settle waits for the settle delay, honoring cancellation.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
