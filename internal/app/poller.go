package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollInterval = 5 * time.Minute
	maxBackoff          = 30 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the daily
// summary at a fixed cadence, backing off while refreshes fail. The returned
// channel is closed once the goroutine exits after ctx is cancelled.
func StartPoller(ctx context.Context, rt *Runtime, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)

		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if refresh(ctx, rt) {
				failures = 0
				continue
			}
			failures++
			rt.Logger.Debug("poll failed, backing off",
				zap.Int("failures", failures),
				zap.Duration("next", calculateBackoff(failures, interval)))
		}
	}()
	return done
}

// refresh re-runs a silent handshake while the device is not ready, then
// fetches the daily summary. It reports whether the summary is now current.
func refresh(ctx context.Context, rt *Runtime) bool {
	if !rt.Capability.State().Ready() {
		if st := rt.Capability.Check(ctx, true); !st.Ready() {
			return false
		}
	}
	snap := rt.Sleep.FetchDaily(ctx)
	return snap.LastErr == nil
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. A base already above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
