package app

import (
	"context"
	"log"
	"time"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 30 * time.Second
)

// refresher is the part of cart.State the poller drives.
type refresher interface {
	Refresh(ctx context.Context) error
}

// StartPoller launches a goroutine that refreshes target every interval,
// backing off after consecutive failures. It returns immediately and stops
// when ctx is cancelled.
func StartPoller(ctx context.Context, target refresher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		for {
			timer := time.NewTimer(calculateBackoff(failures, interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if err := target.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				log.Printf("app: cart poll failed (%d in a row), next in %v: %v", failures, calculateBackoff(failures, interval), err)
				continue
			}
			failures = 0
		}
	}()
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff. A base above the cap is never shortened.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	limit := maxBackoff
	if base > limit {
		limit = base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= limit {
			return limit
		}
	}
	return wait
}
