package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second},
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_LongBaseKept(t *testing.T) {
	if got := calculateBackoff(3, time.Minute); got != time.Minute {
		t.Fatalf("calculateBackoff(3, 1m) = %v, want 1m", got)
	}
}

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestStartPoller_RefreshesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	target := &countingRefresher{}

	StartPoller(ctx, target, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for target.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 2", target.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	settled := target.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := target.calls.Load(); got != settled {
		t.Fatalf("poller kept running after cancel: %d -> %d calls", settled, got)
	}
}

func TestStartPoller_KeepsGoingAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	target := &countingRefresher{err: errors.New("gateway down")}

	StartPoller(ctx, target, time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for target.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls after failures, want at least 3", target.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}
}
