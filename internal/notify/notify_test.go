package notify

import (
	"testing"
	"time"
)

func TestCenter_PostAndExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &Center{now: func() time.Time { return now }}

	if snap := c.Snapshot(); snap.Active || len(snap.History) != 0 {
		t.Fatalf("empty center snapshot = %#v, want inactive", snap)
	}

	c.Post(LevelSuccess, "added to cart")
	snap := c.Snapshot()
	if !snap.Active || snap.Current.Message != "added to cart" || snap.Current.Level != LevelSuccess {
		t.Fatalf("snapshot = %#v, want active success toast", snap)
	}
	if snap.Current.Duration != defaultSuccessDuration {
		t.Fatalf("duration = %v, want %v", snap.Current.Duration, defaultSuccessDuration)
	}

	now = now.Add(defaultSuccessDuration)
	if c.Snapshot().Active {
		t.Fatalf("toast still active after its duration")
	}
}

func TestCenter_IgnoresBlankAndKeepsHistoryBounded(t *testing.T) {
	c := NewCenter()
	c.Post(LevelInfo, "")
	if len(c.Snapshot().History) != 0 {
		t.Fatalf("blank message recorded")
	}

	for i := 0; i < historyLimit+10; i++ {
		c.PostFor(LevelError, "boom", time.Second)
	}
	snap := c.Snapshot()
	if len(snap.History) != historyLimit {
		t.Fatalf("history = %d, want %d", len(snap.History), historyLimit)
	}
	if snap.Current.Seq != uint64(historyLimit+10) {
		t.Fatalf("seq = %d, want %d", snap.Current.Seq, historyLimit+10)
	}

	// Returned history is a copy.
	snap.History[0].Message = "mutated"
	if c.Snapshot().History[0].Message != "boom" {
		t.Fatalf("Snapshot should copy history")
	}
}

func TestCenter_NilIsSafe(t *testing.T) {
	var c *Center
	c.Post(LevelInfo, "x")
	if c.Snapshot().Active {
		t.Fatalf("nil center reported active toast")
	}
}

func TestLevelString(t *testing.T) {
	if LevelError.String() != "error" || LevelSuccess.String() != "success" || LevelInfo.String() != "info" {
		t.Fatalf("unexpected level strings")
	}
}
