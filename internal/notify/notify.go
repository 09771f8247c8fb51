package notify

import (
	"sync"
	"time"
)

// Level classifies a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

const (
	defaultInfoDuration    = 1500 * time.Millisecond
	defaultSuccessDuration = 2 * time.Second
	defaultErrorDuration   = 2 * time.Second
	historyLimit           = 50
)

// Toast is a transient user-facing status message.
type Toast struct {
	Seq      uint64
	Level    Level
	Message  string
	Posted   time.Time
	Duration time.Duration
}

// Expired reports whether the toast should no longer be shown at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Posted.Add(t.Duration))
}

// Sink receives toasts. Center implements it; components accept the
// interface so tests can record what was posted.
type Sink interface {
	Post(level Level, message string)
	PostFor(level Level, message string, d time.Duration)
}

// Ensure Center implements Sink at compile time.
var _ Sink = (*Center)(nil)

// Snapshot is a copy of the center's state for rendering.
type Snapshot struct {
	Current Toast
	Active  bool
	History []Toast
}

// Center holds the latest toast and a short history.
type Center struct {
	mu      sync.RWMutex
	now     func() time.Time
	seq     uint64
	current Toast
	history []Toast
}

// NewCenter returns an empty Center using the wall clock.
func NewCenter() *Center {
	return &Center{now: time.Now}
}

// Post records a toast with the default duration for its level.
func (c *Center) Post(level Level, message string) {
	c.PostFor(level, message, defaultDuration(level))
}

// PostFor records a toast shown for d. Blank messages are ignored.
func (c *Center) PostFor(level Level, message string, d time.Duration) {
	if c == nil || message == "" {
		return
	}
	if d <= 0 {
		d = defaultDuration(level)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.current = Toast{
		Seq:      c.seq,
		Level:    level,
		Message:  message,
		Posted:   c.clock(),
		Duration: d,
	}
	c.history = append(c.history, c.current)
	if len(c.history) > historyLimit {
		c.history = append([]Toast(nil), c.history[len(c.history)-historyLimit:]...)
	}
}

// Snapshot returns the current toast, whether it is still active, and a copy
// of the history.
func (c *Center) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{Current: c.current}
	snap.Active = c.current.Seq > 0 && !c.current.Expired(c.clock())
	if len(c.history) > 0 {
		snap.History = make([]Toast, len(c.history))
		copy(snap.History, c.history)
	}
	return snap
}

func (c *Center) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func defaultDuration(level Level) time.Duration {
	switch level {
	case LevelSuccess:
		return defaultSuccessDuration
	case LevelError:
		return defaultErrorDuration
	default:
		return defaultInfoDuration
	}
}

// Discard is a Sink that drops every toast.
var Discard Sink = discard{}

type discard struct{}

func (discard) Post(Level, string)                   {}
func (discard) PostFor(Level, string, time.Duration) {}
