package diag

import (
	"strings"
	"time"
)

// Level is the severity inferred for a log line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Prefix is written in front of every line atelier logs.
const Prefix = "atelier "

const stampLayout = "2006/01/02 15:04:05"

// Entry is one parsed log line.
type Entry struct {
	Raw       string
	Time      time.Time
	Component string
	Message   string
	Level     Level
}

// Parse splits a line written by the standard logger into its parts. Lines
// that do not match the layout keep their text in Message.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	rest := strings.TrimPrefix(line, Prefix)

	if len(rest) >= len(stampLayout) {
		if ts, err := time.ParseInLocation(stampLayout, rest[:len(stampLayout)], time.Local); err == nil {
			entry.Time = ts
			rest = strings.TrimSpace(rest[len(stampLayout):])
		}
	}

	if head, tail, ok := strings.Cut(rest, ": "); ok && isComponent(head) {
		entry.Component = head
		rest = tail
	}
	entry.Message = strings.TrimSpace(rest)
	entry.Level = levelOf(entry.Message)
	return entry
}

// ParseAll parses every line.
func ParseAll(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries
}

// Filter keeps entries at or above min.
func Filter(entries []Entry, min Level) []Entry {
	if min <= LevelInfo {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Level >= min {
			out = append(out, e)
		}
	}
	return out
}

// Count tallies entries per level.
func Count(entries []Entry) map[Level]int {
	counts := make(map[Level]int, 3)
	for _, e := range entries {
		counts[e.Level]++
	}
	return counts
}

func isComponent(s string) bool {
	if s == "" || len(s) > 24 {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

func levelOf(msg string) Level {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"), strings.Contains(lower, "panic"):
		return LevelError
	case strings.Contains(lower, "warn"), strings.Contains(lower, "retry"), strings.Contains(lower, "backoff"):
		return LevelWarn
	default:
		return LevelInfo
	}
}
