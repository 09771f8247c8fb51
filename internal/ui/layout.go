package ui

import "time"

// LayoutSplitWidth is the minimum width for the gallery preview pane.
const LayoutSplitWidth = 110

const (
	// DiagLineLimit caps how many log lines the diagnostics view reads.
	DiagLineLimit = 2000

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
