package ui

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/five82/atelier/internal/masterpieces"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 3, "abc"},
		{"画集画集画集", 5, "画集..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 0, 0},
		{-1, 3, 0},
		{5, 3, 2},
		{1, 3, 1},
	}
	for _, tt := range tests {
		if got := clampIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("clampIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(nil); got != "price pending" {
		t.Fatalf("formatPrice(nil) = %q", got)
	}
	price := decimal.RequireFromString("12.5")
	if got := formatPrice(&price); got != "¥12.50" {
		t.Fatalf("formatPrice(12.5) = %q, want ¥12.50", got)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("ink and wash on silk paper", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "ink and wash on silk paper" {
		t.Fatalf("wrap lost words: %q", got)
	}
}

func TestNextCategory_CyclesThroughAll(t *testing.T) {
	seen := 0
	c := masterpieces.Category("")
	for {
		c = nextCategory(c)
		if c == "" {
			break
		}
		seen++
		if seen > 20 {
			t.Fatalf("nextCategory never returned to all")
		}
	}
	if seen != len(masterpieces.Categories()) {
		t.Fatalf("cycled through %d categories, want %d", seen, len(masterpieces.Categories()))
	}
}

func TestFormatOverview(t *testing.T) {
	got := formatOverview(masterpieces.Overview{
		Total: 5,
		Categories: map[masterpieces.Category]int{
			masterpieces.CategoryGallery: 3,
			masterpieces.CategoryBadge:   2,
		},
	})
	if got != "5 collections · gallery 3 · badge 2" {
		t.Fatalf("formatOverview = %q", got)
	}
}
