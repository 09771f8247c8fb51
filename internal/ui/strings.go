package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/five82/atelier/internal/masterpieces"
)

// truncate shortens a string to limit runes, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// clampIndex keeps a cursor inside [0, n).
func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// formatPrice renders a price or the pending marker.
func formatPrice(price *decimal.Decimal) string {
	if price == nil {
		return "price pending"
	}
	return formatAmount(*price)
}

func formatAmount(amount decimal.Decimal) string {
	return "¥" + amount.StringFixed(2)
}

func categoryName(c masterpieces.Category) string {
	if c == "" {
		return "all"
	}
	return c.Label()
}

func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// wrap breaks text into lines no wider than width, splitting on spaces.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(para) {
			w := lipgloss.Width(word)
			if lineWidth > 0 && lineWidth+1+w > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += w
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
