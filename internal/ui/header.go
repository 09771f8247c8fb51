package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atelier/internal/notify"
)

// renderHeader renders the top bar: site, view tabs, cart summary.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("atelier", styles.Logo),
		bg.Render(truncate(m.site.SiteName, 24), styles.Text),
	}

	tabs := []struct {
		label string
		views []View
	}{
		{"1 Gallery", []View{ViewGallery, ViewViewer}},
		{"2 Cart", []View{ViewCart}},
		{"3 Log", []View{ViewDiagnostics}},
	}
	for _, tab := range tabs {
		style := styles.MutedText
		for _, v := range tab.views {
			if v == m.currentView {
				style = styles.AccentText.Bold(true)
			}
		}
		parts = append(parts, bg.Render(tab.label, style))
	}

	parts = append(parts, m.cartBadge(styles, bg))

	if m.catalog.Loading || m.cartSnap.Loading || m.pageSnap.Loading {
		parts = append(parts, bg.Render("● syncing", styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

func (m Model) cartBadge(styles Styles, bg BgStyle) string {
	if m.cart == nil || m.cartSnap.UserID <= 0 {
		return bg.Render("Cart: no user", styles.FaintText)
	}
	c := m.cartSnap.Cart
	return bg.Render("Cart:", styles.MutedText) + bg.Space() +
		bg.Render(fmt.Sprintf("%d", c.TotalQuantity), styles.Text) + bg.Space() +
		bg.Render(formatAmount(c.TotalPrice), styles.SuccessText)
}

// renderCommandBar renders key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewViewer:
		commands = []cmd{
			{"n/p", "Page"},
			{":", "Go to"},
			{"a", "Add to cart"},
			{"j/k", "Scroll"},
			{"esc", "Back"},
		}
	case ViewCart:
		commands = []cmd{
			{"+/-", "Quantity"},
			{"x", "Remove"},
			{"C", "Clear"},
			{"b", "Book"},
			{"r", "Refresh"},
		}
	case ViewDiagnostics:
		commands = []cmd{
			{"L", m.diag.minLevel.String() + "+"},
			{"r", "Reload"},
			{"g/G", "Top/Bottom"},
		}
	default:
		commands = []cmd{
			{"enter", "Open"},
			{"/", "Search"},
			{"f", "Filter " + categoryName(m.category)},
			{"F", "Fetch"},
			{"o", "Overview"},
			{"r", "Refresh"},
		}
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderStatusBar shows the active toast, or the latest component error.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.toast.Active:
		content = m.renderToast(m.toast.Current, styles, bg)
	case m.catalog.Error != "" && m.currentView != ViewCart:
		content = bg.Render(m.catalog.Error, styles.DangerText)
	case m.cartSnap.Error != "":
		content = bg.Render(m.cartSnap.Error, styles.DangerText)
	default:
		content = bg.Render(m.apiLabel(), styles.FaintText)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Width(m.width).
		Padding(0, 1).
		Render(content)
}

func (m Model) renderToast(t notify.Toast, styles Styles, bg BgStyle) string {
	style := styles.InfoText
	icon := "i"
	switch t.Level {
	case notify.LevelSuccess:
		style, icon = styles.SuccessText, "✓"
	case notify.LevelError:
		style, icon = styles.DangerText, "✗"
	}
	return bg.Render(icon, style) + bg.Space() + bg.Render(truncate(t.Message, maxInt(m.width-6, 10)), style)
}

func (m Model) apiLabel() string {
	base := strings.TrimSpace(m.client.BaseURL())
	if base == "" {
		return "offline"
	}
	return "api " + base
}
