package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atelier/internal/catalog"
	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
)

// handleGalleryKey processes keys in the collection list.
func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.browser == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.galleryRow = clampIndex(m.galleryRow-1, len(m.visible))
	case key.Matches(msg, m.keys.Down):
		m.galleryRow = clampIndex(m.galleryRow+1, len(m.visible))
	case key.Matches(msg, m.keys.Top):
		m.galleryRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.galleryRow = clampIndex(len(m.visible)-1, len(m.visible))

	case key.Matches(msg, m.keys.Open):
		if len(m.visible) == 0 {
			return m, nil
		}
		m.browser.Select(m.visible[m.galleryRow])
		m.currentView = ViewViewer
		m.sync()
		m.refreshDescription()

	case key.Matches(msg, m.keys.Search):
		if !m.site.EnableSearch {
			m.toasts.Post(notify.LevelInfo, "Search is disabled")
			return m, nil
		}
		m.searching = true
		m.searchInput.SetValue(m.catalog.Source.Query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleCategory):
		if !m.site.EnableCategories {
			m.toasts.Post(notify.LevelInfo, "Categories are disabled")
			return m, nil
		}
		m.category = nextCategory(m.category)
		m.galleryRow = 0
		m.savePrefs()

	case key.Matches(msg, m.keys.FetchCategory):
		browser, category := m.browser, m.category
		if category == "" {
			return m, runOp(m.ctx, func(ctx context.Context) error { return browser.Load(ctx, true) })
		}
		return m, runOp(m.ctx, func(ctx context.Context) error { return browser.LoadCategory(ctx, category) })

	case key.Matches(msg, m.keys.Overview):
		return m, m.fetchOverview()

	case key.Matches(msg, m.keys.Refresh):
		browser := m.browser
		return m, runOp(m.ctx, func(ctx context.Context) error { return browser.Load(ctx, true) })

	case key.Matches(msg, m.keys.Escape):
		m.browser.ClearError()
		if m.catalog.Source != (catalog.Source{}) {
			browser := m.browser
			return m, runOp(m.ctx, func(ctx context.Context) error { return browser.Load(ctx, false) })
		}
	}
	return m, nil
}

// handleSearchInput feeds keys to the search box while it is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		m.galleryRow = 0
		browser, query := m.browser, m.searchInput.Value()
		return m, runOp(m.ctx, func(ctx context.Context) error { return browser.Search(ctx, query) })
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) fetchOverview() tea.Cmd {
	browser, ctx := m.browser, m.ctx
	return func() tea.Msg {
		overview, err := browser.Overview(ctx)
		return overviewMsg{overview: overview, err: err}
	}
}

// nextCategory cycles all → each known category → all.
func nextCategory(current masterpieces.Category) masterpieces.Category {
	cats := masterpieces.Categories()
	if current == "" {
		return cats[0]
	}
	for i, c := range cats {
		if c == current {
			if i+1 < len(cats) {
				return cats[i+1]
			}
			return ""
		}
	}
	return ""
}

func formatOverview(o masterpieces.Overview) string {
	parts := []string{fmt.Sprintf("%d collections", o.Total)}
	for _, c := range masterpieces.Categories() {
		if n := o.Categories[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c.Label(), n))
		}
	}
	return strings.Join(parts, " · ")
}

// renderGallery renders the collection list with an optional preview pane.
func (m Model) renderGallery() string {
	height := m.contentHeight()
	listWidth := m.width
	showPreview := m.width >= LayoutSplitWidth
	if showPreview {
		listWidth = m.width * 3 / 5
	}

	title := fmt.Sprintf("Collections · %s · filter %s", m.catalog.Source.Label(), categoryName(m.category))
	if m.category != "" && m.browser != nil {
		title += fmt.Sprintf(" (%d)", m.browser.CategoryCounts()[m.category])
	}
	if at := m.catalog.CachedAt; !at.IsZero() && m.catalog.Source == (catalog.Source{}) {
		title += " · fetched " + at.Format("15:04")
	}
	if m.searching {
		title = "Search"
	}
	list := m.renderTitledBox(title, m.renderCollectionList(listWidth-2, height-2), listWidth, height, true)
	if !showPreview {
		return list
	}
	preview := m.renderTitledBox("Details", m.renderCollectionPreview(m.width-listWidth-4), m.width-listWidth, height, false)
	return joinColumns(list, preview)
}

func (m Model) renderCollectionList(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	var lines []string

	if m.searching {
		lines = append(lines, m.searchInput.View(), "")
		height -= 2
	}

	switch {
	case m.catalog.Loading && len(m.visible) == 0:
		return strings.Join(append(lines, styles.MutedText.Render("Loading collections...")), "\n")
	case m.catalog.Error != "" && len(m.visible) == 0:
		lines = append(lines,
			styles.DangerText.Render(m.catalog.Error),
			styles.MutedText.Render("Press r to retry"))
		return strings.Join(lines, "\n")
	case len(m.visible) == 0:
		return strings.Join(append(lines, styles.MutedText.Render("No collections")), "\n")
	}

	start := 0
	if height > 0 && m.galleryRow >= height {
		start = m.galleryRow - height + 1
	}
	end := len(m.visible)
	if height > 0 && start+height < end {
		end = start + height
	}

	for i := start; i < end; i++ {
		c := m.visible[i]
		badge := styles.CategoryBadge(c.Category).Render(padRight(c.Category.Label(), 13))
		price := formatPrice(c.Price)
		pages := fmt.Sprintf("%d pages", len(c.Pages))
		titleWidth := maxInt(width-lipgloss.Width(badge)-len(price)-len(pages)-8, 8)
		row := fmt.Sprintf(" %s %s  %s", padRight(truncate(c.Title, titleWidth), titleWidth), pages, price)
		if i == m.galleryRow {
			lines = append(lines, badge+styles.Selected.Render(row))
			continue
		}
		lines = append(lines, badge+styles.Text.Render(row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderCollectionPreview(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	if len(m.visible) == 0 {
		return styles.MutedText.Render("Nothing selected")
	}
	c := m.visible[m.galleryRow]
	lines := []string{
		styles.Text.Bold(true).Render(truncate(c.Title, width)),
		styles.MutedText.Render("No. " + c.Number),
		styles.CategoryBadge(c.Category).Render(c.Category.Label()),
		"",
		styles.MutedText.Render("Price ") + styles.Text.Render(formatPrice(c.Price)),
		styles.MutedText.Render("Pages ") + styles.Text.Render(fmt.Sprintf("%d", len(c.Pages))),
	}
	if item, ok := m.cartSnap.Cart.Find(c.ID); ok {
		lines = append(lines, styles.MutedText.Render("In cart ")+styles.SuccessText.Render(fmt.Sprintf("%d", item.Quantity)))
	}
	if cover := m.client.ResolveImage(c.CoverImage); cover != "" {
		lines = append(lines, "", styles.MutedText.Render("Cover"), styles.FaintText.Render(truncate(cover, width)))
	}
	if desc := c.PlainDescription(); desc != "" {
		lines = append(lines, "", styles.Text.Render(wrap(desc, width)))
	}
	return strings.Join(lines, "\n")
}
