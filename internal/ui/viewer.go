package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atelier/internal/catalog"
	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
)

// maxPageDots is the largest page count drawn as a dot strip.
const maxPageDots = 40

// handleViewerKey processes keys while a collection is open.
func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.browser.Back()
		m.currentView = ViewGallery
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		_ = m.browser.Next()
		m.sync()
		m.refreshDescription()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		_ = m.browser.Prev()
		m.sync()
		m.refreshDescription()
		return m, nil

	case key.Matches(msg, m.keys.GoToPage):
		m.goingTo = true
		m.gotoInput.SetValue("")
		return m, m.gotoInput.Focus()

	case key.Matches(msg, m.keys.AddToCart):
		return m, m.addCurrentToCart()
	}

	var cmd tea.Cmd
	m.descViewport, cmd = m.descViewport.Update(msg)
	return m, cmd
}

// handleGoToInput reads a 1-based page number.
func (m Model) handleGoToInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.goingTo = false
		m.gotoInput.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.gotoInput.Value()))
		if err != nil {
			m.toasts.Post(notify.LevelError, "Invalid page index")
			return m, nil
		}
		_ = m.browser.GoTo(n - 1)
		m.sync()
		m.refreshDescription()
		return m, nil
	case tea.KeyEsc:
		m.goingTo = false
		m.gotoInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) addCurrentToCart() tea.Cmd {
	viewing, ok := m.catalog.Position.(catalog.Viewing)
	if !ok {
		return nil
	}
	if m.cart == nil || m.cart.UserID() <= 0 {
		m.toasts.Post(notify.LevelError, errNoCart.Error())
		return nil
	}
	state, collection := m.cart, viewing.Collection()
	return runOp(m.ctx, func(ctx context.Context) error {
		return state.Add(ctx, collection.ID, 1, collection.Snapshot())
	})
}

// refreshDescription loads the current page description into the viewport.
func (m *Model) refreshDescription() {
	viewing, ok := m.catalog.Position.(catalog.Viewing)
	if !ok {
		m.descViewport.SetContent("")
		return
	}
	page, ok := viewing.Artwork()
	desc := ""
	if ok {
		desc = page.PlainDescription()
	}
	if desc == "" {
		desc = viewing.Collection().PlainDescription()
	}
	m.descViewport.SetContent(wrap(desc, m.descViewport.Width))
	m.descViewport.GotoTop()
}

// renderViewer renders the open collection and its current page.
func (m Model) renderViewer() string {
	height := m.contentHeight()
	viewing, ok := m.catalog.Position.(catalog.Viewing)
	if !ok {
		return m.renderTitledBox("Viewer", "", m.width, height, true)
	}
	collection := viewing.Collection()
	title := truncate(collection.Title, m.width/2)
	if viewing.PageCount() > 0 {
		title = fmt.Sprintf("%s · page %d of %d", title, viewing.PageIndex()+1, viewing.PageCount())
	}
	return m.renderTitledBox(title, m.renderPage(viewing, m.width-4), m.width, height, true)
}

func (m Model) renderPage(viewing catalog.Viewing, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	collection := viewing.Collection()

	page, ok := viewing.Artwork()
	if !ok {
		return strings.Join([]string{
			styles.MutedText.Render("This collection has no pages"),
			"",
			m.renderPurchaseLine(collection),
		}, "\n")
	}

	heading := styles.Text.Bold(true).Render(truncate(page.Title, width))
	if page.Number != "" {
		heading += styles.MutedText.Render("  No. " + page.Number)
	}

	meta := []string{styles.CategoryBadge(collection.Category).Render(collection.Category.Label())}
	if page.CreatedTime != "" {
		meta = append(meta, styles.MutedText.Render(page.CreatedTime))
	}
	if page.Theme != "" {
		meta = append(meta, styles.InfoText.Render(page.Theme))
	}

	image := styles.DangerText.Render("No image for this page")
	if page.Viewable() {
		if ref, err := page.ImageURL(collection.ID); err == nil {
			image = styles.AccentText.Render(truncate(m.client.ResolveImage(ref), width))
		}
	}

	lines := []string{
		heading,
		strings.Join(meta, "  "),
		"",
		styles.MutedText.Render("Image ") + image,
		m.renderPageStrip(viewing),
		"",
		m.descViewport.View(),
		"",
		m.renderPurchaseLine(collection),
	}
	if m.goingTo {
		lines = append(lines, styles.AccentText.Render("Go to page ")+m.gotoInput.View())
	}
	return strings.Join(lines, "\n")
}

// renderPageStrip draws one dot per page, or a counter for long collections.
func (m Model) renderPageStrip(viewing catalog.Viewing) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	count := viewing.PageCount()
	prev := ternary(viewing.CanPrev(), "‹ ", "  ")
	next := ternary(viewing.CanNext(), " ›", "  ")
	if count > maxPageDots {
		return styles.MutedText.Render(fmt.Sprintf("%s%d / %d%s", prev, viewing.PageIndex()+1, count, next))
	}
	var b strings.Builder
	for i := 0; i < count; i++ {
		if i == viewing.PageIndex() {
			b.WriteString(styles.AccentText.Render("●"))
		} else {
			b.WriteString(styles.FaintText.Render("○"))
		}
	}
	return styles.MutedText.Render(prev) + b.String() + styles.MutedText.Render(next)
}

func (m Model) renderPurchaseLine(collection masterpieces.ArtCollection) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	kind := ternary(collection.Category.IsProduct(), "Merch", "Print")
	line := styles.MutedText.Render(kind+" · Price ") + styles.Text.Render(formatPrice(collection.Price))
	if item, ok := m.cartSnap.Cart.Find(collection.ID); ok {
		line += styles.MutedText.Render("  In cart ") + styles.SuccessText.Render(strconv.Itoa(item.Quantity))
	}
	return line
}
