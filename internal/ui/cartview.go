package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atelier/internal/cart"
	"github.com/five82/atelier/internal/notify"
)

// handleCartKey processes keys in the cart view.
func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.page == nil || m.page.UserID() <= 0 {
		if key.Matches(msg, m.keys.Increase, m.keys.Decrease, m.keys.Remove, m.keys.Clear, m.keys.Checkout) {
			m.toasts.Post(notify.LevelError, errNoCart.Error())
		}
		return m, nil
	}

	items := m.pageSnap.Cart.Items
	page := m.page

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cartRow = clampIndex(m.cartRow-1, len(items))
	case key.Matches(msg, m.keys.Down):
		m.cartRow = clampIndex(m.cartRow+1, len(items))
	case key.Matches(msg, m.keys.Top):
		m.cartRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cartRow = clampIndex(len(items)-1, len(items))

	case key.Matches(msg, m.keys.Refresh):
		return m, runOp(m.ctx, page.Refresh)

	case key.Matches(msg, m.keys.Escape):
		page.ClearError()

	case key.Matches(msg, m.keys.Increase):
		if len(items) == 0 {
			return m, nil
		}
		item := items[m.cartRow]
		return m, runOp(m.ctx, func(ctx context.Context) error {
			return page.SetQuantity(ctx, item.CollectionID, item.Quantity+1)
		})

	case key.Matches(msg, m.keys.Decrease):
		if len(items) == 0 {
			return m, nil
		}
		item := items[m.cartRow]
		return m, runOp(m.ctx, func(ctx context.Context) error {
			return page.SetQuantity(ctx, item.CollectionID, item.Quantity-1)
		})

	case key.Matches(msg, m.keys.Remove):
		if len(items) == 0 {
			return m, nil
		}
		item := items[m.cartRow]
		return m, runOp(m.ctx, func(ctx context.Context) error {
			return page.Remove(ctx, item.CollectionID)
		})

	case key.Matches(msg, m.keys.Clear):
		if len(items) == 0 {
			return m, nil
		}
		ctx := m.ctx
		m.modal = newConfirmModal("Remove every item from the cart?", func(yes bool) tea.Cmd {
			return runOp(ctx, func(ctx context.Context) error {
				return page.Clear(ctx, answer(yes))
			})
		})

	case key.Matches(msg, m.keys.Checkout):
		if len(items) == 0 {
			m.toasts.Post(notify.LevelInfo, "Cart is empty")
			return m, nil
		}
		m.modal = newCheckoutModal(m.pageSnap.Cart, m.submitBooking(page))
	}
	return m, nil
}

func (m Model) submitBooking(page *cart.State) func(qq, phone, notes string) tea.Cmd {
	ctx := m.ctx
	return func(qq, phone, notes string) tea.Cmd {
		return func() tea.Msg {
			result, err := page.BatchBooking(ctx, page.BookingFromCart(qq, phone, notes))
			return bookingMsg{result: result, err: err}
		}
	}
}

// renderCart renders the cart table and totals.
func (m Model) renderCart() string {
	height := m.contentHeight()
	snap := m.pageSnap
	title := "Cart"
	if snap.UserID > 0 {
		title = fmt.Sprintf("Cart · user %d", snap.UserID)
	}
	return m.renderTitledBox(title, m.renderCartBody(m.width-4, height-2), m.width, height, true)
}

func (m Model) renderCartBody(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	snap := m.pageSnap

	if m.page == nil || snap.UserID <= 0 {
		return styles.MutedText.Render(errNoCart.Error())
	}

	var lines []string
	if snap.Error != "" {
		lines = append(lines, styles.DangerText.Render(snap.Error), "")
	}
	if len(snap.Cart.Items) == 0 {
		if snap.Loading {
			return strings.Join(append(lines, styles.MutedText.Render("Loading cart...")), "\n")
		}
		return strings.Join(append(lines, styles.MutedText.Render("Cart is empty")), "\n")
	}

	const qtyWidth, priceWidth = 6, 12
	titleWidth := maxInt(width-qtyWidth-2*priceWidth-16, 10)
	header := fmt.Sprintf("%-13s %s %*s %*s %*s",
		"Category", padRight("Title", titleWidth), qtyWidth, "Qty", priceWidth, "Unit", priceWidth, "Subtotal")
	lines = append(lines, styles.MutedText.Bold(true).Render(header))

	rows := maxInt(height-len(lines)-3, 1)
	start := 0
	if m.cartRow >= rows {
		start = m.cartRow - rows + 1
	}
	end := minInt(len(snap.Cart.Items), start+rows)

	for i := start; i < end; i++ {
		item := snap.Cart.Items[i]
		badge := styles.CategoryBadge(item.Collection.Category).Render(padRight(item.Collection.Category.Label(), 13))
		row := fmt.Sprintf(" %s %*d %*s %*s",
			padRight(truncate(item.Collection.Title, titleWidth), titleWidth),
			qtyWidth, item.Quantity,
			priceWidth, formatPrice(item.Collection.Price),
			priceWidth, formatAmount(item.Subtotal()))
		if i == m.cartRow {
			lines = append(lines, badge+styles.Selected.Render(row))
		} else {
			lines = append(lines, badge+styles.Text.Render(row))
		}
	}

	totals := styles.MutedText.Render("Items ") + styles.Text.Render(fmt.Sprintf("%d", snap.Cart.TotalQuantity)) +
		styles.MutedText.Render("   Total ") + styles.SuccessText.Render(formatAmount(snap.Cart.TotalPrice))
	lines = append(lines, "", lipgloss.PlaceHorizontal(width, lipgloss.Right, totals))
	return strings.Join(lines, "\n")
}
