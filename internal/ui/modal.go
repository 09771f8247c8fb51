package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atelier/internal/cart"
	"github.com/five82/atelier/internal/masterpieces"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should
// close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// answer turns a modal decision into a cart.Confirmer.
func answer(yes bool) cart.Confirmer {
	return cart.ConfirmFunc(func(context.Context, string) (bool, error) {
		return yes, nil
	})
}

// confirmModal asks a yes/no question. The answer is handed to onAnswer in
// both cases so the caller decides what "no" means.
type confirmModal struct {
	prompt   string
	onAnswer func(yes bool) tea.Cmd
}

func newConfirmModal(prompt string, onAnswer func(bool) tea.Cmd) *confirmModal {
	return &confirmModal{prompt: prompt, onAnswer: onAnswer}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes), key.Matches(keyMsg, keys.Confirm):
		return c, c.onAnswer(true), true
	case key.Matches(keyMsg, keys.No):
		return c, c.onAnswer(false), true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(" yes   "))
	b.WriteString(styles.AccentText.Render("n") + styles.MutedText.Render(" no"))
	return placeModal(theme, width, height, 44, b.String())
}

// checkoutModal collects contact details and books the cart.
type checkoutModal struct {
	inputs     []textinput.Model
	focus      int
	submitting bool
	err        string
	items      int
	total      string
	submit     func(qq, phone, notes string) tea.Cmd
}

const (
	fieldQQ = iota
	fieldPhone
	fieldNotes
)

func newCheckoutModal(snap masterpieces.Cart, submit func(qq, phone, notes string) tea.Cmd) *checkoutModal {
	qq := textinput.New()
	qq.Placeholder = "QQ number (required)"
	qq.CharLimit = 20

	phone := textinput.New()
	phone.Placeholder = "Phone (optional)"
	phone.CharLimit = 20

	notes := textinput.New()
	notes.Placeholder = "Notes (optional)"
	notes.CharLimit = 200

	c := &checkoutModal{
		inputs: []textinput.Model{qq, phone, notes},
		items:  snap.TotalQuantity,
		total:  formatAmount(snap.TotalPrice),
		submit: submit,
	}
	c.inputs[fieldQQ].Focus()
	return c
}

func (c *checkoutModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case bookingMsg:
		c.submitting = false
		if msg.err != nil {
			c.err = masterpieces.UserMessage(msg.err, "Booking failed")
			return c, nil, false
		}
		return c, nil, true

	case tea.KeyMsg:
		if c.submitting {
			return c, nil, false
		}
		switch {
		case key.Matches(msg, keys.Escape):
			return c, nil, true
		case key.Matches(msg, keys.Tab), msg.String() == "down":
			c.setFocus(c.focus + 1)
			return c, nil, false
		case key.Matches(msg, keys.ShiftTab), msg.String() == "up":
			c.setFocus(c.focus - 1)
			return c, nil, false
		case key.Matches(msg, keys.Confirm):
			c.err = ""
			c.submitting = true
			return c, c.submit(
				c.inputs[fieldQQ].Value(),
				c.inputs[fieldPhone].Value(),
				c.inputs[fieldNotes].Value(),
			), false
		}
		var cmd tea.Cmd
		c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
		return c, cmd, false
	}
	return c, nil, false
}

func (c *checkoutModal) setFocus(i int) {
	n := len(c.inputs)
	c.focus = (i%n + n) % n
	for idx := range c.inputs {
		if idx == c.focus {
			c.inputs[idx].Focus()
		} else {
			c.inputs[idx].Blur()
		}
	}
}

func (c *checkoutModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labels := []string{"QQ", "Phone", "Notes"}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Book items"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render(strings.Join([]string{
		itemsLabel(c.items), c.total,
	}, " · ")))
	b.WriteString("\n\n")
	for i, input := range c.inputs {
		label := styles.MutedText.Render(padRight(labels[i], 7))
		if i == c.focus {
			label = styles.AccentText.Render(padRight(labels[i], 7))
		}
		b.WriteString(label + input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case c.submitting:
		b.WriteString(styles.WarningText.Render("Booking..."))
	case c.err != "":
		b.WriteString(styles.DangerText.Render(c.err))
	default:
		b.WriteString(styles.FaintText.Render("enter submit · tab next field · esc cancel"))
	}
	return placeModal(theme, width, height, 56, b.String())
}

func itemsLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// renderModal renders the active modal over the screen.
func (m Model) renderModal() string {
	return m.modal.View(m.theme, m.width, m.height)
}

func placeModal(theme Theme, width, height, boxWidth int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth).
		Render(content)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
