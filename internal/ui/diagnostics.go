package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atelier/internal/diag"
)

// diagState holds the diagnostics log view.
type diagState struct {
	viewport viewport.Model
	entries  []diag.Entry
	minLevel diag.Level
	err      string
	dirty    bool
	loaded   bool
}

func newDiagState() diagState {
	return diagState{viewport: viewport.New(80, 20)}
}

type diagMsg struct {
	lines []string
	err   error
}

func (m Model) logPath() string {
	if m.config == nil {
		return ""
	}
	return m.config.LogFile
}

func (m Model) loadDiagnostics() tea.Cmd {
	path := m.logPath()
	return func() tea.Msg {
		if path == "" {
			return diagMsg{}
		}
		lines, err := diag.Read(path, DiagLineLimit)
		return diagMsg{lines: lines, err: err}
	}
}

func (m *Model) handleDiagnostics(msg diagMsg) {
	m.diag.loaded = true
	if msg.err != nil {
		m.diag.err = msg.err.Error()
		return
	}
	m.diag.err = ""
	entries := diag.ParseAll(msg.lines)
	if len(entries) != len(m.diag.entries) {
		m.diag.dirty = true
	}
	m.diag.entries = entries
	m.refreshDiagViewport()
}

// refreshDiagViewport re-renders the filtered entries, following the tail
// when the view was already at the bottom.
func (m *Model) refreshDiagViewport() {
	if !m.diag.dirty {
		return
	}
	m.diag.dirty = false
	follow := m.diag.viewport.AtBottom()

	styles := m.theme.Styles()
	filtered := diag.Filter(m.diag.entries, m.diag.minLevel)
	lines := make([]string, 0, len(filtered))
	for _, e := range filtered {
		lines = append(lines, m.formatEntry(e, styles))
	}
	m.diag.viewport.SetContent(strings.Join(lines, "\n"))
	if follow {
		m.diag.viewport.GotoBottom()
	}
}

func (m Model) formatEntry(e diag.Entry, styles Styles) string {
	levelStyle := styles.MutedText
	switch e.Level {
	case diag.LevelWarn:
		levelStyle = styles.WarningText
	case diag.LevelError:
		levelStyle = styles.DangerText
	}
	stamp := "--:--:--"
	if !e.Time.IsZero() {
		stamp = e.Time.Format("15:04:05")
	}
	var b strings.Builder
	b.WriteString(styles.FaintText.Render(stamp))
	b.WriteString(" ")
	b.WriteString(levelStyle.Render(padRight(e.Level.String(), 5)))
	b.WriteString(" ")
	if e.Component != "" {
		b.WriteString(styles.AccentText.Render(e.Component))
		b.WriteString(" ")
	}
	b.WriteString(styles.Text.Render(truncate(e.Message, maxInt(m.diag.viewport.Width-24, 20))))
	return b.String()
}

// handleDiagnosticsKey processes keys in the diagnostics view.
func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleLevel):
		m.diag.minLevel = (m.diag.minLevel + 1) % (diag.LevelError + 1)
		m.diag.dirty = true
		m.refreshDiagViewport()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadDiagnostics()
	case key.Matches(msg, m.keys.Top):
		m.diag.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.diag.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.diag.viewport, cmd = m.diag.viewport.Update(msg)
	return m, cmd
}

// renderDiagnostics renders the log tail.
func (m Model) renderDiagnostics() string {
	height := m.contentHeight()
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)

	counts := diag.Count(m.diag.entries)
	title := fmt.Sprintf("Log · %s+ · %d warn · %d error",
		m.diag.minLevel, counts[diag.LevelWarn], counts[diag.LevelError])

	var body string
	switch {
	case m.logPath() == "":
		body = styles.MutedText.Render("No log file configured")
	case m.diag.err != "":
		body = styles.DangerText.Render(m.diag.err)
	case !m.diag.loaded:
		body = styles.MutedText.Render("Loading log...")
	case len(m.diag.entries) == 0:
		body = styles.MutedText.Render("Log is empty: " + truncate(m.logPath(), m.width-20))
	default:
		body = m.diag.viewport.View()
	}
	return m.renderTitledBox(title, body, m.width, height, true)
}
