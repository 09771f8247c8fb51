package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/atelier/internal/cart"
	"github.com/five82/atelier/internal/catalog"
	"github.com/five82/atelier/internal/config"
	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
	"github.com/five82/atelier/internal/prefs"
)

// View represents the current active view.
type View int

const (
	ViewGallery View = iota
	ViewViewer
	ViewCart
	ViewDiagnostics
)

// Options configures the UI.
type Options struct {
	Context context.Context
	// Client resolves relative image paths; it may be nil.
	Client *masterpieces.Client
	// CartGateway backs the cart view's own cart state.
	CartGateway masterpieces.CartGateway
	Browser     *catalog.Browser
	Cart        *cart.State
	Bus         *cart.Bus
	Toasts      *notify.Center
	Site        masterpieces.SiteConfig
	Config      *config.Config
	ThemeName   string
	Category    masterpieces.Category
	PrefsPath   string
	Tick        time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *masterpieces.Client
	browser   *catalog.Browser
	cart      *cart.State // header badge and add-to-cart
	page      *cart.State // cart view, kept in step through the bus
	toasts    *notify.Center
	site      masterpieces.SiteConfig
	config    *config.Config
	prefsPath string
	tick      time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	catalog  catalog.Snapshot
	visible  []masterpieces.ArtCollection
	cartSnap cart.Snapshot
	pageSnap cart.Snapshot
	toast    notify.Snapshot

	// Gallery state
	category    masterpieces.Category
	galleryRow  int
	searching   bool
	searchInput textinput.Model

	// Viewer state
	goingTo      bool
	gotoInput    textinput.Model
	descViewport viewport.Model

	// Cart state
	cartRow int

	// Diagnostics state
	diag diagState

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	toasts := opts.Toasts
	if toasts == nil {
		toasts = notify.NewCenter()
	}

	var page *cart.State
	if opts.Cart != nil && opts.CartGateway != nil {
		page = cart.New(opts.Cart.UserID(), opts.CartGateway, opts.Bus, toasts)
	}

	search := textinput.New()
	search.Placeholder = "Search titles..."
	search.CharLimit = 64

	gotoInput := textinput.New()
	gotoInput.Placeholder = "page"
	gotoInput.CharLimit = 5

	m := Model{
		ctx:          ctx,
		client:       opts.Client,
		browser:      opts.Browser,
		cart:         opts.Cart,
		page:         page,
		toasts:       toasts,
		site:         opts.Site,
		config:       opts.Config,
		prefsPath:    prefsPath,
		tick:         tick,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		currentView:  ViewGallery,
		category:     opts.Category,
		searchInput:  search,
		gotoInput:    gotoInput,
		descViewport: viewport.New(80, 10),
		diag:         newDiagState(),
	}
	if m.site.SiteName == "" {
		m.site = masterpieces.DefaultSiteConfig()
	}
	m.sync()
	return m
}

// Close releases the cart view's bus subscription.
func (m Model) Close() {
	if m.page != nil {
		m.page.Close()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.page != nil {
		cmds = append(cmds, runOp(m.ctx, m.page.Refresh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		var model tea.Model
		model, cmd = m.handleKey(msg)
		m = model.(Model)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.currentView == ViewDiagnostics {
			cmds = append(cmds, m.loadDiagnostics())
		}
		cmd = tea.Batch(cmds...)

	case opDoneMsg:
		// Components already recorded the outcome; the snapshot sync below
		// picks it up.

	case bookingMsg:
		if m.modal != nil {
			var closed bool
			m.modal, cmd, closed = m.modal.Update(msg, m.keys)
			if closed {
				m.modal = nil
			}
		}

	case overviewMsg:
		if msg.err == nil {
			m.toasts.PostFor(notify.LevelInfo, formatOverview(msg.overview), 4*time.Second)
		} else {
			m.toasts.Post(notify.LevelError, masterpieces.UserMessage(msg.err, "Overview unavailable"))
		}

	case diagMsg:
		m.handleDiagnostics(msg)

	default:
		// Cursor blinks and other input internals.
		switch {
		case m.modal != nil:
			m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		case m.searching:
			m.searchInput, cmd = m.searchInput.Update(msg)
		case m.goingTo:
			m.gotoInput, cmd = m.gotoInput.Update(msg)
		}
	}

	m.sync()
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.renderModal()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var (
			cmd    tea.Cmd
			closed bool
		)
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchInput(msg)
	}
	if m.goingTo {
		return m.handleGoToInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.nextView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.nextView(-1))

	case key.Matches(msg, m.keys.ViewGallery):
		return m.switchView(ViewGallery)

	case key.Matches(msg, m.keys.ViewCart):
		return m.switchView(ViewCart)

	case key.Matches(msg, m.keys.ViewDiagnostics):
		return m.switchView(ViewDiagnostics)
	}

	switch m.currentView {
	case ViewGallery:
		return m.handleGalleryKey(msg)
	case ViewViewer:
		return m.handleViewerKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewDiagnostics:
		return m.handleDiagnosticsKey(msg)
	}
	return m, nil
}

// nextView cycles Gallery → Cart → Diagnostics. The viewer counts as the
// gallery.
func (m Model) nextView(step int) View {
	order := []View{ViewGallery, ViewCart, ViewDiagnostics}
	current := 0
	for i, v := range order {
		if v == m.currentView || (m.currentView == ViewViewer && v == ViewGallery) {
			current = i
		}
	}
	return order[(current+step+len(order))%len(order)]
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == ViewGallery {
		if _, viewing := m.catalog.Position.(catalog.Viewing); viewing {
			v = ViewViewer
		}
	}
	m.currentView = v
	switch v {
	case ViewDiagnostics:
		return m, m.loadDiagnostics()
	case ViewCart:
		if m.page != nil {
			return m, runOp(m.ctx, m.page.Refresh)
		}
	}
	return m, nil
}

// sync copies the latest component state into the model.
func (m *Model) sync() {
	if m.browser != nil {
		m.catalog = m.browser.Snapshot()
		m.visible = m.browser.FilterCategory(m.category)
	}
	if m.cart != nil {
		m.cartSnap = m.cart.Snapshot()
	}
	if m.page != nil {
		m.pageSnap = m.page.Snapshot()
	}
	m.toast = m.toasts.Snapshot()

	m.galleryRow = clampIndex(m.galleryRow, len(m.visible))
	m.cartRow = clampIndex(m.cartRow, len(m.pageSnap.Cart.Items))

	if m.currentView == ViewViewer {
		if _, ok := m.catalog.Position.(catalog.Viewing); !ok {
			m.currentView = ViewGallery
		}
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name}
	if m.category != "" {
		p.Category = m.category.Label()
	}
	_ = prefs.Save(m.prefsPath, p)
}

func (m *Model) resizeViewports() {
	m.descViewport.Width = maxInt(m.width-4, 10)
	m.descViewport.Height = maxInt(m.height-12, 3)
	m.diag.viewport.Width = maxInt(m.width-4, 10)
	m.diag.viewport.Height = maxInt(m.height-6, 3)
	m.diag.dirty = true
	m.refreshDiagViewport()
	m.refreshDescription()
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewGallery:
		return m.renderGallery()
	case ViewViewer:
		return m.renderViewer()
	case ViewCart:
		return m.renderCart()
	case ViewDiagnostics:
		return m.renderDiagnostics()
	default:
		return ""
	}
}

func (m Model) contentHeight() int {
	return maxInt(m.height-3, 3)
}

// Messages

type tickMsg time.Time

type opDoneMsg struct{ err error }

type bookingMsg struct {
	result masterpieces.BookingResult
	err    error
}

type overviewMsg struct {
	overview masterpieces.Overview
	err      error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runOp executes op off the UI goroutine. Components record their own
// errors and toasts, so the message only marks completion.
func runOp(ctx context.Context, op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

// errNoCart is shown when the cart has no user to belong to.
var errNoCart = errors.New("set user_id to use the cart")

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
