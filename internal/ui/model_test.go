package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/five82/atelier/internal/cart"
	"github.com/five82/atelier/internal/catalog"
	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
	"github.com/five82/atelier/internal/prefs"
)

type fakeCatalog struct {
	collections []masterpieces.ArtCollection
}

func (f *fakeCatalog) FetchCollections(context.Context) ([]masterpieces.ArtCollection, error) {
	return f.collections, nil
}

func (f *fakeCatalog) SearchCollections(_ context.Context, q string) ([]masterpieces.ArtCollection, error) {
	var out []masterpieces.ArtCollection
	for _, c := range f.collections {
		if strings.Contains(c.Title, q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FetchCollectionsByCategory(_ context.Context, cat masterpieces.Category) ([]masterpieces.ArtCollection, error) {
	var out []masterpieces.ArtCollection
	for _, c := range f.collections {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) FetchOverview(context.Context) (masterpieces.Overview, error) {
	return masterpieces.Overview{Total: len(f.collections)}, nil
}

type fakeCart struct {
	mu       sync.Mutex
	cart     masterpieces.Cart
	clears   int
	bookings int
}

func (f *fakeCart) snapshot() masterpieces.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := append([]masterpieces.CartItem(nil), f.cart.Items...)
	return masterpieces.Cart{Items: items, TotalQuantity: f.cart.TotalQuantity, TotalPrice: f.cart.TotalPrice}
}

func (f *fakeCart) FetchCart(context.Context, int64) (masterpieces.Cart, error) {
	return f.snapshot(), nil
}

func (f *fakeCart) AddToCart(_ context.Context, _ int64, req masterpieces.AddToCartRequest) (masterpieces.Cart, error) {
	f.mu.Lock()
	f.cart.Items = append(f.cart.Items, masterpieces.CartItem{CollectionID: req.CollectionID, Quantity: req.Quantity})
	f.cart.TotalQuantity += req.Quantity
	f.mu.Unlock()
	return f.snapshot(), nil
}

func (f *fakeCart) UpdateCartItem(_ context.Context, _ int64, req masterpieces.UpdateCartItemRequest) (masterpieces.Cart, error) {
	return f.snapshot(), nil
}

func (f *fakeCart) RemoveFromCart(context.Context, int64, masterpieces.RemoveFromCartRequest) (masterpieces.Cart, error) {
	return f.snapshot(), nil
}

func (f *fakeCart) ClearCart(context.Context, int64) (masterpieces.Cart, error) {
	f.mu.Lock()
	f.clears++
	f.cart = masterpieces.EmptyCart()
	f.mu.Unlock()
	return f.snapshot(), nil
}

func (f *fakeCart) BatchBooking(_ context.Context, _ int64, req masterpieces.BookingRequest) (masterpieces.BookingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings++
	return masterpieces.BookingResult{SuccessCount: len(req.Items)}, nil
}

func (f *fakeCart) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

type harness struct {
	model   Model
	cartAPI *fakeCart
	prefs   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	price := decimal.RequireFromString("12.50")
	gallery := &fakeCatalog{collections: []masterpieces.ArtCollection{
		{ID: 1, Title: "Mountains", Category: masterpieces.CategoryGallery, Pages: []masterpieces.ArtworkPage{{ID: 10}, {ID: 11}, {ID: 12}}},
		{ID: 5, Title: "Cat badge", Category: masterpieces.CategoryBadge, Price: &price},
	}}
	cartAPI := &fakeCart{cart: masterpieces.Cart{
		Items:         []masterpieces.CartItem{{CollectionID: 5, Quantity: 2}},
		TotalQuantity: 2,
		TotalPrice:    decimal.RequireFromString("25"),
	}}

	toasts := notify.NewCenter()
	browser := catalog.NewBrowser(gallery, catalog.NewCache(0), toasts)
	if err := browser.Load(context.Background(), false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	bus := cart.NewBus()
	state := cart.New(7, cartAPI, bus, toasts)
	t.Cleanup(state.Close)

	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Context:     context.Background(),
		CartGateway: cartAPI,
		Browser:     browser,
		Cart:        state,
		Bus:         bus,
		Toasts:      toasts,
		PrefsPath:   prefsPath,
	})
	t.Cleanup(m.Close)
	if err := m.page.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	h := &harness{model: m, cartAPI: cartAPI, prefs: prefsPath}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send delivers msg and returns the command the model produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(keys string) tea.Cmd {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

// runCmd executes cmd and feeds its message back, as the program would.
func (h *harness) runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	h.send(msg)
	return msg
}

func TestCartClear_DeclineSendsNoRequest(t *testing.T) {
	h := newHarness(t)
	h.press("2")
	if h.model.currentView != ViewCart {
		t.Fatalf("view = %v, want cart", h.model.currentView)
	}

	h.press("C")
	if h.model.modal == nil {
		t.Fatalf("clear should open a confirmation")
	}
	msg := h.runCmd(h.press("n"))
	if h.model.modal != nil {
		t.Fatalf("modal should close after answering")
	}
	done, ok := msg.(opDoneMsg)
	if !ok || !errors.Is(done.err, cart.ErrDeclined) {
		t.Fatalf("decline result = %#v, want ErrDeclined", msg)
	}
	if got := h.cartAPI.clearCount(); got != 0 {
		t.Fatalf("clear requests after decline = %d, want 0", got)
	}

	h.press("C")
	h.runCmd(h.press("y"))
	if got := h.cartAPI.clearCount(); got != 1 {
		t.Fatalf("clear requests after confirm = %d, want 1", got)
	}
	if n := len(h.model.pageSnap.Cart.Items); n != 0 {
		t.Fatalf("cart items after clear = %d, want 0", n)
	}
}

func TestCategoryFilter_CyclesAndPersists(t *testing.T) {
	h := newHarness(t)
	if len(h.model.visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(h.model.visible))
	}

	h.press("f")
	if h.model.category != masterpieces.CategoryGallery {
		t.Fatalf("category = %q, want gallery", h.model.category)
	}
	if len(h.model.visible) != 1 || h.model.visible[0].ID != 1 {
		t.Fatalf("visible after filter = %#v", h.model.visible)
	}

	saved, err := prefs.Load(h.prefs)
	if err != nil {
		t.Fatalf("prefs.Load returned error: %v", err)
	}
	if saved.Category != "gallery" {
		t.Fatalf("saved category = %q, want gallery", saved.Category)
	}
}

func TestViewer_PagesAndReturns(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.model.currentView != ViewViewer {
		t.Fatalf("view = %v, want viewer", h.model.currentView)
	}

	h.press("n")
	h.press("n")
	h.press("n")
	viewing, ok := h.model.catalog.Position.(catalog.Viewing)
	if !ok || viewing.PageIndex() != 2 {
		t.Fatalf("position = %#v, want last page", h.model.catalog.Position)
	}
	if h.model.View() == "" {
		t.Fatalf("viewer rendered nothing")
	}

	h.press(":")
	h.press("1")
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	viewing = h.model.catalog.Position.(catalog.Viewing)
	if viewing.PageIndex() != 0 {
		t.Fatalf("page after go to 1 = %d, want 0", viewing.PageIndex())
	}

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if h.model.currentView != ViewGallery {
		t.Fatalf("view after esc = %v, want gallery", h.model.currentView)
	}
	if _, listing := h.model.catalog.Position.(catalog.Listing); !listing {
		t.Fatalf("position after esc = %#v, want listing", h.model.catalog.Position)
	}
}

func TestCheckout_KeepsModalOnFailure(t *testing.T) {
	h := newHarness(t)
	h.press("2")
	h.press("b")
	if _, ok := h.model.modal.(*checkoutModal); !ok {
		t.Fatalf("checkout should open the booking form")
	}

	// Submitting without a QQ number fails validation before any request.
	h.runCmd(h.send(tea.KeyMsg{Type: tea.KeyEnter}))
	form, ok := h.model.modal.(*checkoutModal)
	if !ok {
		t.Fatalf("form should stay open after a failed booking")
	}
	if form.err == "" {
		t.Fatalf("form should show the booking error")
	}

	h.press("123456")
	h.runCmd(h.send(tea.KeyMsg{Type: tea.KeyEnter}))
	if h.model.modal != nil {
		t.Fatalf("form should close after booking")
	}
	if h.cartAPI.bookings != 1 {
		t.Fatalf("booking requests = %d, want 1", h.cartAPI.bookings)
	}
}

func TestView_RendersEveryScreen(t *testing.T) {
	h := newHarness(t)
	for _, k := range []string{"1", "2", "3", "?"} {
		h.press(k)
		if out := h.model.View(); out == "" {
			t.Fatalf("View after %q is empty", k)
		}
	}
}
