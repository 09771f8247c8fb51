package fakegateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/five82/atelier/internal/cart"
	"github.com/five82/atelier/internal/catalog"
	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestClient(t *testing.T) (*masterpieces.Client, *Store) {
	t.Helper()
	store := NewStore(DefaultSeed())
	srv := httptest.NewServer(NewRouter(store))
	t.Cleanup(srv.Close)
	client, err := masterpieces.NewClient(srv.URL, 0)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client, store
}

func TestCollectionReads(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	all, err := client.FetchCollections(ctx)
	if err != nil {
		t.Fatalf("FetchCollections returned error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("collections = %d, want 4", len(all))
	}

	one, err := client.FetchCollection(ctx, 1)
	if err != nil {
		t.Fatalf("FetchCollection returned error: %v", err)
	}
	if len(one.Pages) != 3 || one.Pages[1].FileID != "7702" {
		t.Fatalf("collection 1 = %#v", one)
	}

	found, err := client.SearchCollections(ctx, "badge")
	if err != nil {
		t.Fatalf("SearchCollections returned error: %v", err)
	}
	if len(found) != 1 || found[0].ID != 3 {
		t.Fatalf("search badge = %#v", found)
	}

	byCat, err := client.FetchCollectionsByCategory(ctx, masterpieces.CategoryAcrylic)
	if err != nil {
		t.Fatalf("FetchCollectionsByCategory returned error: %v", err)
	}
	if len(byCat) != 1 || byCat[0].ID != 2 {
		t.Fatalf("acrylic = %#v", byCat)
	}

	overview, err := client.FetchOverview(ctx)
	if err != nil {
		t.Fatalf("FetchOverview returned error: %v", err)
	}
	if overview.Total != 4 || overview.Categories[masterpieces.CategoryGallery] != 1 {
		t.Fatalf("overview = %#v", overview)
	}

	_, err = client.FetchCollection(ctx, 99)
	var te *masterpieces.TransportError
	if !errors.As(err, &te) || te.Status != http.StatusNotFound {
		t.Fatalf("missing collection error = %v, want 404 TransportError", err)
	}
}

func TestConfigUpdateIsPartial(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	updated, err := client.UpdateConfig(ctx, map[string]any{"siteName": "Atelier", "bogus": 1})
	if err != nil {
		t.Fatalf("UpdateConfig returned error: %v", err)
	}
	if updated.SiteName != "Atelier" || !updated.EnableSearch {
		t.Fatalf("updated config = %#v", updated)
	}
	got, err := client.FetchConfig(ctx)
	if err != nil {
		t.Fatalf("FetchConfig returned error: %v", err)
	}
	if got.SiteName != "Atelier" || got.MaxCollectionsPerPage != 20 {
		t.Fatalf("config after update = %#v", got)
	}
}

func TestCartLifecycle(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	const user = 7

	c, err := client.AddToCart(ctx, user, masterpieces.AddToCartRequest{CollectionID: 3, Quantity: 2})
	if err != nil {
		t.Fatalf("AddToCart returned error: %v", err)
	}
	c, err = client.AddToCart(ctx, user, masterpieces.AddToCartRequest{CollectionID: 3, Quantity: 1})
	if err != nil {
		t.Fatalf("second AddToCart returned error: %v", err)
	}
	if c.TotalQuantity != 3 || c.TotalPrice.StringFixed(2) != "37.50" {
		t.Fatalf("cart after adds = %d / %s, want 3 / 37.50", c.TotalQuantity, c.TotalPrice.StringFixed(2))
	}

	c, err = client.UpdateCartItem(ctx, user, masterpieces.UpdateCartItemRequest{CollectionID: 3, Quantity: 1})
	if err != nil {
		t.Fatalf("UpdateCartItem returned error: %v", err)
	}
	if item, _ := c.Find(3); item.Quantity != 1 {
		t.Fatalf("quantity after update = %d, want 1", item.Quantity)
	}

	_, err = client.RemoveFromCart(ctx, user, masterpieces.RemoveFromCartRequest{CollectionID: 42})
	var apiErr *masterpieces.APIError
	if !errors.As(err, &apiErr) || apiErr.Message == "" {
		t.Fatalf("remove missing item error = %v, want APIError with message", err)
	}

	if _, err := client.AddToCart(ctx, user, masterpieces.AddToCartRequest{CollectionID: 404, Quantity: 1}); !errors.As(err, &apiErr) {
		t.Fatalf("unknown collection error = %v, want APIError", err)
	}

	c, err = client.ClearCart(ctx, user)
	if err != nil {
		t.Fatalf("ClearCart returned error: %v", err)
	}
	if len(c.Items) != 0 || c.TotalQuantity != 0 {
		t.Fatalf("cart after clear = %#v", c)
	}

	other, err := client.FetchCart(ctx, 8)
	if err != nil {
		t.Fatalf("FetchCart returned error: %v", err)
	}
	if other.Items == nil || len(other.Items) != 0 {
		t.Fatalf("untouched cart should be empty, got %#v", other)
	}
}

func TestBookingRemovesBookedLines(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	const user = 3

	if _, err := client.AddToCart(ctx, user, masterpieces.AddToCartRequest{CollectionID: 2, Quantity: 1}); err != nil {
		t.Fatalf("AddToCart returned error: %v", err)
	}

	_, err := client.BatchBooking(ctx, user, masterpieces.BookingRequest{
		Items: []masterpieces.BookingItem{{CollectionID: 2, Quantity: 1}},
	})
	var apiErr *masterpieces.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("booking without qq error = %v, want APIError", err)
	}

	result, err := client.BatchBooking(ctx, user, masterpieces.BookingRequest{
		QQNumber: "123456",
		Items: []masterpieces.BookingItem{
			{CollectionID: 2, Quantity: 1},
			{CollectionID: 999, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("BatchBooking returned error: %v", err)
	}
	if result.SuccessCount != 1 || result.FailCount != 1 || len(result.BookingIDs) != 1 {
		t.Fatalf("booking result = %#v", result)
	}

	c, err := client.FetchCart(ctx, user)
	if err != nil {
		t.Fatalf("FetchCart returned error: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("booked line should leave the cart, got %#v", c.Items)
	}
}

func TestInvalidUserIsBadRequest(t *testing.T) {
	store := NewStore(DefaultSeed())
	srv := httptest.NewServer(NewRouter(store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/cart/abc")
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("response should carry a request id")
	}
}

func TestArtworkImageRoute(t *testing.T) {
	store := NewStore(DefaultSeed())
	srv := httptest.NewServer(NewRouter(store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + masterpieces.ArtworkImagePath(1, 102))
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("image status = %d type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, err = http.Get(srv.URL + masterpieces.ArtworkImagePath(1, 101))
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("direct-image page status = %d, want 404", resp.StatusCode)
	}
}

// The cart and browse state against the real client and this gateway.
func TestStatesEndToEnd(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	browser := catalog.NewBrowser(client, catalog.NewCache(0), notify.Discard)
	if err := browser.Load(ctx, false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	snap := browser.Snapshot()
	browser.Select(snap.Collections[0])
	for browser.CanNext() {
		if err := browser.Next(); err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
	}
	if err := browser.Next(); !errors.Is(err, catalog.ErrLastPage) {
		t.Fatalf("Next past the end = %v, want ErrLastPage", err)
	}

	bus := cart.NewBus()
	header := cart.New(5, client, bus, notify.Discard)
	defer header.Close()
	page := cart.New(5, client, bus, notify.Discard)
	defer page.Close()

	badge, _ := client.FetchCollection(ctx, 3)
	if err := header.Add(ctx, badge.ID, 2, badge.Snapshot()); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := header.Add(ctx, badge.ID, 3, badge.Snapshot()); err != nil {
		t.Fatalf("second Add returned error: %v", err)
	}
	if item, _ := page.Snapshot().Cart.Find(3); item.Quantity != 5 {
		t.Fatalf("page view quantity = %d, want 5", item.Quantity)
	}

	if err := page.SetQuantity(ctx, 3, 0); err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if _, found := header.Snapshot().Cart.Find(3); found {
		t.Fatalf("item should be gone from every view")
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	payload := `{"collections":[{"id":9,"title":"Solo","category":"色纸","price":"8","pages":[]}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed returned error: %v", err)
	}
	if len(seed.Collections) != 1 || seed.Collections[0].UnitPrice().String() != "8" {
		t.Fatalf("seed = %#v", seed)
	}
	if seed.Site.SiteName == "" {
		t.Fatalf("missing site should use defaults")
	}
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("missing seed should fail")
	}
}
