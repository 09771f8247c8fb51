package fakegateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/five82/atelier/internal/masterpieces"
)

// Business failures reported through success=false envelopes.
var (
	errUnknownCollection = errors.New("collection not found")
	errNotInCart         = errors.New("item is not in the cart")
	errBadQuantity       = errors.New("quantity must be at least 1")
	errMissingQQ         = errors.New("qq number is required")
	errNoItems           = errors.New("no items to book")
)

// Seed is the initial catalogue.
type Seed struct {
	Site        masterpieces.SiteConfig      `json:"site"`
	Collections []masterpieces.ArtCollection `json:"collections"`
}

// LoadSeed reads a JSON seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed %s: %w", path, err)
	}
	if seed.Site.SiteName == "" {
		seed.Site = masterpieces.DefaultSiteConfig()
	}
	return seed, nil
}

// Store is the in-memory state behind the fake gateway.
type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	site        masterpieces.SiteConfig
	collections []masterpieces.ArtCollection
	carts       map[int64][]masterpieces.CartItem
	nextItemID  int64
	nextBooking int64
}

// NewStore builds a store from seed.
func NewStore(seed Seed) *Store {
	site := seed.Site
	if site.SiteName == "" {
		site = masterpieces.DefaultSiteConfig()
	}
	return &Store{
		now:         time.Now,
		site:        site,
		collections: slices.Clone(seed.Collections),
		carts:       make(map[int64][]masterpieces.CartItem),
		nextItemID:  1,
		nextBooking: 1000,
	}
}

// Collections returns every collection.
func (s *Store) Collections() []masterpieces.ArtCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.collections)
}

// Collection returns one collection by id.
func (s *Store) Collection(id int64) (masterpieces.ArtCollection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection(id)
}

func (s *Store) collection(id int64) (masterpieces.ArtCollection, bool) {
	for _, c := range s.collections {
		if c.ID == id {
			return c, true
		}
	}
	return masterpieces.ArtCollection{}, false
}

// Search matches query against titles and numbers, ignoring case.
func (s *Store) Search(query string) []masterpieces.ArtCollection {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []masterpieces.ArtCollection{}
	for _, c := range s.collections {
		if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Number), q) {
			out = append(out, c)
		}
	}
	return out
}

// ByCategory lists the collections in category.
func (s *Store) ByCategory(category masterpieces.Category) []masterpieces.ArtCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []masterpieces.ArtCollection{}
	for _, c := range s.collections {
		if c.Category.Normalize() == category {
			out = append(out, c)
		}
	}
	return out
}

// Overview counts collections per category.
func (s *Store) Overview() masterpieces.Overview {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[masterpieces.Category]int)
	for _, c := range s.collections {
		counts[c.Category.Normalize()]++
	}
	return masterpieces.Overview{Total: len(s.collections), Categories: counts}
}

// Site returns the site configuration.
func (s *Store) Site() masterpieces.SiteConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.site
}

// UpdateSite applies a partial update keyed by JSON field name. Unknown keys
// are ignored.
func (s *Store) UpdateSite(patch map[string]any) (masterpieces.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := json.Marshal(s.site)
	if err != nil {
		return masterpieces.SiteConfig{}, err
	}
	merged := map[string]any{}
	if err := json.Unmarshal(current, &merged); err != nil {
		return masterpieces.SiteConfig{}, err
	}
	for k, v := range patch {
		if _, ok := merged[k]; ok {
			merged[k] = v
		}
	}
	encoded, err := json.Marshal(merged)
	if err != nil {
		return masterpieces.SiteConfig{}, err
	}
	var next masterpieces.SiteConfig
	if err := json.Unmarshal(encoded, &next); err != nil {
		return masterpieces.SiteConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	s.site = next
	return next, nil
}

// Cart returns the user's cart with computed totals.
func (s *Store) Cart(userID int64) masterpieces.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart(userID)
}

// Add adds quantity to the line for req.CollectionID, creating it if needed.
func (s *Store) Add(userID int64, req masterpieces.AddToCartRequest) (masterpieces.Cart, error) {
	if req.Quantity < 1 {
		return masterpieces.Cart{}, errBadQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].CollectionID == req.CollectionID {
			items[i].Quantity += req.Quantity
			return s.cart(userID), nil
		}
	}

	snap, ok := s.snapshotFor(req)
	if !ok {
		return masterpieces.Cart{}, errUnknownCollection
	}
	s.carts[userID] = append(items, masterpieces.CartItem{
		ID:           s.nextItemID,
		CollectionID: req.CollectionID,
		Quantity:     req.Quantity,
		Collection:   snap,
		AddedAt:      s.now().UTC().Format(time.RFC3339),
	})
	s.nextItemID++
	return s.cart(userID), nil
}

func (s *Store) snapshotFor(req masterpieces.AddToCartRequest) (masterpieces.CollectionSnapshot, bool) {
	if c, ok := s.collection(req.CollectionID); ok {
		return c.Snapshot(), true
	}
	if req.Collection != nil && req.Collection.ID == req.CollectionID {
		return *req.Collection, true
	}
	return masterpieces.CollectionSnapshot{}, false
}

// Update sets an absolute quantity. Zero or less removes the line.
func (s *Store) Update(userID int64, req masterpieces.UpdateCartItemRequest) (masterpieces.Cart, error) {
	if req.Quantity <= 0 {
		return s.Remove(userID, masterpieces.RemoveFromCartRequest{CollectionID: req.CollectionID})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].CollectionID == req.CollectionID {
			items[i].Quantity = req.Quantity
			return s.cart(userID), nil
		}
	}
	return masterpieces.Cart{}, errNotInCart
}

// Remove deletes a line.
func (s *Store) Remove(userID int64, req masterpieces.RemoveFromCartRequest) (masterpieces.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	idx := slices.IndexFunc(items, func(item masterpieces.CartItem) bool {
		return item.CollectionID == req.CollectionID
	})
	if idx < 0 {
		return masterpieces.Cart{}, errNotInCart
	}
	s.carts[userID] = slices.Delete(items, idx, idx+1)
	return s.cart(userID), nil
}

// Clear empties the cart.
func (s *Store) Clear(userID int64) masterpieces.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return s.cart(userID)
}

// Book books each requested item. Items that name an unknown collection or a
// non-positive quantity fail individually; booked lines leave the cart.
func (s *Store) Book(userID int64, req masterpieces.BookingRequest) (masterpieces.BookingResult, error) {
	if strings.TrimSpace(req.QQNumber) == "" {
		return masterpieces.BookingResult{}, errMissingQQ
	}
	if len(req.Items) == 0 {
		return masterpieces.BookingResult{}, errNoItems
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	result := masterpieces.BookingResult{BookingIDs: []int64{}}
	booked := make(map[int64]bool)
	for _, item := range req.Items {
		if _, ok := s.collection(item.CollectionID); !ok || item.Quantity < 1 {
			result.FailCount++
			continue
		}
		result.SuccessCount++
		result.BookingIDs = append(result.BookingIDs, s.nextBooking)
		s.nextBooking++
		booked[item.CollectionID] = true
	}
	s.carts[userID] = slices.DeleteFunc(s.carts[userID], func(item masterpieces.CartItem) bool {
		return booked[item.CollectionID]
	})
	result.Message = fmt.Sprintf("booked %d of %d items", result.SuccessCount, len(req.Items))
	return result, nil
}

// cart renders the stored lines with totals. Callers hold s.mu.
func (s *Store) cart(userID int64) masterpieces.Cart {
	out := masterpieces.EmptyCart()
	for _, item := range s.carts[userID] {
		out.Items = append(out.Items, item)
		out.TotalQuantity += item.Quantity
		out.TotalPrice = out.TotalPrice.Add(item.Subtotal())
	}
	out.TotalPrice = out.TotalPrice.Round(2)
	return out
}

// DefaultSeed is a small catalogue for local development.
func DefaultSeed() Seed {
	price := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}
	return Seed{
		Site: masterpieces.DefaultSiteConfig(),
		Collections: []masterpieces.ArtCollection{
			{
				ID:          1,
				Title:       "Mountain Sketchbook",
				Number:      "G-001",
				Category:    masterpieces.CategoryGallery,
				CoverImage:  "/static/covers/mountain.jpg",
				Description: "<p>Ink studies from a <b>summer</b> in the hills.</p>",
				Pages: []masterpieces.ArtworkPage{
					{ID: 101, Title: "Dawn ridge", Number: "1", Image: "/static/art/101.jpg", Theme: "landscape"},
					{ID: 102, Title: "Cloud sea", Number: "2", FileID: "7702"},
					{ID: 103, Title: "Pine study", Number: "3", Description: "Brush and wash."},
				},
			},
			{
				ID:         2,
				Title:      "Festival Acrylic Stand",
				Number:     "A-014",
				Category:   masterpieces.CategoryAcrylic,
				Price:      price("45.00"),
				CoverImage: "/static/covers/stand.jpg",
			},
			{
				ID:         3,
				Title:      "Cat Badge Set",
				Number:     "B-203",
				Category:   masterpieces.CategoryBadge,
				Price:      price("12.50"),
				CoverImage: "/static/covers/badge.jpg",
			},
			{
				ID:         4,
				Title:      "Night Market Postcards",
				Number:     "P-031",
				Category:   masterpieces.CategoryPostcard,
				CoverImage: "/static/covers/postcards.jpg",
			},
		},
	}
}
