package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
)

var (
	// ErrNotViewing is returned by page moves while the list is shown.
	ErrNotViewing = errors.New("no collection selected")
	// ErrFirstPage is returned by Prev on the first page.
	ErrFirstPage = errors.New("already at the first page")
	// ErrLastPage is returned by Next on the last page.
	ErrLastPage = errors.New("already at the last page")
	// ErrInvalidPage is returned by GoTo for an index outside the collection.
	ErrInvalidPage = errors.New("invalid page index")
)

const (
	msgLoadFailed   = "Loading collections failed"
	msgSearchFailed = "Search failed"
	msgFilterFailed = "Loading category failed"
)

// Source describes where the current collection list came from.
type Source struct {
	Query    string
	Category masterpieces.Category
}

// Label renders the source for a status line.
func (s Source) Label() string {
	switch {
	case s.Query != "":
		return fmt.Sprintf("search %q", s.Query)
	case s.Category != "":
		return "category " + s.Category.Label()
	default:
		return "all collections"
	}
}

// Snapshot is a copy of the browser state for rendering.
type Snapshot struct {
	Collections []masterpieces.ArtCollection
	Position    Position
	Source      Source
	Loading     bool
	Error       string
	// CachedAt is when the full list was last fetched; zero before the
	// first fetch.
	CachedAt time.Time
}

// Browser owns the collection list and the position inside it.
type Browser struct {
	gateway masterpieces.CollectionsGateway
	cache   *Cache
	toasts  notify.Sink

	mu          sync.Mutex
	collections []masterpieces.ArtCollection
	position    Position
	source      Source
	pending     int
	err         string
}

// NewBrowser wires a browser to its gateway, cache and toast sink. A nil
// cache gets a private one; a nil sink discards toasts.
func NewBrowser(gateway masterpieces.CollectionsGateway, cache *Cache, toasts notify.Sink) *Browser {
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	if toasts == nil {
		toasts = notify.Discard
	}
	return &Browser{
		gateway:  gateway,
		cache:    cache,
		toasts:   toasts,
		position: Listing{},
	}
}

// Load fills the collection list from the cache, or from the gateway on a
// miss. A failed fetch keeps the previous list and records the error.
func (b *Browser) Load(ctx context.Context, forceRefresh bool) error {
	if cached, ok := b.cache.Get(forceRefresh); ok {
		b.mu.Lock()
		b.collections = cached
		b.source = Source{}
		b.err = ""
		b.mu.Unlock()
		return nil
	}

	b.begin()
	items, err := b.gateway.FetchCollections(ctx)
	if err != nil {
		b.fail(msgLoadFailed, err)
		return err
	}
	b.cache.Put(items)
	b.finish(items, Source{})
	return nil
}

// Search replaces the list with the gateway's search result. A blank query
// reloads the full list. Results never enter the cache.
func (b *Browser) Search(ctx context.Context, query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return b.Load(ctx, true)
	}

	b.begin()
	items, err := b.gateway.SearchCollections(ctx, q)
	if err != nil {
		b.fail(msgSearchFailed, err)
		return err
	}

	b.finish(items, Source{Query: q})

	b.toasts.Post(notify.LevelInfo, fmt.Sprintf("Found %d results", len(items)))
	return nil
}

// LoadCategory replaces the list with one category from the gateway. Like
// search results, the list is not cached.
func (b *Browser) LoadCategory(ctx context.Context, category masterpieces.Category) error {
	b.begin()
	items, err := b.gateway.FetchCollectionsByCategory(ctx, category)
	if err != nil {
		b.fail(msgFilterFailed, err)
		return err
	}

	b.finish(items, Source{Category: category})
	return nil
}

// Overview fetches per-category counts from the gateway.
func (b *Browser) Overview(ctx context.Context) (masterpieces.Overview, error) {
	return b.gateway.FetchOverview(ctx)
}

// Select moves to the first page of collection. The collection is expected
// to be one of the listed ones.
func (b *Browser) Select(collection masterpieces.ArtCollection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = Viewing{collection: collection}
}

// Back returns to the list.
func (b *Browser) Back() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = Listing{}
}

// Next moves one page forward. At the last page it leaves the index alone
// and returns ErrLastPage.
func (b *Browser) Next() error {
	b.mu.Lock()
	v, ok := b.position.(Viewing)
	if !ok {
		b.mu.Unlock()
		return ErrNotViewing
	}
	if !v.CanNext() {
		b.mu.Unlock()
		b.toasts.Post(notify.LevelInfo, "Already at the last page")
		return ErrLastPage
	}
	v.index++
	b.position = v
	b.mu.Unlock()
	return nil
}

// Prev moves one page back. At the first page it leaves the index alone and
// returns ErrFirstPage.
func (b *Browser) Prev() error {
	b.mu.Lock()
	v, ok := b.position.(Viewing)
	if !ok {
		b.mu.Unlock()
		return ErrNotViewing
	}
	if !v.CanPrev() {
		b.mu.Unlock()
		b.toasts.Post(notify.LevelInfo, "Already at the first page")
		return ErrFirstPage
	}
	v.index--
	b.position = v
	b.mu.Unlock()
	return nil
}

// GoTo jumps to page index. Out-of-range indexes leave the state unchanged.
func (b *Browser) GoTo(index int) error {
	b.mu.Lock()
	v, ok := b.position.(Viewing)
	if !ok {
		b.mu.Unlock()
		return ErrNotViewing
	}
	if index < 0 || index >= v.PageCount() {
		b.mu.Unlock()
		b.toasts.Post(notify.LevelError, "Invalid page index")
		return fmt.Errorf("page %d of %d: %w", index, v.PageCount(), ErrInvalidPage)
	}
	v.index = index
	b.position = v
	b.mu.Unlock()
	return nil
}

// CurrentArtwork returns the page on screen, if any.
func (b *Browser) CurrentArtwork() (masterpieces.ArtworkPage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.position.(Viewing); ok {
		return v.Artwork()
	}
	return masterpieces.ArtworkPage{}, false
}

// CanNext reports whether Next would move.
func (b *Browser) CanNext() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.position.(Viewing)
	return ok && v.CanNext()
}

// CanPrev reports whether Prev would move.
func (b *Browser) CanPrev() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.position.(Viewing)
	return ok && v.CanPrev()
}

// CategoryCounts tallies the loaded collections by category.
func (b *Browser) CategoryCounts() map[masterpieces.Category]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	counts := make(map[masterpieces.Category]int)
	for _, c := range b.collections {
		counts[c.Category.Normalize()]++
	}
	return counts
}

// FilterCategory returns the loaded collections in category without
// touching the gateway. An empty category returns everything.
func (b *Browser) FilterCategory(category masterpieces.Category) []masterpieces.ArtCollection {
	b.mu.Lock()
	defer b.mu.Unlock()
	if category == "" {
		return cloneCollections(b.collections)
	}
	want := category.Normalize()
	out := make([]masterpieces.ArtCollection, 0, len(b.collections))
	for _, c := range b.collections {
		if c.Category.Normalize() == want {
			out = append(out, c)
		}
	}
	return out
}

// ClearError drops the recorded error.
func (b *Browser) ClearError() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = ""
}

// Snapshot returns a copy of the state.
func (b *Browser) Snapshot() Snapshot {
	cachedAt, _ := b.cache.FetchedAt()

	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Collections: cloneCollections(b.collections),
		Position:    b.position,
		Source:      b.source,
		Loading:     b.pending > 0,
		Error:       b.err,
		CachedAt:    cachedAt,
	}
}

func (b *Browser) begin() {
	b.mu.Lock()
	b.pending++
	b.err = ""
	b.mu.Unlock()
}

// finish installs a fetched list and ends one pending request.
func (b *Browser) finish(items []masterpieces.ArtCollection, source Source) {
	b.mu.Lock()
	b.collections = cloneCollections(items)
	b.source = source
	b.done()
	b.mu.Unlock()
}

// done ends one pending request. Callers hold b.mu.
func (b *Browser) done() {
	if b.pending > 0 {
		b.pending--
	}
}

func (b *Browser) fail(fallback string, err error) {
	msg := masterpieces.UserMessage(err, fallback)
	log.Printf("catalog: %s: %v", strings.ToLower(fallback), err)

	b.mu.Lock()
	b.err = msg
	b.done()
	b.mu.Unlock()

	b.toasts.Post(notify.LevelError, msg)
}
