package masterpieces

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

// Category classifies a collection. Wire values are the gateway's labels.
type Category string

const (
	CategoryGallery      Category = "画集"
	CategoryAcrylic      Category = "立牌"
	CategoryBadge        Category = "吧唧"
	CategoryColorPaper   Category = "色纸"
	CategoryPostcard     Category = "明信片"
	CategoryLaserTicket  Category = "镭射票"
	CategoryCanvasBag    Category = "帆布袋"
	CategorySupportStick Category = "应援棒"
	CategoryOther        Category = "其他"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryGallery,
		CategoryAcrylic,
		CategoryBadge,
		CategoryColorPaper,
		CategoryPostcard,
		CategoryLaserTicket,
		CategoryCanvasBag,
		CategorySupportStick,
		CategoryOther,
	}
}

var categoryLabels = map[Category]string{
	CategoryGallery:      "gallery",
	CategoryAcrylic:      "acrylic",
	CategoryBadge:        "badge",
	CategoryColorPaper:   "color-paper",
	CategoryPostcard:     "postcard",
	CategoryLaserTicket:  "laser-ticket",
	CategoryCanvasBag:    "canvas-bag",
	CategorySupportStick: "support-stick",
	CategoryOther:        "other",
}

// Normalize maps unknown wire values to CategoryOther.
func (c Category) Normalize() Category {
	trimmed := Category(strings.TrimSpace(string(c)))
	if _, ok := categoryLabels[trimmed]; ok {
		return trimmed
	}
	return CategoryOther
}

// Label returns the ASCII name of the category.
func (c Category) Label() string {
	return categoryLabels[c.Normalize()]
}

// IsProduct reports whether the collection is sold as merchandise rather
// than browsed as a gallery.
func (c Category) IsProduct() bool {
	return c.Normalize() != CategoryGallery
}

// ParseCategory accepts either a wire value or an ASCII label.
func ParseCategory(value string) (Category, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	for cat, label := range categoryLabels {
		if string(cat) == trimmed || strings.EqualFold(label, trimmed) {
			return cat, true
		}
	}
	return "", false
}

// ErrNoImage reports an artwork page that carries neither an image URI nor a
// file reference.
var ErrNoImage = errors.New("artwork has no image")

// ArtCollection mirrors a collection returned by /api/masterpieces/collections.
type ArtCollection struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Number      string           `json:"number"`
	Category    Category         `json:"category"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CoverImage  string           `json:"coverImage"`
	Description string           `json:"description,omitempty"`
	Pages       []ArtworkPage    `json:"pages"`
}

// HasPrice reports whether a price has been set; a missing price means the
// price is still pending.
func (c ArtCollection) HasPrice() bool {
	return c.Price != nil
}

// UnitPrice returns the price or zero when pending.
func (c ArtCollection) UnitPrice() decimal.Decimal {
	if c.Price == nil {
		return decimal.Zero
	}
	return *c.Price
}

// PlainDescription returns the description stripped of markup.
func (c ArtCollection) PlainDescription() string {
	return sanitize(c.Description)
}

// Snapshot captures the fields a cart line item displays.
func (c ArtCollection) Snapshot() CollectionSnapshot {
	return CollectionSnapshot{
		ID:         c.ID,
		Title:      c.Title,
		Number:     c.Number,
		Category:   c.Category,
		Price:      c.Price,
		CoverImage: c.CoverImage,
	}
}

// ArtworkPage is a single artwork inside a collection.
type ArtworkPage struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Number      string  `json:"number"`
	CreatedTime string  `json:"createdTime,omitempty"`
	Theme       string  `json:"theme,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	FileID      FileRef `json:"fileId,omitempty"`
}

// ImageURL resolves the page image. A direct image wins; otherwise the file
// reference is turned into the gateway's image route.
func (p ArtworkPage) ImageURL(collectionID int64) (string, error) {
	if img := strings.TrimSpace(p.Image); img != "" {
		return img, nil
	}
	if !p.FileID.IsZero() {
		return ArtworkImagePath(collectionID, p.ID), nil
	}
	return "", fmt.Errorf("collection %d page %d: %w", collectionID, p.ID, ErrNoImage)
}

// Viewable reports whether the page has an image reference.
func (p ArtworkPage) Viewable() bool {
	return strings.TrimSpace(p.Image) != "" || !p.FileID.IsZero()
}

// PlainDescription returns the description stripped of markup.
func (p ArtworkPage) PlainDescription() string {
	return sanitize(p.Description)
}

// ArtworkImagePath builds the image route for file-backed artwork.
func ArtworkImagePath(collectionID, pageID int64) string {
	return fmt.Sprintf("/api/masterpieces/collections/%d/artworks/%d/image", collectionID, pageID)
}

// FileRef holds a file identifier that the gateway may send as a number or a
// string.
type FileRef string

// UnmarshalJSON accepts numbers, strings and null.
func (f *FileRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FileRef(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("fileId: %w", err)
	}
	*f = FileRef(n.String())
	return nil
}

// IsZero reports whether no file is referenced.
func (f FileRef) IsZero() bool {
	return strings.TrimSpace(string(f)) == ""
}

// CollectionSnapshot is the denormalized copy of a collection kept on a cart
// line item. It is not re-synced when the collection changes.
type CollectionSnapshot struct {
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	Number     string           `json:"number,omitempty"`
	Category   Category         `json:"category,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	CoverImage string           `json:"coverImage"`
}

// UnitPrice returns the snapshot price or zero when pending.
func (s CollectionSnapshot) UnitPrice() decimal.Decimal {
	if s.Price == nil {
		return decimal.Zero
	}
	return *s.Price
}

// CartItem is one line of a cart, keyed by collection.
type CartItem struct {
	ID           int64              `json:"id,omitempty"`
	CollectionID int64              `json:"collectionId"`
	Quantity     int                `json:"quantity"`
	Collection   CollectionSnapshot `json:"collection"`
	AddedAt      string             `json:"addedAt,omitempty"`
}

// Subtotal is quantity times unit price.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Collection.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart mirrors /api/cart/{userId}. Totals are computed by the gateway.
type Cart struct {
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// EmptyCart is substituted whenever the cart cannot be fetched.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}, TotalPrice: decimal.Zero}
}

// Find returns the line item for a collection.
func (c Cart) Find(collectionID int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.CollectionID == collectionID {
			return item, true
		}
	}
	return CartItem{}, false
}

// AddToCartRequest is the body of POST /api/cart/{userId}/add. Collection is
// the display snapshot captured at add time; gateways that know the
// collection may ignore it.
type AddToCartRequest struct {
	CollectionID int64               `json:"collectionId"`
	Quantity     int                 `json:"quantity"`
	Collection   *CollectionSnapshot `json:"collection,omitempty"`
}

// UpdateCartItemRequest is the body of PUT /api/cart/{userId}/update.
type UpdateCartItemRequest struct {
	CollectionID int64 `json:"collectionId"`
	Quantity     int   `json:"quantity"`
}

// RemoveFromCartRequest is the body of DELETE /api/cart/{userId}/remove.
type RemoveFromCartRequest struct {
	CollectionID int64 `json:"collectionId"`
}

// BookingItem names one collection in a batch booking.
type BookingItem struct {
	CollectionID int64 `json:"collectionId"`
	Quantity     int   `json:"quantity"`
}

// BookingRequest is the body of POST /api/cart/{userId}/booking.
type BookingRequest struct {
	QQNumber    string        `json:"qqNumber"`
	PhoneNumber string        `json:"phoneNumber,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Items       []BookingItem `json:"items"`
}

// BookingResult is the data payload of a booking response.
type BookingResult struct {
	SuccessCount int     `json:"successCount"`
	FailCount    int     `json:"failCount"`
	BookingIDs   []int64 `json:"bookingIds,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// SiteConfig mirrors /api/masterpieces/config.
type SiteConfig struct {
	SiteName              string   `json:"siteName"`
	HeroTitle             string   `json:"heroTitle"`
	HeroSubtitle          string   `json:"heroSubtitle"`
	MaxCollectionsPerPage int      `json:"maxCollectionsPerPage"`
	EnableSearch          bool     `json:"enableSearch"`
	EnableCategories      bool     `json:"enableCategories"`
	DefaultCategory       Category `json:"defaultCategory"`
	Theme                 string   `json:"theme"`
	Language              string   `json:"language"`
}

// DefaultSiteConfig is used when the gateway config cannot be loaded.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		SiteName:              "艺术画集展览",
		HeroTitle:             "艺术画集展览",
		HeroSubtitle:          "探索精美的艺术作品，感受创作的魅力",
		MaxCollectionsPerPage: 20,
		EnableSearch:          true,
		EnableCategories:      true,
		DefaultCategory:       CategoryGallery,
		Theme:                 "light",
		Language:              "zh",
	}
}

// UnmarshalJSON decodes over DefaultSiteConfig, so fields the gateway omits
// keep their defaults. Booleans included.
func (s *SiteConfig) UnmarshalJSON(data []byte) error {
	type plain SiteConfig
	cfg := plain(DefaultSiteConfig())
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	*s = SiteConfig(cfg)
	return nil
}

// Overview summarizes the catalogue by category.
type Overview struct {
	Total      int              `json:"total"`
	Categories map[Category]int `json:"categories"`
}

var descriptionPolicy = bluemonday.StrictPolicy()

func sanitize(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	// The strict policy escapes entities; the terminal wants plain text.
	return strings.TrimSpace(html.UnescapeString(descriptionPolicy.Sanitize(value)))
}
