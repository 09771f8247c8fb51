package masterpieces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollectionsGateway is the read side used by the browse state.
type CollectionsGateway interface {
	FetchCollections(ctx context.Context) ([]ArtCollection, error)
	SearchCollections(ctx context.Context, query string) ([]ArtCollection, error)
	FetchCollectionsByCategory(ctx context.Context, category Category) ([]ArtCollection, error)
	FetchOverview(ctx context.Context) (Overview, error)
}

// CartGateway is the cart side used by the cart state.
type CartGateway interface {
	FetchCart(ctx context.Context, userID int64) (Cart, error)
	AddToCart(ctx context.Context, userID int64, req AddToCartRequest) (Cart, error)
	UpdateCartItem(ctx context.Context, userID int64, req UpdateCartItemRequest) (Cart, error)
	RemoveFromCart(ctx context.Context, userID int64, req RemoveFromCartRequest) (Cart, error)
	ClearCart(ctx context.Context, userID int64) (Cart, error)
	BatchBooking(ctx context.Context, userID int64, req BookingRequest) (BookingResult, error)
}

// Ensure Client implements both gateways at compile time.
var (
	_ CollectionsGateway = (*Client)(nil)
	_ CartGateway        = (*Client)(nil)
)

// Client talks to the masterpieces HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBase   = "http://localhost:3000"
	defaultUserAgent = "atelier/0.1"

	// DefaultTimeout bounds every request; a timeout surfaces as a transport
	// failure.
	DefaultTimeout = 10 * time.Second

	errorBodyLimit = 512
)

// NewClient builds a Client for apiBase. A zero timeout uses DefaultTimeout.
func NewClient(apiBase string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API base.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ResolveImage turns a relative image path into an absolute URL on the API
// host. Absolute URLs are returned unchanged.
func (c *Client) ResolveImage(ref string) string {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" || c == nil || c.baseURL == nil {
		return trimmed
	}
	rel, err := url.Parse(trimmed)
	if err != nil || rel.IsAbs() {
		return trimmed
	}
	return c.baseURL.ResolveReference(rel).String()
}

// FetchCollections retrieves every collection.
func (c *Client) FetchCollections(ctx context.Context) ([]ArtCollection, error) {
	return call(ctx, c, getCollections, &url.URL{Path: "/api/masterpieces/collections"}, nil)
}

// FetchCollection retrieves a single collection.
func (c *Client) FetchCollection(ctx context.Context, id int64) (ArtCollection, error) {
	if id <= 0 {
		return ArtCollection{}, fmt.Errorf("collection id %d: %w", id, ErrInvalidID)
	}
	rel := &url.URL{Path: "/api/masterpieces/collections/" + strconv.FormatInt(id, 10)}
	return call(ctx, c, getCollection, rel, nil)
}

// SearchCollections runs a title search. The query must not be blank.
func (c *Client) SearchCollections(ctx context.Context, query string) ([]ArtCollection, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	values := url.Values{}
	values.Set("q", q)
	rel := &url.URL{Path: "/api/masterpieces/collections/search", RawQuery: values.Encode()}
	return call(ctx, c, searchCollections, rel, nil)
}

// FetchCollectionsByCategory lists collections in one category.
func (c *Client) FetchCollectionsByCategory(ctx context.Context, category Category) ([]ArtCollection, error) {
	if strings.TrimSpace(string(category)) == "" {
		return nil, ErrEmptyQuery
	}
	values := url.Values{}
	values.Set("category", string(category))
	rel := &url.URL{Path: "/api/masterpieces/collections/category", RawQuery: values.Encode()}
	return call(ctx, c, collectionsByCategory, rel, nil)
}

// FetchOverview retrieves collection counts per category.
func (c *Client) FetchOverview(ctx context.Context) (Overview, error) {
	return call(ctx, c, collectionsOverview, &url.URL{Path: "/api/masterpieces/collections/overview"}, nil)
}

// FetchConfig retrieves the site configuration.
func (c *Client) FetchConfig(ctx context.Context) (SiteConfig, error) {
	return call(ctx, c, getConfig, &url.URL{Path: "/api/masterpieces/config"}, nil)
}

// UpdateConfig sends a partial configuration update keyed by JSON field name.
func (c *Client) UpdateConfig(ctx context.Context, patch map[string]any) (SiteConfig, error) {
	return call(ctx, c, updateConfig, &url.URL{Path: "/api/masterpieces/config"}, patch)
}

// FetchCart retrieves the user's cart. Callers decide how to degrade on error.
func (c *Client) FetchCart(ctx context.Context, userID int64) (Cart, error) {
	rel, err := cartURL(userID, "")
	if err != nil {
		return Cart{}, err
	}
	return call(ctx, c, getCart, rel, nil)
}

// AddToCart adds a new line item.
func (c *Client) AddToCart(ctx context.Context, userID int64, req AddToCartRequest) (Cart, error) {
	rel, err := cartURL(userID, "add")
	if err != nil {
		return Cart{}, err
	}
	return call(ctx, c, addToCart, rel, req)
}

// UpdateCartItem sets the absolute quantity of a line item.
func (c *Client) UpdateCartItem(ctx context.Context, userID int64, req UpdateCartItemRequest) (Cart, error) {
	rel, err := cartURL(userID, "update")
	if err != nil {
		return Cart{}, err
	}
	return call(ctx, c, updateCartItem, rel, req)
}

// RemoveFromCart deletes a line item.
func (c *Client) RemoveFromCart(ctx context.Context, userID int64, req RemoveFromCartRequest) (Cart, error) {
	rel, err := cartURL(userID, "remove")
	if err != nil {
		return Cart{}, err
	}
	return call(ctx, c, removeFromCart, rel, req)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context, userID int64) (Cart, error) {
	rel, err := cartURL(userID, "clear")
	if err != nil {
		return Cart{}, err
	}
	return call(ctx, c, clearCart, rel, nil)
}

// BatchBooking books the given items in one request.
func (c *Client) BatchBooking(ctx context.Context, userID int64, req BookingRequest) (BookingResult, error) {
	rel, err := cartURL(userID, "booking")
	if err != nil {
		return BookingResult{}, err
	}
	return call(ctx, c, batchBooking, rel, req)
}

func cartURL(userID int64, action string) (*url.URL, error) {
	if userID <= 0 {
		return nil, ErrMissingUser
	}
	path := "/api/cart/" + strconv.FormatInt(userID, 10)
	if action != "" {
		path += "/" + action
	}
	return &url.URL{Path: path}, nil
}

// call executes ep against rel and decodes the payload according to the
// endpoint's declared shape.
func call[T any](ctx context.Context, c *Client, ep endpoint[T], rel *url.URL, body any) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("client is nil")
	}
	switch ep.shape {
	case shapeEnvelope:
		var env envelope[T]
		if err := c.doURL(ctx, ep.method, rel, body, &env); err != nil {
			return zero, err
		}
		if !env.Success {
			return zero, &APIError{Path: rel.Path, Message: strings.TrimSpace(env.Message), Code: env.Code}
		}
		return env.Data, nil
	default:
		var payload T
		if err := c.doURL(ctx, ep.method, rel, body, &payload); err != nil {
			return zero, err
		}
		return payload, nil
	}
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body any, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("api %s %s failed (request %s): %v", method, rel.Path, requestID, err)
		return &TransportError{Method: method, Path: rel.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		log.Printf("api %s %s returned status %d (request %s): %s", method, rel.Path, resp.StatusCode, requestID, strings.TrimSpace(string(snippet)))
		return &TransportError{Method: method, Path: rel.String(), Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		log.Printf("api %s %s decode failed (request %s): %v", method, rel.Path, requestID, err)
		return &TransportError{Method: method, Path: rel.String(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", apiBase)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
