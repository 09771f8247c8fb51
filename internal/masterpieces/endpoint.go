package masterpieces

import "net/http"

// shape records how an endpoint wraps its payload. The gateway mixes bare
// payloads (reads) with {success, data, message} envelopes (mutations), so the
// shape is fixed per endpoint instead of sniffed from the body.
type shape int

const (
	shapeBare shape = iota
	shapeEnvelope
)

// endpoint binds an HTTP method and response shape to the payload type T.
type endpoint[T any] struct {
	method string
	shape  shape
}

// envelope is the wrapper used by mutation endpoints.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

var (
	getCollections        = endpoint[[]ArtCollection]{method: http.MethodGet, shape: shapeBare}
	getCollection         = endpoint[ArtCollection]{method: http.MethodGet, shape: shapeBare}
	searchCollections     = endpoint[[]ArtCollection]{method: http.MethodGet, shape: shapeBare}
	collectionsByCategory = endpoint[[]ArtCollection]{method: http.MethodGet, shape: shapeBare}
	collectionsOverview   = endpoint[Overview]{method: http.MethodGet, shape: shapeEnvelope}
	getConfig             = endpoint[SiteConfig]{method: http.MethodGet, shape: shapeBare}
	updateConfig          = endpoint[SiteConfig]{method: http.MethodPut, shape: shapeEnvelope}

	getCart        = endpoint[Cart]{method: http.MethodGet, shape: shapeBare}
	addToCart      = endpoint[Cart]{method: http.MethodPost, shape: shapeEnvelope}
	updateCartItem = endpoint[Cart]{method: http.MethodPut, shape: shapeEnvelope}
	removeFromCart = endpoint[Cart]{method: http.MethodDelete, shape: shapeEnvelope}
	clearCart      = endpoint[Cart]{method: http.MethodDelete, shape: shapeEnvelope}
	batchBooking   = endpoint[BookingResult]{method: http.MethodPost, shape: shapeEnvelope}
)
