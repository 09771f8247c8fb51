// Package masterpieces provides an HTTP client for the masterpieces gallery
// and cart API.
//
// # Overview
//
// The gateway serves art collections, site configuration and per-user carts
// as JSON over HTTP. This package handles request construction, the fixed
// request timeout, JSON decoding and the mapping of failures into typed
// errors.
//
// # Files
//
//   - client.go: Client, the gateway interfaces and request plumbing
//   - endpoint.go: per-endpoint method and response shape table
//   - errors.go: transport, application and validation errors
//   - types.go: data structures mirroring the API schema
//
// # Response Shapes
//
// Two shapes coexist on the wire and must not be confused:
//
//	GET  /api/masterpieces/collections       [ {...}, {...} ]            bare
//	GET  /api/cart/{userId}                  { "items": [...], ... }     bare
//	POST /api/cart/{userId}/add              { "success": true,
//	                                           "data": { ... },
//	                                           "message": "..." }        envelope
//
// Each endpoint declares its shape in endpoint.go; the decoder never guesses.
// An envelope with success=false becomes an *APIError carrying the server
// message. Any status outside [200,300) is a *TransportError regardless of the
// body.
//
// # Client Usage
//
//	client, err := masterpieces.NewClient("http://localhost:3000", 0)
//	if err != nil {
//		log.Fatalf("init client: %v", err)
//	}
//
//	collections, err := client.FetchCollections(ctx)
//	if err != nil {
//		log.Printf("collections fetch failed: %v", err)
//	}
//
//	cart, err := client.AddToCart(ctx, userID, masterpieces.AddToCartRequest{
//		CollectionID: 5,
//		Quantity:     2,
//	})
//
// # Error Handling
//
// Callers should show UserMessage(err, fallback) to users. It returns the
// server's message for failed envelopes, the validation text for local
// validation failures, and fallback for everything else. Status codes and
// response snippets are written to the log for diagnostics only.
//
// # Thread Safety
//
// Client holds no mutable state after construction and may be shared across
// goroutines.
package masterpieces
