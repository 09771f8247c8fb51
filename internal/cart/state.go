package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/five82/atelier/internal/masterpieces"
	"github.com/five82/atelier/internal/notify"
)

var (
	// ErrDeclined is returned by Clear when the user says no.
	ErrDeclined = errors.New("clear cancelled")
	// ErrMissingContact is returned when a booking has no QQ number.
	ErrMissingContact = errors.New("a QQ number is required to book")
)

const (
	msgLoadFailed    = "Loading cart failed"
	msgAddFailed     = "Adding to cart failed"
	msgUpdateFailed  = "Updating cart failed"
	msgRemoveFailed  = "Removing item failed"
	msgClearFailed   = "Clearing cart failed"
	msgBookingFailed = "Booking failed"
)

// Confirmer gates destructive actions behind a yes/no answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Snapshot is a copy of the cart state for rendering.
type Snapshot struct {
	UserID  int64
	Cart    masterpieces.Cart
	Loading bool
	Error   string
}

// State holds one user's cart as last reported by the gateway. Every
// successful mutation replaces the whole cart with the gateway's answer and
// tells the other States on the bus, which refetch.
type State struct {
	userID  int64
	gateway masterpieces.CartGateway
	toasts  notify.Sink
	sub     *Subscription

	mu      sync.Mutex
	cart    masterpieces.Cart
	pending int
	err     string
}

// New creates a State for userID and subscribes it to bus. Call Close when
// the owner goes away. A nil sink discards toasts.
func New(userID int64, gateway masterpieces.CartGateway, bus *Bus, toasts notify.Sink) *State {
	if toasts == nil {
		toasts = notify.Discard
	}
	s := &State{
		userID:  userID,
		gateway: gateway,
		toasts:  toasts,
		cart:    masterpieces.EmptyCart(),
	}
	if bus != nil {
		s.sub = bus.Subscribe(s.resync)
	}
	return s
}

// Close releases the bus subscription.
func (s *State) Close() {
	s.sub.Close()
}

// UserID returns the cart owner.
func (s *State) UserID() int64 {
	return s.userID
}

// Refresh refetches the cart. Any failure substitutes an empty cart and
// records the error; no toast is posted.
func (s *State) Refresh(ctx context.Context) error {
	if s.userID <= 0 {
		s.replace(masterpieces.EmptyCart(), masterpieces.ErrMissingUser.Error())
		return masterpieces.ErrMissingUser
	}

	s.begin()
	cart, err := s.gateway.FetchCart(ctx, s.userID)
	if err != nil {
		log.Printf("cart: fetch for user %d failed: %v", s.userID, err)
		s.replace(masterpieces.EmptyCart(), masterpieces.UserMessage(err, msgLoadFailed))
		s.end()
		return err
	}
	s.replace(normalize(cart), "")
	s.end()
	return nil
}

// Add puts quantity more of a collection in the cart. An existing line is
// updated to its current quantity plus quantity; otherwise a new line is
// added with snap as its display copy.
func (s *State) Add(ctx context.Context, collectionID int64, quantity int, snap masterpieces.CollectionSnapshot) error {
	if err := s.validate(collectionID); err != nil {
		return s.reject(err)
	}
	if quantity < 1 {
		return s.reject(fmt.Errorf("add %d: %w", quantity, masterpieces.ErrInvalidQuantity))
	}

	existing, found := s.find(collectionID)
	return s.mutate(ctx, msgAddFailed, "Added to cart", func(ctx context.Context) (masterpieces.Cart, error) {
		if found {
			return s.gateway.UpdateCartItem(ctx, s.userID, masterpieces.UpdateCartItemRequest{
				CollectionID: collectionID,
				Quantity:     existing.Quantity + quantity,
			})
		}
		if snap.ID == 0 {
			snap.ID = collectionID
		}
		return s.gateway.AddToCart(ctx, s.userID, masterpieces.AddToCartRequest{
			CollectionID: collectionID,
			Quantity:     quantity,
			Collection:   &snap,
		})
	})
}

// SetQuantity sets an absolute quantity. Zero or less removes the line.
func (s *State) SetQuantity(ctx context.Context, collectionID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, collectionID)
	}
	if err := s.validate(collectionID); err != nil {
		return s.reject(err)
	}
	return s.mutate(ctx, msgUpdateFailed, "Cart updated", func(ctx context.Context) (masterpieces.Cart, error) {
		return s.gateway.UpdateCartItem(ctx, s.userID, masterpieces.UpdateCartItemRequest{
			CollectionID: collectionID,
			Quantity:     quantity,
		})
	})
}

// Remove deletes a line.
func (s *State) Remove(ctx context.Context, collectionID int64) error {
	if err := s.validate(collectionID); err != nil {
		return s.reject(err)
	}
	return s.mutate(ctx, msgRemoveFailed, "Removed from cart", func(ctx context.Context) (masterpieces.Cart, error) {
		return s.gateway.RemoveFromCart(ctx, s.userID, masterpieces.RemoveFromCartRequest{CollectionID: collectionID})
	})
}

// Clear empties the cart after confirm agrees. A refusal, or a failure to
// ask, sends nothing and leaves the state as it was.
func (s *State) Clear(ctx context.Context, confirm Confirmer) error {
	if s.userID <= 0 {
		return s.reject(masterpieces.ErrMissingUser)
	}
	if confirm == nil {
		return ErrDeclined
	}
	ok, err := confirm.Confirm(ctx, "Clear every item from the cart?")
	if err != nil {
		return fmt.Errorf("confirm clear: %w", err)
	}
	if !ok {
		return ErrDeclined
	}
	return s.mutate(ctx, msgClearFailed, "Cart cleared", func(ctx context.Context) (masterpieces.Cart, error) {
		return s.gateway.ClearCart(ctx, s.userID)
	})
}

// BatchBooking books the requested items. Unlike the other operations it
// returns the failure so a checkout flow can stop on it. The booking
// response carries no cart, so the lines are refetched afterwards.
func (s *State) BatchBooking(ctx context.Context, req masterpieces.BookingRequest) (masterpieces.BookingResult, error) {
	if s.userID <= 0 {
		return masterpieces.BookingResult{}, s.reject(masterpieces.ErrMissingUser)
	}
	if len(req.Items) == 0 {
		return masterpieces.BookingResult{}, s.reject(masterpieces.ErrEmptyBooking)
	}
	if strings.TrimSpace(req.QQNumber) == "" {
		return masterpieces.BookingResult{}, s.reject(ErrMissingContact)
	}

	s.begin()
	result, err := s.gateway.BatchBooking(ctx, s.userID, req)
	s.end()
	if err != nil {
		msg := masterpieces.UserMessage(err, msgBookingFailed)
		log.Printf("cart: booking for user %d failed: %v", s.userID, err)
		s.setError(msg)
		s.toasts.Post(notify.LevelError, msg)
		return masterpieces.BookingResult{}, err
	}

	s.toasts.Post(notify.LevelSuccess, bookingMessage(result))
	s.resync(ctx)
	s.sub.Publish(ctx)
	return result, nil
}

// BookingFromCart builds a booking request covering every line in the cart.
func (s *State) BookingFromCart(qq, phone, notes string) masterpieces.BookingRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]masterpieces.BookingItem, 0, len(s.cart.Items))
	for _, item := range s.cart.Items {
		items = append(items, masterpieces.BookingItem{CollectionID: item.CollectionID, Quantity: item.Quantity})
	}
	return masterpieces.BookingRequest{
		QQNumber:    strings.TrimSpace(qq),
		PhoneNumber: strings.TrimSpace(phone),
		Notes:       strings.TrimSpace(notes),
		Items:       items,
	}
}

// ClearError drops the recorded error.
func (s *State) ClearError() {
	s.setError("")
}

// Snapshot returns a copy of the state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart
	cart.Items = append([]masterpieces.CartItem(nil), s.cart.Items...)
	return Snapshot{
		UserID:  s.userID,
		Cart:    cart,
		Loading: s.pending > 0,
		Error:   s.err,
	}
}

type mutation func(ctx context.Context) (masterpieces.Cart, error)

// mutate runs call, replaces the cart with its answer and publishes. Failures
// are recorded and posted but leave the cart alone.
func (s *State) mutate(ctx context.Context, fallback, success string, call mutation) error {
	s.begin()
	cart, err := call(ctx)
	if err != nil {
		s.end()
		msg := masterpieces.UserMessage(err, fallback)
		log.Printf("cart: %s for user %d: %v", strings.ToLower(fallback), s.userID, err)
		s.setError(msg)
		s.toasts.Post(notify.LevelError, msg)
		return err
	}
	s.replace(normalize(cart), "")
	s.end()

	s.toasts.Post(notify.LevelSuccess, success)
	s.sub.Publish(ctx)
	return nil
}

// resync refetches after a change made elsewhere. Unlike Refresh, a failure
// keeps the cart already held and only records the error.
func (s *State) resync(ctx context.Context) {
	if s.userID <= 0 {
		return
	}
	s.begin()
	cart, err := s.gateway.FetchCart(ctx, s.userID)
	if err != nil {
		log.Printf("cart: resync for user %d failed: %v", s.userID, err)
		s.setError(masterpieces.UserMessage(err, msgLoadFailed))
		s.end()
		return
	}
	s.replace(normalize(cart), "")
	s.end()
}

func (s *State) validate(collectionID int64) error {
	if s.userID <= 0 {
		return masterpieces.ErrMissingUser
	}
	if collectionID <= 0 {
		return fmt.Errorf("collection id %d: %w", collectionID, masterpieces.ErrInvalidID)
	}
	return nil
}

// reject records a validation failure without touching the gateway.
func (s *State) reject(err error) error {
	msg := err.Error()
	s.setError(msg)
	s.toasts.Post(notify.LevelError, msg)
	return err
}

func (s *State) find(collectionID int64) (masterpieces.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Find(collectionID)
}

func (s *State) begin() {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()
}

func (s *State) end() {
	s.mu.Lock()
	if s.pending > 0 {
		s.pending--
	}
	s.mu.Unlock()
}

func (s *State) replace(cart masterpieces.Cart, errMsg string) {
	s.mu.Lock()
	s.cart = cart
	s.err = errMsg
	s.mu.Unlock()
}

func (s *State) setError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// normalize keeps a nil item list from reaching the view.
func normalize(cart masterpieces.Cart) masterpieces.Cart {
	if cart.Items == nil {
		cart.Items = []masterpieces.CartItem{}
	}
	return cart
}

func bookingMessage(result masterpieces.BookingResult) string {
	if result.FailCount > 0 {
		return fmt.Sprintf("Booked %d, %d failed", result.SuccessCount, result.FailCount)
	}
	return fmt.Sprintf("Booked %d items", result.SuccessCount)
}
