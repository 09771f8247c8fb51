package cart

import (
	"context"
	"sync"
)

// Handler reacts to a cart change. Events carry no payload; handlers refetch.
type Handler func(ctx context.Context)

type subscriber struct {
	id uint64
	fn Handler
}

// Bus fans a "cart changed" event out to every subscribed State.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber
}

// NewBus returns a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns the handle that removes it. Handlers run
// in registration order.
func (b *Bus) Subscribe(fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, fn: fn})
	return &Subscription{bus: b, id: b.nextID}
}

// Publish calls every handler registered at the time of the call, in order,
// on the caller's goroutine. Handlers may close subscriptions while running.
func (b *Bus) Publish(ctx context.Context) {
	b.publish(ctx, 0)
}

func (b *Bus) publish(ctx context.Context, skip uint64) {
	if b == nil {
		return
	}
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.id != skip {
			handlers = append(handlers, s.fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ctx)
	}
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Subscription is a registered handler. Close it when its owner goes away.
type Subscription struct {
	bus  *Bus
	id   uint64
	once sync.Once
}

// Publish notifies every subscriber except s itself.
func (s *Subscription) Publish(ctx context.Context) {
	if s == nil {
		return
	}
	s.bus.publish(ctx, s.id)
}

// Close deregisters the handler. Extra calls do nothing.
func (s *Subscription) Close() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() { s.bus.remove(s.id) })
}
