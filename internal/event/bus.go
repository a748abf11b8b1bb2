package event

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Subscription identifies a registered listener. The zero value is never issued.
type Subscription uint64

// Bus broadcasts values of one event type to zero or more listeners.
// Listeners run synchronously, in subscription order, on the publishing goroutine.
//
// Not safe for concurrent use: a bus belongs to one character and is only
// touched from that character's tick.
type Bus[T any] struct {
	listeners *orderedmap.OrderedMap[Subscription, func(T)]
	next      Subscription
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{listeners: orderedmap.NewOrderedMap[Subscription, func(T)]()}
}

// Subscribe registers fn and returns a handle for Unsubscribe.
// A nil fn is ignored and yields the zero Subscription.
func (b *Bus[T]) Subscribe(fn func(T)) Subscription {
	if fn == nil {
		return 0
	}
	b.next++
	b.listeners.Set(b.next, fn)
	return b.next
}

// Unsubscribe removes a listener. Returns false if it was not registered.
func (b *Bus[T]) Unsubscribe(id Subscription) bool {
	return b.listeners.Delete(id)
}

// Publish delivers ev to every listener.
// A listener removed by an earlier listener during the same Publish is skipped.
func (b *Bus[T]) Publish(ev T) {
	if b.listeners.Len() == 0 {
		return
	}
	ids := b.listeners.Keys()
	for _, id := range ids {
		if fn, ok := b.listeners.Get(id); ok {
			fn(ev)
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus[T]) Len() int {
	return b.listeners.Len()
}
