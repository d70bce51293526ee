package service

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// CountStore counts open orders.
// Satisfied by *database.Queries; narrow interface for testability.
type CountStore interface {
	CountOrders(ctx context.Context) (int64, error)
}

// CountPublisher receives every recomputed order count. It is called with
// the counter's lock held and must not block.
// Satisfied by *ws.Hub.
type CountPublisher interface {
	PublishOrderCount(count int64)
}

// OrderCounter is the single source of the open-order count. Reads are
// served from a cached value and fall through to the store when the cache is
// empty. It implements OrderObserver.
type OrderCounter struct {
	mu        sync.Mutex
	store     CountStore
	publisher CountPublisher
	count     int64
	valid     bool
}

// NewOrderCounter creates a new OrderCounter. publisher may be nil.
func NewOrderCounter(store CountStore, publisher CountPublisher) *OrderCounter {
	return &OrderCounter{store: store, publisher: publisher}
}

// Get returns the open-order count.
func (c *OrderCounter) Get(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid {
		return c.count, nil
	}
	n, err := c.store.CountOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count orders: %w", ErrUnavailable, err)
	}
	c.count, c.valid = n, true
	return n, nil
}

// OrdersChanged recomputes the count and publishes it. If the store cannot
// be read the cache is left empty so the next Get retries.
//
// The publish happens under the lock so subscribers see counts in the order
// they were read; PublishOrderCount must not block.
func (c *OrderCounter) OrdersChanged(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	n, err := c.store.CountOrders(ctx)
	if err != nil {
		log.Printf("ERROR: recount orders: %v", err)
		return
	}
	c.count, c.valid = n, true

	if c.publisher != nil {
		c.publisher.PublishOrderCount(n)
	}
}
