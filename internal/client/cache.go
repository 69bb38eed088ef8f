package client

import (
	"sync"
	"time"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// DefaultOrderCacheTTL is how long a fetched order list is served from memory.
const DefaultOrderCacheTTL = 30 * time.Second

// OrderListCache holds the last fetched order list for ttl.
type OrderListCache struct {
	mu        sync.Mutex
	data      []model.Order
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewOrderListCache creates an empty cache. A non-positive ttl disables caching.
func NewOrderListCache(ttl time.Duration) *OrderListCache {
	return &OrderListCache{ttl: ttl, now: time.Now}
}

// Get returns the cached orders while they are fresh.
func (c *OrderListCache) Get() ([]model.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil || c.ttl <= 0 || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return append([]model.Order(nil), c.data...), true
}

// Set stores orders fetched now.
func (c *OrderListCache) Set(orders []model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = append(make([]model.Order, 0, len(orders)), orders...)
	c.fetchedAt = c.now()
}

// Invalidate drops the cached list.
func (c *OrderListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
	c.fetchedAt = time.Time{}
}

// FilterByStatus returns orders with the given status, or all of them when
// status is nil.
func FilterByStatus(orders []model.Order, status *model.OrderStatus) []model.Order {
	if status == nil {
		return orders
	}
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == *status {
			out = append(out, o)
		}
	}
	return out
}
