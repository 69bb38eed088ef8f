package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

func TestOrderListCacheExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := NewOrderListCache(30 * time.Second)
	cache.now = func() time.Time { return now }

	_, ok := cache.Get()
	assert.False(t, ok, "empty cache must miss")

	cache.Set([]model.Order{{ID: uuid.New()}})
	now = now.Add(29 * time.Second)
	orders, ok := cache.Get()
	require.True(t, ok)
	assert.Len(t, orders, 1)

	now = now.Add(time.Second)
	_, ok = cache.Get()
	assert.False(t, ok, "cache must expire after ttl")
}

func TestOrderListCacheInvalidate(t *testing.T) {
	cache := NewOrderListCache(time.Minute)
	cache.Set([]model.Order{})
	_, ok := cache.Get()
	require.True(t, ok, "empty list is a valid cached value")

	cache.Invalidate()
	_, ok = cache.Get()
	assert.False(t, ok)
}

func TestOrderListCacheReturnsCopy(t *testing.T) {
	cache := NewOrderListCache(time.Minute)
	cache.Set([]model.Order{{SequenceNumber: 1}})

	orders, _ := cache.Get()
	orders[0].SequenceNumber = 99

	again, _ := cache.Get()
	assert.Equal(t, int64(1), again[0].SequenceNumber)
}

func TestOrderListCacheDisabled(t *testing.T) {
	cache := NewOrderListCache(-1)
	cache.Set([]model.Order{{}})
	_, ok := cache.Get()
	assert.False(t, ok)
}

func TestFilterByStatus(t *testing.T) {
	orders := []model.Order{
		{SequenceNumber: 1, Status: model.OrderStatusNew},
		{SequenceNumber: 2, Status: model.OrderStatusDone},
		{SequenceNumber: 3, Status: model.OrderStatusNew},
	}
	assert.Len(t, FilterByStatus(orders, nil), 3)

	status := model.OrderStatusNew
	filtered := FilterByStatus(orders, &status)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(3), filtered[1].SequenceNumber)

	status = model.OrderStatusAccepted
	assert.Empty(t, FilterByStatus(orders, &status))
}
