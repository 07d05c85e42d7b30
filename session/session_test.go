package session

import (
	"context"
	"os"
	"testing"
	"time"

	"fooddelight/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCart(t *testing.T) {
	c := Cart{}

	require.NoError(t, c.Add(1, "Biryani", price("12.50"), 2))
	require.NoError(t, c.Add(1, "Biryani", price("12.50"), 2))
	assert.ErrorIs(t, c.Add(1, "Biryani", price("12.50"), 2), ErrExceedsStock)
	assert.ErrorIs(t, c.Add(2, "Lassi", price("3.00"), 0), ErrOutOfStock)

	require.NoError(t, c.Add(3, "Naan", price("2.00"), 5))
	require.NoError(t, c.Increment(3))
	assert.Equal(t, 4, c.Count())
	assert.True(t, price("29.00").Equal(c.Total()))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ItemID)
	assert.Equal(t, 2, items[0].Quantity)

	require.NoError(t, c.Decrement(3))
	require.NoError(t, c.Decrement(3))
	_, ok := c[3]
	assert.False(t, ok)
	assert.ErrorIs(t, c.Decrement(3), ErrNotInCart)
	assert.ErrorIs(t, c.Increment(3), ErrNotInCart)

	require.NoError(t, c.Remove(1))
	assert.ErrorIs(t, c.Remove(1), ErrNotInCart)
	assert.Zero(t, c.Count())
	assert.True(t, c.Total().IsZero())

	require.NoError(t, c.Add(4, "Tea", price("1.00"), 3))
	c.Clear()
	assert.Empty(t, c.Items())
}

func TestCartKeepsFirstPrice(t *testing.T) {
	c := Cart{}
	require.NoError(t, c.Add(1, "Biryani", price("12.50"), 5))
	require.NoError(t, c.Add(1, "Biryani", price("15.00"), 5))

	assert.Equal(t, 2, c[1].Quantity)
	assert.True(t, price("12.50").Equal(c[1].Price))
	assert.True(t, price("25.00").Equal(c.Total()))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := New(Identity{Role: models.RoleUser, UserID: 7, Name: "Asha"})
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NoError(t, got.Cart.Add(1, "Dosa", price("4.00"), 3))

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Cart.Count(), "unsaved changes must not leak into the store")

	require.NoError(t, store.Save(ctx, got))
	again, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.Count())
	assert.Equal(t, uint(7), again.Identity.UserID)

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, got), ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	s := New(Identity{Role: models.RoleAdmin, Name: "admin"})
	s.CreatedAt = time.Now().Add(-2 * time.Minute)
	require.NoError(t, store.Create(ctx, s))

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRedisStore runs against a real server when FOOD_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FOOD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FOOD_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, time.Minute)
	require.NoError(t, store.Ping(ctx))

	s := New(Identity{Role: models.RolePartner, PartnerID: 3, Name: "Ravi"})
	require.NoError(t, store.Create(ctx, s))
	t.Cleanup(func() { _ = store.Delete(ctx, s.ID) })

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.Identity.PartnerID)

	require.NoError(t, got.Cart.Add(9, "Vada", price("2.25"), 4))
	require.NoError(t, store.Save(ctx, got))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.Contains(t, got.Cart, uint(9))
	assert.True(t, price("2.25").Equal(got.Cart[9].Price))

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, got), ErrNotFound)
}
