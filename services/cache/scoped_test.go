package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedSeparatesAccounts(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryQueryCache(time.Minute)
	ana := NewScoped(shared, func() string { return "ana" })
	admin := NewScoped(shared, func() string { return "admin" })

	require.NoError(t, ana.Set(ctx, KeyMyReservations, []int{1}))

	var got []int
	found, err := admin.Get(ctx, KeyMyReservations, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, admin.Set(ctx, KeyMyReservations, []int{1, 2, 3}))
	require.NoError(t, admin.Invalidate(ctx, ""))

	found, err = ana.Get(ctx, KeyMyReservations, &got)
	require.NoError(t, err)
	assert.True(t, found, "another scope's invalidation leaves this one alone")
	assert.Equal(t, []int{1}, got)

	found, err = admin.Get(ctx, KeyMyReservations, &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScopedFollowsScopeChanges(t *testing.T) {
	ctx := context.Background()
	scope := "first"
	c := NewScoped(NewMemoryQueryCache(0), func() string { return scope })

	require.NoError(t, c.Set(ctx, KeyNotifications, "a"))
	scope = "second"

	var got string
	found, err := c.Get(ctx, KeyNotifications, &got)
	require.NoError(t, err)
	assert.False(t, found)
}
