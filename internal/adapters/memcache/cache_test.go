package memcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/waypath/internal/adapters/memcache"
)

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := memcache.New(time.Minute, time.Minute)

	_, err := c.Get(ctx, "itinerary:1")
	assert.ErrorIs(t, err, memcache.ErrMiss)

	value := []byte(`{"city":"Kathmandu"}`)
	require.NoError(t, c.Set(ctx, "itinerary:1", value, 60))
	value[0] = 'X'

	got, err := c.Get(ctx, "itinerary:1")
	require.NoError(t, err)
	assert.Equal(t, `{"city":"Kathmandu"}`, string(got))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "itinerary:1"))
	_, err = c.Get(ctx, "itinerary:1")
	assert.ErrorIs(t, err, memcache.ErrMiss)
}

func TestCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := memcache.New(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 1))
	time.Sleep(1100 * time.Millisecond)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, memcache.ErrMiss)
}
