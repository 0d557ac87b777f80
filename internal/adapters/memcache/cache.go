// Package memcache is an in-process ports.CacheService used when Valkey is
// not reachable.
package memcache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/samirrijal/waypath/internal/pkg/metrics"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache wraps go-cache.
type Cache struct {
	c *gocache.Cache
}

// New creates a cache whose entries default to ttl and are swept every
// cleanup interval.
func New(ttl, cleanup time.Duration) *Cache {
	return &Cache{c: gocache.New(ttl, cleanup)}
}

func (m *Cache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrMiss
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return v.([]byte), nil
}

func (m *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := gocache.DefaultExpiration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Cache) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len returns the number of cached items, expired ones included.
func (m *Cache) Len() int { return m.c.ItemCount() }
