package layout

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ssargent/wowformats/pkg/metrics"
	"github.com/ssargent/wowformats/pkg/schema"
	"github.com/ssargent/wowformats/pkg/version"
)

type cacheKey struct {
	schema  *schema.Schema
	version version.Version
}

// Cache memoizes layouts per (schema, version). Entries are never evicted.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	layouts map[cacheKey]*Layout

	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used for cache misses.
func WithLogger(logger logrus.FieldLogger) CacheOption {
	return func(c *Cache) { c.logger = logger }
}

// WithMetrics records hits, misses and resolve time.
func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) { c.metrics = m }
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Cache{
		layouts: make(map[cacheKey]*Layout),
		logger:  discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the layout of s for v, computing and storing it on first
// use. Failed computations are not cached.
func (c *Cache) Resolve(s *schema.Schema, v version.Version) (*Layout, error) {
	key := cacheKey{schema: s, version: v}

	c.mu.RLock()
	l, ok := c.layouts[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.RecordLayoutHit()
		return l, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have stored it while we waited for the lock.
	if l, ok := c.layouts[key]; ok {
		c.metrics.RecordLayoutHit()
		return l, nil
	}

	start := time.Now()
	l, err := Compute(s, v)
	if err != nil {
		c.metrics.RecordLayoutError()
		c.logger.WithError(err).WithField("version", v.String()).Debug("layout resolution failed")
		return nil, err
	}
	c.layouts[key] = l
	c.metrics.RecordLayoutMiss(time.Since(start), len(c.layouts))

	c.logger.WithFields(logrus.Fields{
		"schema":  s.Name,
		"version": v.String(),
		"fields":  l.FieldCount,
		"size":    l.Size,
	}).Debug("layout computed")

	return l, nil
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layouts)
}
