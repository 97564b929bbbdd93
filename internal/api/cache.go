package api

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vitalitypact/vitalitypact/pkg/config"
	"github.com/vitalitypact/vitalitypact/pkg/health"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

// AnalysisCache is a thread-safe LRU cache of trend analyses keyed by user
// and window. Writes for a user invalidate all of that user's entries, and
// an entry expires when the calendar day it was computed on ends.
type AnalysisCache struct {
	mu      sync.Mutex
	maxSize int
	now     func() time.Time
	entries map[string]cachedAnalysis
	order   []string // oldest first
}

type cachedAnalysis struct {
	day      time.Time
	analysis trend.Analysis
}

// CacheOption configures an AnalysisCache.
type CacheOption func(*AnalysisCache)

// WithCacheClock sets the time source that decides when entries expire.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *AnalysisCache) { c.now = now }
}

// NewAnalysisCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 128.
func NewAnalysisCache(maxSize int, opts ...CacheOption) *AnalysisCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	c := &AnalysisCache{
		maxSize: maxSize,
		now:     time.Now,
		entries: make(map[string]cachedAnalysis),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAnalysisCacheFromEnv creates a cache with size from ANALYSIS_CACHE_SIZE env var.
func NewAnalysisCacheFromEnv() *AnalysisCache {
	size := 128
	if v := os.Getenv("ANALYSIS_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewAnalysisCache(size)
}

// userPrefix uses the storage key so IDs that share a namespace share entries.
func userPrefix(userID string) string {
	return config.UserKey(userID) + "\x00"
}

func cacheKey(userID string, days int) string {
	return userPrefix(userID) + strconv.Itoa(days)
}

// Get retrieves an analysis from the cache.
func (c *AnalysisCache) Get(userID string, days int) (trend.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, days)
	e, ok := c.entries[key]
	if !ok {
		return trend.Analysis{}, false
	}
	if !e.day.Equal(health.StartOfDay(c.now())) {
		c.remove(key)
		return trend.Analysis{}, false
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return e.analysis, true
}

// Put adds an analysis to the cache, evicting the oldest if full.
func (c *AnalysisCache) Put(userID string, days int, a trend.Analysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, days)
	e := cachedAnalysis{day: health.StartOfDay(c.now()), analysis: a}
	if _, ok := c.entries[key]; ok {
		c.entries[key] = e
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = e
	c.order = append(c.order, key)
}

// Invalidate drops every cached analysis for userID.
func (c *AnalysisCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := userPrefix(userID)
	kept := c.order[:0]
	for _, k := range c.order {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// Len returns the number of cached analyses.
func (c *AnalysisCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *AnalysisCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *AnalysisCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
