package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalitypact/vitalitypact/internal/ingestion"
	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/internal/store"
	"github.com/vitalitypact/vitalitypact/pkg/trend"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func TestAnalysisCacheExpiresAtMidnight(t *testing.T) {
	c := &testClock{t: time.Date(2026, 6, 1, 23, 50, 0, 0, time.UTC)}
	cache := NewAnalysisCache(4, WithCacheClock(c.now))

	cache.Put("alice", 7, trend.Analysis{RecentDays: 3})
	a, ok := cache.Get("alice", 7)
	require.True(t, ok)
	assert.Equal(t, 3, a.RecentDays)

	c.t = c.t.Add(20 * time.Minute)
	_, ok = cache.Get("alice", 7)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestAnalysisCacheSeparatesUsers(t *testing.T) {
	cache := NewAnalysisCache(4)
	cache.Put("Alice", 7, trend.Analysis{RecentDays: 5})

	_, ok := cache.Get("alice", 7)
	assert.False(t, ok)
	_, ok = cache.Get("Alice", 1)
	assert.False(t, ok)

	cache.Put("alice", 7, trend.Analysis{RecentDays: 1})
	cache.Invalidate("alice")
	a, ok := cache.Get("Alice", 7)
	require.True(t, ok)
	assert.Equal(t, 5, a.RecentDays)
}

func TestAnalysisCacheEvictsOldest(t *testing.T) {
	cache := NewAnalysisCache(2)
	cache.Put("a", 7, trend.Analysis{})
	cache.Put("b", 7, trend.Analysis{})
	_, _ = cache.Get("a", 7)
	cache.Put("c", 7, trend.Analysis{})

	_, ok := cache.Get("b", 7)
	assert.False(t, ok)
	_, ok = cache.Get("a", 7)
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())
}

func TestAnalysisEndpointAcrossMidnight(t *testing.T) {
	c := &testClock{t: time.Date(2026, 6, 1, 21, 0, 0, 0, time.UTC)}
	backend := store.NewProvider(store.NewLocalStorage(t.TempDir()), store.WithClock(c.now))
	svc := ingestion.NewService(backend, ingestion.WithClock(c.now))
	h := NewHandler(svc, NewAnalysisCache(8, WithCacheClock(c.now)), logger.Nop())
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	base := srv.URL + "/api/v1/users/alice"

	resp, _ := do(t, http.MethodPost, base+"/days", fullDayJSON)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, http.MethodGet, base+"/analysis?days=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.Equal(t, float64(1), body["recent_days"])

	resp, _ = do(t, http.MethodGet, base+"/analysis?days=1", "")
	assert.Equal(t, "hit", resp.Header.Get("X-Cache"))

	c.t = c.t.AddDate(0, 0, 3)
	resp, body = do(t, http.MethodGet, base+"/analysis?days=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))
	assert.Equal(t, float64(0), body["recent_days"])
}
