package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRecord(t *testing.T) {
	registry := NewRegistry()

	registry.Record("GET /ping", 2*time.Millisecond)
	registry.Record("GET /ping", 6*time.Millisecond)
	registry.Record("POST /api/v1/games", 10*time.Millisecond)

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 2)

	ping := snapshot["GET /ping"]
	assert.EqualValues(t, 2, ping.Count)
	assert.InDelta(t, 8, ping.TotalMs, 0.01)
	assert.InDelta(t, 6, ping.MaxMs, 0.01)
}

func TestSnapshotIsACopy(t *testing.T) {
	registry := NewRegistry()
	registry.Record("GET /ping", time.Millisecond)

	snapshot := registry.Snapshot()
	registry.Record("GET /ping", time.Millisecond)

	assert.EqualValues(t, 1, snapshot["GET /ping"].Count)
	assert.EqualValues(t, 2, registry.Snapshot()["GET /ping"].Count)
}

func TestRequestTimerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	registry := NewRegistry()
	router := gin.New()
	router.Use(RequestTimer(registry))
	router.GET("/games/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/games/7", nil)
	router.ServeHTTP(w, req)

	snapshot := registry.Snapshot()
	stats, ok := snapshot["GET /games/:id"]
	require.True(t, ok, "timings keyed by route pattern, not raw path")
	assert.EqualValues(t, 1, stats.Count)

	// Unmatched routes land in a catch-all bucket.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	router.ServeHTTP(w, req)

	_, ok = registry.Snapshot()["GET unmatched"]
	assert.True(t, ok)
}
