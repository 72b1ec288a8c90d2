package middleware

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gin-gonic/gin"
)

// RouteStats holds timing aggregates for a single route.
type RouteStats struct {
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	MaxMs   float64 `json:"max_ms"`
}

// Registry accumulates per-route request timings.
type Registry struct {
	mu     sync.Mutex
	routes map[string]*RouteStats
}

// NewRegistry creates an empty timing registry.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]*RouteStats)}
}

// GlobalRegistry backs the /metrics endpoint.
var GlobalRegistry = NewRegistry()

// Record adds one observation for a route.
func (r *Registry) Record(route string, elapsed time.Duration) {
	ms := float64(elapsed.Microseconds()) / 1000

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.routes[route]
	if !ok {
		stats = &RouteStats{}
		r.routes[route] = stats
	}
	stats.Count++
	stats.TotalMs += ms
	if ms > stats.MaxMs {
		stats.MaxMs = ms
	}
}

// Snapshot returns a copy of the current per-route aggregates.
func (r *Registry) Snapshot() map[string]RouteStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]RouteStats, len(r.routes))
	for route, stats := range r.routes {
		out[route] = *stats
	}
	return out
}

// RequestTimer is a gin middleware that records request durations into the
// registry, keyed by method and route pattern, and logs each request.
func RequestTimer(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched" // 404s and the like
		}
		route = c.Request.Method + " " + route
		registry.Record(route, elapsed)

		log.WithFields(log.Fields{
			"route":   route,
			"status":  c.Writer.Status(),
			"elapsed": elapsed.String(),
		}).Debug("request")
	}
}
