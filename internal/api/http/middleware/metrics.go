package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that matched no route, keeping the label
// set bounded.
const unmatchedRoute = "unmatched"

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Metrics measures request durations per route.
type Metrics struct {
	observer RequestObserver
}

// NewMetrics creates a new Metrics middleware.
func NewMetrics(observer RequestObserver) *Metrics {
	return &Metrics{observer: observer}
}

// Handle records the duration of the request under its route pattern.
func (m *Metrics) Handle(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	m.observer.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
}
