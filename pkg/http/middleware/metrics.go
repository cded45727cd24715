package middleware

import (
	"time"

	applogger "MiniForecast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HTTPRecorder receives per-request observations.
type HTTPRecorder interface {
	InFlight(route, method string, delta float64)
	ObserveHTTP(route, method string, status int, d time.Duration, size int64)
}

// Metrics records request metrics with low cardinality labels and logs
// server errors and slow requests.
func Metrics(rec HTTPRecorder, l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := routeLabel(c)
			method := c.Request().Method

			rec.InFlight(route, method, 1)
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			duration := time.Since(start)
			rec.ObserveHTTP(route, method, res.Status, duration, res.Size)
			rec.InFlight(route, method, -1)

			if l == nil {
				return nil
			}
			// Log 5xx as errors
			if res.Status >= 500 {
				l.Error("http request failed",
					applogger.String("route", route),
					applogger.String("method", method),
					applogger.Int("status", res.Status),
					applogger.Duration("duration_ms", duration),
					applogger.Int64("bytes", res.Size),
				)
				return nil
			}
			// Log slow requests as warnings
			if slowThreshold > 0 && duration >= slowThreshold {
				l.Warn("http request slow",
					applogger.String("route", route),
					applogger.String("method", method),
					applogger.Int("status", res.Status),
					applogger.Duration("duration_ms", duration),
					applogger.Int64("bytes", res.Size),
				)
			}
			return nil
		}
	}
}

// routeLabel prefers the registered route template over the raw URL to keep
// label cardinality low. Unmatched requests share a single label.
func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}
