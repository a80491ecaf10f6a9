package metrics

import (
	"strconv"
	"time"

	appmetrics "gomart/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Middleware records request counts and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			appmetrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, path).
				Observe(time.Since(start).Seconds())
			appmetrics.HTTPRequestsTotal.
				WithLabelValues(c.Request().Method, path, strconv.Itoa(c.Response().Status)).
				Inc()

			return err
		}
	}
}
