package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"customerSegmentation/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records latency and count per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				// the error handler has not written yet; predict what it will send
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}

			metrics.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.RequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}
