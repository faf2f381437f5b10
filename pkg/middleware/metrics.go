package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"inventory-system/pkg/metrics"
)

// Metrics пишет длительность запроса в гистограмму по шаблону маршрута, а не по URL.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequestLatency.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
