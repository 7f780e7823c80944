package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"partsdemand/metrics"
)

// RequestMetrics records request counts and latency per matched route.
func RequestMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	route := "unmatched"
	if r := c.Route(); r != nil && r.Path != "" {
		route = r.Path
	}

	metrics.HTTPRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
	metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	return err
}
