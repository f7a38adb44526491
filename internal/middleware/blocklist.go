// Package middleware holds fiber middleware for the resolver service.
package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mwenda/tambua/internal/clientip"
	"github.com/mwenda/tambua/internal/httpx"
	"github.com/mwenda/tambua/internal/metrics"
)

// IPBlocklist rejects requests whose extracted client IP matches the
// operator blocklist. With no rules configured the middleware is a no-op.
func IPBlocklist(ex *clientip.Extractor, bl *clientip.Blocklist, m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		if bl.Empty() {
			return c.Next()
		}
		ip := ex.IPAddress(httpx.RequestHeaders(c.Request()))
		if bl.Contains(ip) {
			if m != nil {
				m.BlockedIP()
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}
		return c.Next()
	}
}
