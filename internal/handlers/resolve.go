package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mwenda/tambua/internal/clientinfo"
	"github.com/mwenda/tambua/internal/clientip"
	"github.com/mwenda/tambua/internal/httpx"
	"github.com/mwenda/tambua/internal/metrics"
)

// Handler carries the resolver dependencies shared by the API endpoints.
type Handler struct {
	Service   *clientinfo.Service
	Blocklist *clientip.Blocklist
	Metrics   *metrics.Metrics
}

// ResolveResponse is the /api/resolve envelope: the assembled client record
// plus the blocklist verdict and, when the payload names a website, a
// deterministic visitor ID.
type ResolveResponse struct {
	clientinfo.ClientInfo
	VisitorID string `json:"visitorId,omitempty"`
	Blocked   bool   `json:"blocked"`
}

// HandleResolve resolves the calling client's identity. The optional JSON
// body carries payload overrides (ip, userAgent, browser, os, device,
// screen); any field the pipeline cannot determine is absent, never an error.
func (h *Handler) HandleResolve(c fiber.Ctx) error {
	var payload clientinfo.Payload
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON payload",
			})
		}
	}

	headers := httpx.RequestHeaders(c.Request())
	info := h.Service.Resolve(headers, payload)

	resp := ResolveResponse{ClientInfo: info}
	if h.Blocklist.Contains(info.IP) {
		resp.Blocked = true
		if h.Metrics != nil {
			h.Metrics.BlockedIP()
		}
	}
	if payload.Website != nil && *payload.Website != "" && info.IP != "" {
		resp.VisitorID = clientinfo.VisitorID(*payload.Website, info.IP, info.UserAgent).String()
	}

	return c.JSON(resp)
}

// HandleLookup resolves the location of an explicit IP, bypassing the
// provider-header tier (the edge headers describe this connection, not the
// looked-up address).
func (h *Handler) HandleLookup(c fiber.Ctx) error {
	ip := c.Params("ip")
	loc := h.Service.Geo.Location(ip, httpx.RequestHeaders(c.Request()), true)
	if loc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No location found",
		})
	}
	return c.JSON(loc)
}

// HandleHealth is the liveness endpoint.
func HandleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
