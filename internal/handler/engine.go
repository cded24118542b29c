package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"podmatch/internal/engine"
	"podmatch/internal/middleware"
	"podmatch/internal/service"
)

// EngineHandler proxies the optional AI engine sidecar. The engine's
// snake_case wire format passes through untouched; only errors are
// rewrapped in the API envelope.
type EngineHandler struct {
	client  *engine.Client
	manager *engine.Manager
}

func NewEngineHandler(client *engine.Client, manager *engine.Manager) *EngineHandler {
	return &EngineHandler{client: client, manager: manager}
}

// Analyze handles POST /api/ai/analyze. The first call may spawn the
// engine process; later calls reuse the latched outcome.
func (h *EngineHandler) Analyze(c fiber.Ctx) error {
	var req engine.AnalyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.GuestProfile = strings.TrimSpace(req.GuestProfile)
	req.HostChannelData = strings.TrimSpace(req.HostChannelData)
	if req.GuestProfile == "" || req.HostChannelData == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "guest_profile and host_channel_data are required")
	}

	if err := h.manager.Ensure(c.Context()); err != nil {
		if errors.Is(err, engine.ErrUnavailable) {
			return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "AI engine is not running")
		}
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "AI engine failed to start")
	}

	res, err := h.client.Analyze(c.Context(), &req)
	if err != nil {
		Metrics.AdapterFailures.WithLabelValues("engine").Inc()
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "AI engine analysis failed")
	}

	Metrics.AnalysesTotal.WithLabelValues(service.ProviderEngine).Inc()

	return c.JSON(fiber.Map{
		"success":  true,
		"analysis": res,
	})
}

// Status handles GET /api/ai/status. A down engine is a normal state,
// not an error, so the route always answers 200.
func (h *EngineHandler) Status(c fiber.Ctx) error {
	st, err := h.client.Status(c.Context())
	if err != nil {
		return c.JSON(engine.StatusResponse{
			AIEngineStatus: "stopped",
			OllamaStatus:   "unknown",
		})
	}
	return c.JSON(st)
}

// Health handles GET /api/ai/health.
func (h *EngineHandler) Health(c fiber.Ctx) error {
	if !h.client.Healthy(c.Context()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
	}
	return c.JSON(fiber.Map{"status": "up"})
}
