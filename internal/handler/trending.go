package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"podmatch/internal/middleware"
	"podmatch/internal/model"
	"podmatch/internal/service"
)

type TrendingHandler struct {
	svc *service.TrendingService
}

func NewTrendingHandler(svc *service.TrendingService) *TrendingHandler {
	return &TrendingHandler{svc: svc}
}

// List handles GET /api/trending-topics.
func (h *TrendingHandler) List(c fiber.Ctx) error {
	field := middleware.ValidateField(fiber.Query[string](c, "field"))
	region := middleware.ValidateRegion(fiber.Query[string](c, "region"))
	limit := fiber.Query[int](c, "limit")

	topics, err := h.svc.List(c.Context(), field, region, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list trending topics")
	}
	if topics == nil {
		topics = []model.TrendingTopic{}
	}

	return c.JSON(topics)
}

// Refresh handles POST /api/trending-topics/refresh. The body is
// optional: {"region": "us"} refreshes one region, no body refreshes
// every default region.
func (h *TrendingHandler) Refresh(c fiber.Ctx) error {
	var req struct {
		Region string `json:"region"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	region := middleware.ValidateRegion(req.Region)

	start := time.Now()

	var (
		n   int
		err error
	)
	if region != "" {
		n, err = h.svc.Refresh(c.Context(), region)
	} else {
		region = "all"
		n, err = h.svc.RefreshAll(c.Context(), nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to refresh trending topics")
	}

	Metrics.TrendingRefreshDuration.Observe(time.Since(start).Seconds())

	return c.JSON(fiber.Map{
		"success":         true,
		"region":          region,
		"topicsRefreshed": n,
	})
}
