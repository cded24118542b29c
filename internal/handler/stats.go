package handler

import (
	"github.com/gofiber/fiber/v3"

	"podmatch/internal/middleware"
	"podmatch/internal/storage"
)

type StatsHandler struct {
	store storage.Store
}

func NewStatsHandler(store storage.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	stats, err := h.store.Stats(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch statistics")
	}

	return c.JSON(stats)
}
