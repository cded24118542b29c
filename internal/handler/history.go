package handler

import (
	"github.com/gofiber/fiber/v3"

	"podmatch/internal/middleware"
	"podmatch/internal/model"
	"podmatch/internal/service"
)

type HistoryHandler struct {
	svc *service.AnalysisService
}

func NewHistoryHandler(svc *service.AnalysisService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// ByChannel handles GET /api/analysis-history/:channelId and its
// GET /api/analyses/:channelId alias. An unknown channel yields an
// empty list, not a 404.
func (h *HistoryHandler) ByChannel(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}

	limit := fiber.Query[int](c, "limit")

	history, err := h.svc.History(c.Context(), channelID, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load analysis history")
	}
	if history == nil {
		history = []model.Analysis{}
	}

	return c.JSON(history)
}

// Recent handles GET /api/analyses.
func (h *HistoryHandler) Recent(c fiber.Ctx) error {
	limit := fiber.Query[int](c, "limit")

	history, err := h.svc.Recent(c.Context(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load recent analyses")
	}
	if history == nil {
		history = []model.Analysis{}
	}

	return c.JSON(history)
}
