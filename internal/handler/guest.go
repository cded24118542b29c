package handler

import (
	"github.com/gofiber/fiber/v3"

	"podmatch/internal/middleware"
	"podmatch/internal/service"
)

type GuestHandler struct {
	svc *service.GuestService
}

func NewGuestHandler(svc *service.GuestService) *GuestHandler {
	return &GuestHandler{svc: svc}
}

// List handles GET /api/trending-guests and its GET /api/guests alias.
// Unknown filter values are dropped, not rejected.
func (h *GuestHandler) List(c fiber.Ctx) error {
	field := middleware.ValidateField(fiber.Query[string](c, "field"))
	region := middleware.ValidateRegion(fiber.Query[string](c, "region"))
	limit := fiber.Query[int](c, "limit")

	guests, err := h.svc.List(c.Context(), field, region, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list guests")
	}

	return c.JSON(guests)
}

// Search handles GET /api/search-guests and its GET /api/guests/search
// alias. Short queries return an empty list rather than an error.
func (h *GuestHandler) Search(c fiber.Ctx) error {
	query := middleware.ValidateSearchQuery(fiber.Query[string](c, "query"))
	limit := fiber.Query[int](c, "limit")

	suggestions, err := h.svc.Search(c.Context(), query, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to search guests")
	}

	return c.JSON(suggestions)
}
