package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"podmatch/internal/middleware"
	"podmatch/internal/model"
	"podmatch/internal/service"
	"podmatch/pkg/channelid"
)

type AnalyzeHandler struct {
	svc *service.AnalysisService
}

func NewAnalyzeHandler(svc *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze handles POST /api/analyze-guest and its POST /api/analyze alias.
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	var req model.AnalyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	// Validate guestName
	guestName, errMsg := middleware.ValidateGuestName(req.GuestName)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.GuestName = guestName

	// Validate channelUrl
	channelURL, errMsg := middleware.ValidateChannelURL(req.ChannelURL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.ChannelURL = channelURL

	// Optional fields are normalized or silently dropped
	req.Field = middleware.ValidateField(req.Field)
	req.Region = middleware.ValidateRegion(req.Region)

	period, errMsg := middleware.ValidateTrendingPeriod(req.TrendingPeriod)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, errMsg)
	}
	req.TrendingPeriod = period

	res, err := h.svc.Analyze(c.Context(), &req)
	if err != nil {
		if errors.Is(err, channelid.ErrNotChannel) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "channelUrl must reference a YouTube channel")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to analyze guest")
	}

	recordAnalysisMetrics(res)

	return c.JSON(fiber.Map{
		"success":  true,
		"analysis": res,
	})
}

// recordAnalysisMetrics flushes per-analysis bookkeeping into Prometheus.
// The service layer stays free of metric imports.
func recordAnalysisMetrics(res *model.AnalysisResult) {
	Metrics.AnalysesTotal.WithLabelValues(res.Provider).Inc()
	if res.ChannelCacheHit {
		Metrics.CacheHits.Inc()
	} else {
		Metrics.CacheMisses.Inc()
	}
	for _, adapter := range res.FailedAdapters {
		Metrics.AdapterFailures.WithLabelValues(adapter).Inc()
	}
}
