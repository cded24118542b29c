package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"podmatch/internal/engine"
	"podmatch/internal/storage"
)

type HealthHandler struct {
	store   storage.Store
	rdb     *redis.Client
	engine  *engine.Client
	startAt time.Time
}

func NewHealthHandler(store storage.Store, rdb *redis.Client, eng *engine.Client) *HealthHandler {
	return &HealthHandler{
		store:   store,
		rdb:     rdb,
		engine:  eng,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live — liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready — readiness probe with dependency
// checks. Redis and the engine are optional: a disabled cache or a
// stopped engine never degrades readiness, only an unreachable store or
// an unreachable configured Redis does.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	checks := make(fiber.Map)
	overallStatus := "healthy"

	// Store check
	checks["database"] = checkStore(ctx, h.store)
	if dbCheck, ok := checks["database"].(fiber.Map); ok {
		if dbCheck["status"] != "up" {
			overallStatus = "degraded"
		}
	}

	// Redis check
	checks["redis"] = checkRedis(ctx, h.rdb)
	if redisCheck, ok := checks["redis"].(fiber.Map); ok {
		st := redisCheck["status"]
		if st != "up" && st != "disabled" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	// Engine check — informational only
	checks["engine"] = checkEngine(ctx, h.engine)

	uptimeSeconds := int(time.Since(h.startAt).Seconds())

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": uptimeSeconds,
		"version":        "1.0.0",
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(resp)
}

func checkStore(ctx context.Context, store storage.Store) fiber.Map {
	start := time.Now()
	err := store.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}

func checkRedis(ctx context.Context, rdb *redis.Client) fiber.Map {
	if rdb == nil {
		return fiber.Map{
			"status": "disabled",
		}
	}

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}

func checkEngine(ctx context.Context, eng *engine.Client) fiber.Map {
	if eng == nil {
		return fiber.Map{
			"status": "disabled",
		}
	}
	if !eng.Healthy(ctx) {
		return fiber.Map{
			"status": "down",
		}
	}
	return fiber.Map{
		"status": "up",
	}
}
