package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"podmatch/internal/inference"
	"podmatch/internal/middleware"
)

const statusProbeTimeout = 5 * time.Second

// Server is the analysis sidecar. It answers on its own port so it can
// be run in-process during development or as a separate process in
// production. Error bodies use the {"detail": ...} shape the engine has
// always had; only the main API wraps responses in an envelope.
type Server struct {
	ollama *inference.Ollama
}

func NewServer(ollama *inference.Ollama) *Server {
	return &Server{ollama: ollama}
}

// App builds the Fiber app with the engine's four routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "PodMatch AI Engine",
		ServerHeader: "PodMatch",
	})

	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())

	app.Get("/health", s.Health)
	app.Get("/api/ai/status", s.Status)
	app.Get("/api/ai/model-info", s.ModelInfo)
	app.Post("/api/ai/analyze", s.Analyze)

	return app
}

// Health handles GET /health. It reports on the engine process itself;
// Ollama reachability is the status route's job.
func (s *Server) Health(c fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:            "healthy",
		Model:             s.ollama.Model(),
		ClientInitialized: true,
	})
}

// Status handles GET /api/ai/status.
func (s *Server) Status(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), statusProbeTimeout)
	defer cancel()

	names, err := s.ollama.Models(ctx)
	if err != nil {
		return c.JSON(StatusResponse{
			AIEngineStatus: "error",
			OllamaStatus:   "disconnected",
			Model:          s.ollama.Model(),
			ModelLoaded:    false,
		})
	}

	loaded := false
	for _, name := range names {
		if strings.Contains(name, s.ollama.Model()) {
			loaded = true
			break
		}
	}
	if !loaded {
		log.Printf("engine: model %s not pulled, available: %v", s.ollama.Model(), names)
	}

	return c.JSON(StatusResponse{
		AIEngineStatus: "running",
		OllamaStatus:   "connected",
		Model:          s.ollama.Model(),
		ModelLoaded:    loaded,
	})
}

// ModelInfo handles GET /api/ai/model-info.
func (s *Server) ModelInfo(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), statusProbeTimeout)
	defer cancel()

	names, err := s.ollama.Models(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": fmt.Sprintf("Failed to retrieve model information: %v", err),
		})
	}

	return c.JSON(ModelInfoResponse{
		Model:     s.ollama.Model(),
		AllModels: names,
		Status:    "active",
	})
}

// Analyze handles POST /api/ai/analyze. The model call can take minutes
// on CPU-only hosts; the Ollama client carries its own timeout.
func (s *Server) Analyze(c fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if strings.TrimSpace(req.GuestProfile) == "" || strings.TrimSpace(req.HostChannelData) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "guest_profile and host_channel_data are required",
		})
	}

	prompt := BuildPrompt(req.GuestProfile, req.HostChannelData)
	raw, err := s.ollama.Generate(c.Context(), prompt, 2048, 0.7)
	if err != nil {
		log.Printf("engine: generation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": fmt.Sprintf("Guest analysis failed: %v", err),
		})
	}

	log.Printf("engine: raw response (%d bytes): %.200s", len(raw), raw)
	return c.JSON(ParseAnalysis(raw))
}
