package handler

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

//go:embed dashboard.html
var dashboardHTML string

// Dashboard serves the embedded single-page UI at GET /.
func Dashboard(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(dashboardHTML)
}
