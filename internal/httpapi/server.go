package httpapi

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/clinical/chestpain-copilot/pkg/config"
	"github.com/clinical/chestpain-copilot/pkg/progress"
)

// ErrorResponse is the standard error envelope for boundary failures,
// adapted from the teacher's middleware.ErrorResponse.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// New builds the Fiber app, wiring middleware, metrics, rate limiting and
// routes, the way the teacher's cmd/server/main.go assembles its app.
func New(cfg *config.Config, handlers *Handlers, bus progress.Bus) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Chest-Pain Clinical Copilot",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(ErrorResponse{Success: false, Error: err.Error(), Code: code})
		},
	})

	app.Use(cors.New())
	app.Use(logger.New())

	prom := fiberprometheus.New("chestpain-copilot")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitGlobalMax,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"success": false, "error": "rate limit exceeded"})
		},
	}))

	assessLimiter := limiter.New(limiter.Config{
		Max:        cfg.RateLimitAssessmentMax,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"success": false, "error": "assessment rate limit exceeded"})
		},
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "live"})
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	app.Post("/assess", assessLimiter, handlers.Assess)
	app.Post("/vitals", handlers.Vitals)

	progressHandler := NewProgressHandler(bus)
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/progress", websocket.New(progressHandler.Handle))

	return app
}
