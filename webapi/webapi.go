// Package webapi provides the HTTP API for the USDT purchase page.
// It is organized into sub-packages:
// - quote: quote, form validation, price and config endpoints
// - deposit: deposit session endpoints
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/usdtgate/pkg/app"
	"github.com/amirasaad/usdtgate/webapi/common"
	depositweb "github.com/amirasaad/usdtgate/webapi/deposit"
	quoteweb "github.com/amirasaad/usdtgate/webapi/quote"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName: "usdtgate",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	// Rate limiting keys on the first X-Forwarded-For hop when behind a
	// proxy, then X-Real-IP, then the direct IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				first, _, _ := strings.Cut(forwardedFor, ",")
				return strings.TrimSpace(first)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("USDT TRC20 purchase API is running! 🚀")
	})

	if m := a.Deps.Metrics; m != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	// Debug endpoint to list all routes
	fiberApp.Get("/debug/routes", func(c *fiber.Ctx) error {
		routes := fiberApp.GetRoutes(true)
		routeList := make([]map[string]string, 0, len(routes))
		for _, route := range routes {
			routeList = append(routeList, map[string]string{
				"method": route.Method,
				"path":   route.Path,
			})
		}
		return c.JSON(routeList)
	})

	quoteweb.Routes(fiberApp, a)
	depositweb.Routes(fiberApp, a)
	return fiberApp
}
