// Package webapi provides the HTTP API of the wallet ledger. It is organized
// into sub-packages:
// - wallet: balance, movements, status changes and per-wallet ledger queries
// - transaction: single transactions, reversal and the pending sweep
// - common: response envelopes and error mapping
package webapi

import (
	"errors"
	"strings"

	_ "github.com/amirasaad/walletledger/docs"
	"github.com/amirasaad/walletledger/pkg/app"
	"github.com/amirasaad/walletledger/webapi/common"
	transactionweb "github.com/amirasaad/walletledger/webapi/transaction"
	walletweb "github.com/amirasaad/walletledger/webapi/wallet"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
)

// SetupApp initializes Fiber with the middleware stack and all routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	fiberApp.Use(requestid.New())
	if a.Config.RateLimit != nil && a.Config.RateLimit.MaxRequests > 0 {
		fiberApp.Use(limiter.New(limiter.Config{
			Max:          a.Config.RateLimit.MaxRequests,
			Expiration:   a.Config.RateLimit.Window,
			KeyGenerator: clientIP,
			LimitReached: func(c *fiber.Ctx) error {
				return common.ProblemDetailsJSON(
					c,
					"Too Many Requests",
					errors.New("rate limit exceeded"),
					fiber.StatusTooManyRequests,
				)
			},
		}))
	}
	fiberApp.Use(recover.New())
	if a.Config.IsDevelopment() {
		fiberApp.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
		}))
	}

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Wallet ledger API is running! 🚀")
	})

	walletweb.Routes(fiberApp, a.WalletService, a.LedgerService, a.Config)
	transactionweb.Routes(fiberApp, a.LedgerService)
	return fiberApp
}

// clientIP keys the rate limiter. Behind a proxy the first X-Forwarded-For
// hop wins, then X-Real-IP, then the socket address.
func clientIP(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		if first, _, found := strings.Cut(forwardedFor, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwardedFor)
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
