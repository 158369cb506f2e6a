package http

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/maintenance-report-service/internal/config"
	"github.com/spec-kit/maintenance-report-service/internal/observability"
	apperrors "github.com/spec-kit/maintenance-report-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling,
// request logging and rate limiting.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, timeout time.Duration, rateCfg config.RateLimitConfig) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	// The error middleware must wrap everything below so that errors
	// returned by later middlewares still produce the JSON envelope.
	app.Use(errorHandlingMiddleware(logger))
	if rateCfg.RequestsPerSecond > 0 {
		app.Use(rateLimitMiddleware(rateCfg))
	}
	app.Use(observability.RequestLogger(logger))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig) fiber.Handler {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return apperrors.NewDomainError("RATE_LIMITED", "too many requests",
				http.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
