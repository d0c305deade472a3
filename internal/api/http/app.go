package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-outlook/internal/assistant"
	"github.com/i474232898/weather-outlook/internal/store"
	"github.com/i474232898/weather-outlook/internal/weather"
	"github.com/i474232898/weather-outlook/pkg/log"
)

const serviceName = "weather-outlook"

// NewApp builds the Fiber app with the shared error handler and middleware.
// Every request inherits ctx's values as its user context, so handlers log
// through the logger it carries. Cancelling ctx does not cancel requests.
func NewApp(ctx context.Context, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute,
		ErrorHandler:          errorHandler,
	})

	if accessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	reqCtx := context.WithoutCancel(ctx)
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(reqCtx)
		return c.Next()
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	return app
}

// errorHandler renders every error as {"error":true,"message":...}. The
// message is the user-facing text; the diagnostic goes to the log.
func errorHandler(c *fiber.Ctx, err error) error {
	code, message := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		log.FromCtx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Int("status", code).Msg("request failed")
	} else {
		log.FromCtx(c.UserContext()).Debug().Err(err).Str("path", c.Path()).Int("status", code).Msg("request rejected")
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, "outlook not found"
	case errors.Is(err, assistant.ErrEmptyMessage):
		return fiber.StatusBadRequest, "message must not be empty"
	case errors.Is(err, assistant.ErrBusy):
		return fiber.StatusConflict, "a reply is still pending"
	case errors.Is(err, assistant.ErrNotReady):
		return fiber.StatusConflict, "no weather data loaded"
	}

	var we *weather.Error
	if errors.As(err, &we) {
		return kindStatus(we.Kind), we.UserMessage()
	}

	return fiber.StatusInternalServerError, "internal server error"
}

func kindStatus(kind weather.Kind) int {
	switch kind {
	case weather.KindNotFound:
		return fiber.StatusNotFound
	case weather.KindMissingInput, weather.KindDateOutOfRange:
		return fiber.StatusBadRequest
	case weather.KindInvalidRequest:
		return fiber.StatusUnprocessableEntity
	case weather.KindUpstreamUnavailable:
		return fiber.StatusServiceUnavailable
	case weather.KindPreconditionFailed:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadGateway
	}
}
