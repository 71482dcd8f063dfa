package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-history/internal/store"
)

// NewErrorHandler renders failures that escaped a handler as an error page.
// Anything that is not a *fiber.Error is logged and hidden from the client.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Something went wrong, please try again later"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		case errors.Is(err, store.ErrUnavailable):
			code = fiber.StatusServiceUnavailable
			message = "Storage is unavailable, please try again later"
			fallthrough
		default:
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Interface("request_id", c.Locals("requestid")).
				Msg("request failed")
		}

		c.Status(code)
		if rerr := c.Render("error", viewData(c, fiber.Map{
			"Status":  code,
			"Message": message,
		})); rerr != nil {
			return c.SendString(message)
		}
		return nil
	}
}
