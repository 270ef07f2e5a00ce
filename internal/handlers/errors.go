package handlers

import (
	"errors"

	"storefront/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

var kindStatus = map[apperrors.Kind]int{
	apperrors.Validation:   fiber.StatusBadRequest,
	apperrors.Unauthorized: fiber.StatusUnauthorized,
	apperrors.Forbidden:    fiber.StatusForbidden,
	apperrors.NotFound:     fiber.StatusNotFound,
	apperrors.Conflict:     fiber.StatusConflict,
}

// ErrorHandler renders errors returned by handlers and middleware. It is the
// only place an error kind becomes an HTTP status.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(errorResponse{Message: fe.Message})
		}

		appErr, ok := apperrors.As(err)
		status, known := kindStatus[apperrors.KindOf(err)]
		if !ok || !known {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request failed")
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Message: "Internal server error"})
		}

		return c.Status(status).JSON(errorResponse{
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
	}
}

// parseBody decodes a JSON request body into out. An empty body decodes as an
// empty object.
func parseBody(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return apperrors.Wrap(apperrors.Validation, err, "Invalid request body")
	}
	return nil
}
