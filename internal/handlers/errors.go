package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

const (
	msgPageNotFound   = "Page Not Found"
	msgSomethingWrong = "Something went wrong"
)

// ErrorHandler renders every error that escapes the handler chain. Client
// errors keep their message; server errors are logged and replaced by a
// generic one.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := msgSomethingWrong

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		if code == fiber.StatusNotFound {
			message = msgPageNotFound
		}
	} else if kind := apperr.KindOf(err); kind != apperr.KindInternal {
		code = kind.Status()
		message = apperr.Message(err)
	}

	if code >= fiber.StatusInternalServerError {
		attrs := []any{
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		}
		if u := auth.CurrentUser(c); u != nil {
			attrs = append(attrs, "user_id", u.ID.String())
		}
		slog.Error("unhandled server error", attrs...)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = msgSomethingWrong
	}

	// A redirect was already decided on; keep it.
	if status := c.Response().StatusCode(); status >= 300 && status < 400 &&
		len(c.Response().Header.Peek(fiber.HeaderLocation)) > 0 {
		return nil
	}

	return c.Status(code).JSON(dto.ErrorView{
		Page:        "error",
		Status:      code,
		Message:     message,
		CurrentUser: userResponse(auth.CurrentUser(c)),
	})
}

// NotFound is the catch-all for unmatched paths.
func NotFound(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound, msgPageNotFound)
}

// MethodNotAllowed answers known paths called with an unsupported verb.
func MethodNotAllowed(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed")
}
