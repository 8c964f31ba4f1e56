package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"vaultprint/internal/http/middleware"
	"vaultprint/internal/mail"
	"vaultprint/internal/service"
	"vaultprint/internal/vault"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a JSON error body.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_REQUEST", "VAULT_ERROR")
// - message: human-readable message
// - details: optional provider diagnostic, omitted when nil
func writeError(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     message,
		Code:      code,
		Details:   details,
	})
}

// writeServiceError maps print and vault failures onto HTTP responses.
// Only validation errors are 400; the rest are 500 with the upstream message.
func writeServiceError(c *fiber.Ctx, err error) error {
	var (
		verr *service.ValidationError
		aerr *vault.AuthenticationError
		rerr *vault.RetrievalError
		derr *mail.DeliveryError
	)
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, "INVALID_REQUEST", verr.Message, nil)
	case errors.As(err, &aerr):
		return writeError(c, fiber.StatusInternalServerError, "VAULT_AUTH_ERROR", aerr.Error(), nil)
	case errors.As(err, &rerr):
		return writeError(c, fiber.StatusInternalServerError, "VAULT_ERROR", rerr.Error(), nil)
	case errors.As(err, &derr):
		return writeError(c, fiber.StatusInternalServerError, "DELIVERY_ERROR", derr.Error(), derr.Details)
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			status = ferr.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request", nil)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found", nil)
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed", nil)
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large", nil)
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error", nil)
		}
	}
}
