package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"vaultprint/internal/logging"
)

// Logger is a middleware that logs each HTTP request in JSON format to stdout.
// Required fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
// - ts
func Logger(loc *time.Location) fiber.Handler {
	return logRequests(logging.Stdout(loc))
}

// LoggerWithWriter is Logger writing to w instead of stdout.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return logRequests(logging.New(w, loc))
}

func logRequests(log *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// The global ErrorHandler has not run yet, so derive the status from err.
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		entry := map[string]any{
			"msg":        "http_request",
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		}
		if status >= fiber.StatusInternalServerError {
			entry["level"] = "error"
		}
		log.Write(entry)

		return err
	}
}
