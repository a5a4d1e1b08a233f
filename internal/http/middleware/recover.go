package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Recover turns handler panics into a 500 handled by the app's error
// handler and logs the panic with its stack.
func Recover(logger *slog.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.LogAttrs(c.UserContext(), slog.LevelError, "panic_recovered",
				slog.String("request_id", RequestIDFromCtx(c)),
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("panic", fmt.Sprint(e)),
				slog.String("stack", string(debug.Stack())),
			)
		},
	})
}
