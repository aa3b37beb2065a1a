package middleware

import (
	"time"

	"toko/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// RequestID assigns an X-Request-ID to every request, reusing the caller's header when present.
func RequestID() fiber.Handler {
	return requestid.New()
}

// AccessLog copies the request id onto the user context, so that logger.FromCtx tags
// service logs with it, and emits one structured line per request. It must run after RequestID.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), reqID))

		err := c.Next()

		logger.FromCtx(c.UserContext()).Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
