package middleware

import (
	"time"

	"meta_forms/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AccessLogMiddleware ghi access log cho mỗi request qua access logger
func AccessLogMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		entry := logger.GetAccessLogger().WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": latency.Milliseconds(),
			"ip":         c.IP(),
			"request_id": c.GetRespHeader("X-Request-Id"),
		})
		if err != nil {
			entry.WithField("error", err.Error()).Warn("request")
		} else {
			entry.Info("request")
		}
		return err
	}
}
