package main

import (
	"time"

	"meta_forms/internal/api/middleware"
	"meta_forms/internal/global"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// newFiberApp tạo fiber app với bộ middleware nền: recover, requestid,
// cors, rate limiter và access log.
func newFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "meta_forms",
		BodyLimit:    int(global.ServerConfig.UploadMaxBytes),
		ReadTimeout:  30 * time.Second,
		// Stream tiến độ job giữ kết nối lâu, không đặt WriteTimeout
		IdleTimeout:  120 * time.Second,
	})

	app.Use(recoverer.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        global.ServerConfig.RateLimit,
		Expiration: time.Duration(global.ServerConfig.RateLimitTime) * time.Second,
	}))
	app.Use(middleware.AccessLogMiddleware())

	return app
}
