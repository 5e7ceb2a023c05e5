package router

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================================
// ⚠️ QUAN TRỌNG: BUG FIBER V3 - CÁCH ĐĂNG KÝ MIDDLEWARE
// ============================================================================
//
// Fiber v3 có bug với cách đăng ký middleware trực tiếp trong route:
//
// ❌ CÁCH SAI (middleware KHÔNG được gọi):
//    router.Get("/path", middleware.AuthMiddleware(), handler)
//
// ✅ CÁCH ĐÚNG:
//    RegisterRouteWithMiddleware(router, "/prefix", "GET", "/path",
//        []fiber.Handler{authMiddleware}, handler)
//    → Middleware được gắn qua .Use() trên group, cách duy nhất hoạt động.
//
// Mọi route mới trong các file *_routes.go của domain PHẢI dùng hàm này.
// ============================================================================

// Router quản lý việc định tuyến cho API
type Router struct {
	app *fiber.App
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware đăng ký route với middleware qua .Use()
// trên group (cách đúng theo Fiber v3, xem comment đầu file).
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export)
type RegisterFunc func(root fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route cho ứng dụng. Caller truyền lần
// lượt Register của từng domain để tránh import cycle. Các route mount
// thẳng ở root vì dashboard client gọi đường dẫn dạng /forms, /states.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	root := app.Group("")
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(root, r); err != nil {
			return err
		}
	}
	return nil
}
