// Package router đăng ký route của domain form.
package router

import (
	basehandler "meta_forms/internal/api/base/handler"
	"meta_forms/internal/api/form/handler"
	"meta_forms/internal/api/form/service"
	locationservice "meta_forms/internal/api/location/service"
	"meta_forms/internal/api/middleware"
	"meta_forms/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký toàn bộ route quản lý form và submission. Toàn bộ
// nằm sau auth: form do đội data-entry của tổ chức nhập từ dashboard,
// không mở cho người ngoài.
func Register(root fiber.Router, _ *router.Router) error {
	forms := service.NewFormService()
	submissions := service.NewSubmissionService(forms, locationservice.NewLocationService())
	service.RegisterSubmissionCounter(forms)

	formHandler := handler.NewFormHandler(forms, submissions)
	submissionHandler := handler.NewSubmissionHandler(submissions)

	auth := []fiber.Handler{middleware.AuthMiddleware()}

	// Quản lý form schema
	router.RegisterRouteWithMiddleware(root, "/forms", "POST", "/", auth, basehandler.SafeHandler(formHandler.HandleCreate))
	router.RegisterRouteWithMiddleware(root, "/forms", "GET", "/", auth, basehandler.SafeHandler(formHandler.HandleList))
	router.RegisterRouteWithMiddleware(root, "/forms", "GET", "/:id", auth, basehandler.SafeHandler(formHandler.HandleGetById))
	router.RegisterRouteWithMiddleware(root, "/forms", "DELETE", "/:id", auth, basehandler.SafeHandler(formHandler.HandleDelete))

	// Submission theo form. Route tĩnh /submissions/:id đăng ký trước để
	// không bị /:id/submissions nuốt mất.
	router.RegisterRouteWithMiddleware(root, "/forms", "GET", "/submissions/:id", auth, basehandler.SafeHandler(submissionHandler.HandleGetById))
	router.RegisterRouteWithMiddleware(root, "/forms", "DELETE", "/submissions/:id", auth, basehandler.SafeHandler(submissionHandler.HandleDelete))

	router.RegisterRouteWithMiddleware(root, "/forms", "POST", "/:id/submissions", auth, basehandler.SafeHandler(submissionHandler.HandleCreate))
	router.RegisterRouteWithMiddleware(root, "/forms", "POST", "/:id/submissions/bulk", auth, basehandler.SafeHandler(submissionHandler.HandleCreateBulk))
	router.RegisterRouteWithMiddleware(root, "/forms", "GET", "/:id/submissions", auth, basehandler.SafeHandler(submissionHandler.HandleList))
	router.RegisterRouteWithMiddleware(root, "/forms", "GET", "/:id/submissions/export", auth, basehandler.SafeHandler(formHandler.HandleExportCSV))

	return nil
}
