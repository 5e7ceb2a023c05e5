// Package router đăng ký route của domain upload.
package router

import (
	basehandler "meta_forms/internal/api/base/handler"
	formservice "meta_forms/internal/api/form/service"
	locationservice "meta_forms/internal/api/location/service"
	"meta_forms/internal/api/middleware"
	"meta_forms/internal/api/router"
	"meta_forms/internal/api/upload/handler"
	"meta_forms/internal/api/upload/service"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký route bulk ingestion: upload file và stream tiến độ.
// Cả hai nằm sau auth vì chỉ đội vận hành dashboard được import dữ liệu.
func Register(root fiber.Router, _ *router.Router) error {
	forms := formservice.NewFormService()
	submissions := formservice.NewSubmissionService(forms, locationservice.NewLocationService())
	ingest := service.NewIngestService(service.DefaultJobManager, forms, submissions)
	h := handler.NewUploadHandler(ingest)

	auth := []fiber.Handler{middleware.AuthMiddleware()}

	router.RegisterRouteWithMiddleware(root, "/uploads", "POST", "/:formId/submissions/upload-chunk", auth, basehandler.SafeHandler(h.HandleUploadChunk))
	router.RegisterRouteWithMiddleware(root, "/uploads", "GET", "/:formId/submissions/events", auth, basehandler.SafeHandler(h.HandleEvents))

	return nil
}
