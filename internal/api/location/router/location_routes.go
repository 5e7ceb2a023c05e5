// Package router đăng ký route của domain location.
package router

import (
	basehandler "meta_forms/internal/api/base/handler"
	baseservice "meta_forms/internal/api/base/service"
	"meta_forms/internal/api/location/dto"
	"meta_forms/internal/api/location/handler"
	"meta_forms/internal/api/location/models"
	"meta_forms/internal/api/location/service"
	"meta_forms/internal/api/middleware"
	"meta_forms/internal/api/router"
	"meta_forms/internal/utility"

	"github.com/gofiber/fiber/v3"
)

// Register đăng ký route lookup công khai và route seeding (có auth)
// cho bốn cấp địa bàn. Route seeding dùng bộ handler CRUD generic.
func Register(root fiber.Router, _ *router.Router) error {
	locations := service.NewLocationService()
	h := handler.NewLocationHandler(locations)

	// Lookup công khai cho form render
	router.RegisterRouteWithMiddleware(root, "", "GET", "/states", nil, basehandler.SafeHandler(h.HandleStates))
	router.RegisterRouteWithMiddleware(root, "", "GET", "/districts", nil, basehandler.SafeHandler(h.HandleDistricts))
	router.RegisterRouteWithMiddleware(root, "", "GET", "/legislative-assemblies", nil, basehandler.SafeHandler(h.HandleAssemblies))
	router.RegisterRouteWithMiddleware(root, "", "GET", "/booths", nil, basehandler.SafeHandler(h.HandleBooths))

	// Seeding/chỉnh sửa địa bàn từ dashboard admin
	auth := middleware.AuthMiddleware()

	stateHandler := basehandler.NewBaseHandler(
		locations.States,
		func(input *dto.StateCreateInput) (models.State, error) {
			return models.State{Name: input.Name}, nil
		},
		renameUpdate,
	)
	registerAdminCRUD(root, "/admin/states", auth, stateHandler)

	districtHandler := basehandler.NewBaseHandler(
		locations.Districts,
		func(input *dto.ChildLocationCreateInput) (models.District, error) {
			parentID, err := utility.String2ObjectID(input.ParentID)
			if err != nil {
				return models.District{}, err
			}
			return models.District{Name: input.Name, ParentID: parentID}, nil
		},
		renameUpdate,
	)
	registerAdminCRUD(root, "/admin/districts", auth, districtHandler)

	assemblyHandler := basehandler.NewBaseHandler(
		locations.Assemblies,
		func(input *dto.ChildLocationCreateInput) (models.LegislativeAssembly, error) {
			parentID, err := utility.String2ObjectID(input.ParentID)
			if err != nil {
				return models.LegislativeAssembly{}, err
			}
			return models.LegislativeAssembly{Name: input.Name, ParentID: parentID}, nil
		},
		renameUpdate,
	)
	registerAdminCRUD(root, "/admin/legislative-assemblies", auth, assemblyHandler)

	boothHandler := basehandler.NewBaseHandler(
		locations.Booths,
		func(input *dto.ChildLocationCreateInput) (models.Booth, error) {
			parentID, err := utility.String2ObjectID(input.ParentID)
			if err != nil {
				return models.Booth{}, err
			}
			return models.Booth{Name: input.Name, ParentID: parentID}, nil
		},
		renameUpdate,
	)
	registerAdminCRUD(root, "/admin/booths", auth, boothHandler)

	return nil
}

// renameUpdate chuyển LocationUpdateInput thành UpdateData đổi tên
func renameUpdate(input *dto.LocationUpdateInput) (*baseservice.UpdateData, error) {
	return baseservice.ToUpdateData(input)
}

// registerAdminCRUD gắn bộ route CRUD generic sau auth middleware
func registerAdminCRUD[T any, C any](root fiber.Router, prefix string, auth fiber.Handler, h *basehandler.BaseHandler[T, C, dto.LocationUpdateInput]) {
	mws := []fiber.Handler{auth}
	router.RegisterRouteWithMiddleware(root, prefix, "POST", "/", mws, basehandler.SafeHandler(h.HandleCreate))
	router.RegisterRouteWithMiddleware(root, prefix, "GET", "/", mws, basehandler.SafeHandler(h.HandleFindAll))
	router.RegisterRouteWithMiddleware(root, prefix, "GET", "/:id", mws, basehandler.SafeHandler(h.HandleFindById))
	router.RegisterRouteWithMiddleware(root, prefix, "PUT", "/:id", mws, basehandler.SafeHandler(h.HandleUpdate))
	router.RegisterRouteWithMiddleware(root, prefix, "DELETE", "/:id", mws, basehandler.SafeHandler(h.HandleDelete))
}
