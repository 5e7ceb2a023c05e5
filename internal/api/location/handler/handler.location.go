// Package handler chứa các handler HTTP của domain location.
package handler

import (
	basehandler "meta_forms/internal/api/base/handler"
	"meta_forms/internal/api/location/service"
	"meta_forms/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationHandler xử lý các route lookup địa bàn
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler tạo LocationHandler
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// parentIDQuery lấy và parse query param parentId (bắt buộc)
func parentIDQuery(c fiber.Ctx) (primitive.ObjectID, error) {
	raw := c.Query("parentId")
	if raw == "" {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationInput, "Thiếu query param parentId", common.StatusBadRequest, nil)
	}
	parentID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "parentId không hợp lệ: "+raw, common.StatusBadRequest, nil)
	}
	return parentID, nil
}

// HandleStates xử lý GET /states
func (h *LocationHandler) HandleStates(c fiber.Ctx) error {
	states, err := h.locations.ListStates(c.Context())
	return basehandler.HandleResponse(c, states, err)
}

// HandleDistricts xử lý GET /districts?parentId=
func (h *LocationHandler) HandleDistricts(c fiber.Ctx) error {
	parentID, err := parentIDQuery(c)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}
	districts, err := h.locations.ListDistricts(c.Context(), parentID)
	return basehandler.HandleResponse(c, districts, err)
}

// HandleAssemblies xử lý GET /legislative-assemblies?parentId=
func (h *LocationHandler) HandleAssemblies(c fiber.Ctx) error {
	parentID, err := parentIDQuery(c)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}
	assemblies, err := h.locations.ListAssemblies(c.Context(), parentID)
	return basehandler.HandleResponse(c, assemblies, err)
}

// HandleBooths xử lý GET /booths?parentId=
func (h *LocationHandler) HandleBooths(c fiber.Ctx) error {
	parentID, err := parentIDQuery(c)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}
	booths, err := h.locations.ListBooths(c.Context(), parentID)
	return basehandler.HandleResponse(c, booths, err)
}
