package handler

import (
	"strconv"

	"meta_forms/internal/api/base/service"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CRUDConfig bật/tắt từng route CRUD khi đăng ký handler generic
type CRUDConfig struct {
	Create   bool
	FindById bool
	FindAll  bool
	Update   bool
	Delete   bool
}

// ReadOnlyConfig chỉ bật các route đọc
func ReadOnlyConfig() CRUDConfig {
	return CRUDConfig{FindById: true, FindAll: true}
}

// ReadWriteConfig bật toàn bộ route CRUD
func ReadWriteConfig() CRUDConfig {
	return CRUDConfig{Create: true, FindById: true, FindAll: true, Update: true, Delete: true}
}

// BaseHandler là handler CRUD generic trên một BaseServiceMongo.
// CreateInput/UpdateInput là các DTO có validate tag riêng.
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	Service       service.BaseServiceMongo[T]
	FilterOptions FilterOptions

	// Chuyển DTO đã validate sang model trước khi ghi
	FromCreateInput func(input *CreateInput) (T, error)
	FromUpdateInput func(input *UpdateInput) (*service.UpdateData, error)
}

// NewBaseHandler tạo BaseHandler với filter options mặc định
func NewBaseHandler[T any, CreateInput any, UpdateInput any](
	svc service.BaseServiceMongo[T],
	fromCreate func(input *CreateInput) (T, error),
	fromUpdate func(input *UpdateInput) (*service.UpdateData, error),
) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		Service:         svc,
		FilterOptions:   DefaultFilterOptions(),
		FromCreateInput: fromCreate,
		FromUpdateInput: fromUpdate,
	}
}

// HandleCreate xử lý POST /: parse, validate, insert
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleCreate(c fiber.Ctx) error {
	var input CreateInput
	if err := ParseRequestBody(c, &input); err != nil {
		return HandleResponse(c, nil, err)
	}
	if err := ValidateInput(&input); err != nil {
		return HandleResponse(c, nil, err)
	}

	model, err := h.FromCreateInput(&input)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	created, err := h.Service.InsertOne(c.Context(), model)
	return HandleResponse(c, created, err)
}

// HandleFindById xử lý GET /:id
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleFindById(c fiber.Ctx) error {
	id, err := ParseObjectID(c, "id")
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	item, err := h.Service.FindOneById(c.Context(), id)
	return HandleResponse(c, item, err)
}

// HandleFindAll xử lý GET /: hỗ trợ filter JSON, phân trang page/limit
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleFindAll(c fiber.Ctx) error {
	filter, err := ParseFilter(c, h.FilterOptions)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	page := parseInt64Query(c, "page", 1)
	limit := parseInt64Query(c, "limit", 10)

	result, err := h.Service.FindWithPagination(c.Context(), filter, page, limit)
	return HandleResponse(c, result, err)
}

// HandleUpdate xử lý PUT /:id
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleUpdate(c fiber.Ctx) error {
	id, err := ParseObjectID(c, "id")
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	var input UpdateInput
	if err := ParseRequestBody(c, &input); err != nil {
		return HandleResponse(c, nil, err)
	}
	if err := ValidateInput(&input); err != nil {
		return HandleResponse(c, nil, err)
	}

	update, err := h.FromUpdateInput(&input)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	updated, err := h.Service.UpdateById(c.Context(), id, update)
	return HandleResponse(c, updated, err)
}

// HandleDelete xử lý DELETE /:id
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleDelete(c fiber.Ctx) error {
	id, err := ParseObjectID(c, "id")
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	err = h.Service.DeleteById(c.Context(), id)
	return HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
}

// HandleFindAllFlat xử lý GET / không phân trang, trả thẳng mảng item.
// Dùng cho các danh sách lookup nhỏ (địa danh).
func (h *BaseHandler[T, CreateInput, UpdateInput]) HandleFindAllFlat(c fiber.Ctx) error {
	filter, err := ParseFilter(c, h.FilterOptions)
	if err != nil {
		return HandleResponse(c, nil, err)
	}

	items, err := h.Service.Find(c.Context(), filter, options.Find())
	return HandleResponse(c, items, err)
}

func parseInt64Query(c fiber.Ctx, name string, defaultValue int64) int64 {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return defaultValue
	}
	return value
}
