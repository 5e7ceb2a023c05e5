// Package handler chứa các handler HTTP của domain form.
package handler

import (
	"bytes"
	"fmt"

	basehandler "meta_forms/internal/api/base/handler"
	"meta_forms/internal/api/form/dto"
	"meta_forms/internal/api/form/models"
	"meta_forms/internal/api/form/service"
	"meta_forms/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FormHandler xử lý các route quản lý form schema
type FormHandler struct {
	forms       *service.FormService
	submissions *service.SubmissionService
}

// NewFormHandler tạo FormHandler
func NewFormHandler(forms *service.FormService, submissions *service.SubmissionService) *FormHandler {
	return &FormHandler{forms: forms, submissions: submissions}
}

// HandleCreate xử lý POST /forms
func (h *FormHandler) HandleCreate(c fiber.Ctx) error {
	var input dto.FormCreateInput
	if err := basehandler.ParseRequestBody(c, &input); err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}
	if err := basehandler.ValidateInput(&input); err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	created, err := h.forms.CreateForm(c.Context(), models.FormSchema{
		FormName:       input.FormName,
		Fields:         input.Fields,
		LocationConfig: input.LocationConfig,
	})
	return basehandler.HandleResponse(c, created, err)
}

// HandleList xử lý GET /forms (phân trang, filter JSON tùy chọn)
func (h *FormHandler) HandleList(c fiber.Ctx) error {
	filter, err := basehandler.ParseFilter(c, basehandler.DefaultFilterOptions())
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	page := queryInt64(c, "page", 1)
	limit := queryInt64(c, "limit", 10)
	result, err := h.forms.FindWithPagination(c.Context(), filter, page, limit)
	return basehandler.HandleResponse(c, result, err)
}

// HandleGetById xử lý GET /forms/:id
func (h *FormHandler) HandleGetById(c fiber.Ctx) error {
	id, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	form, err := h.forms.GetForm(c.Context(), id)
	return basehandler.HandleResponse(c, form, err)
}

// HandleDelete xử lý DELETE /forms/:id?keepSubmissions=bool
func (h *FormHandler) HandleDelete(c fiber.Ctx) error {
	id, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	keepSubmissions := c.Query("keepSubmissions") == "true"
	err = h.submissions.DeleteForm(c.Context(), id, keepSubmissions)
	return basehandler.HandleResponse(c, fiber.Map{"deleted": err == nil, "keepSubmissions": keepSubmissions}, err)
}

// HandleExportCSV xử lý GET /forms/:id/submissions/export: xuất toàn bộ
// submission của form ra CSV (BOM UTF-8, header là label).
func (h *FormHandler) HandleExportCSV(c fiber.Ctx) error {
	id, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	form, err := h.forms.GetForm(c.Context(), id)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	submissions, err := h.submissions.Find(c.Context(), bson.M{"formId": id}, opts)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	var buf bytes.Buffer
	if err := engineExport(&buf, &form, submissions); err != nil {
		return basehandler.HandleResponse(c, nil, common.NewError(common.ErrCodeInternalServer, "Không xuất được CSV", common.StatusInternalServerError, err.Error()))
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, form.FormName))
	return c.Send(buf.Bytes())
}
