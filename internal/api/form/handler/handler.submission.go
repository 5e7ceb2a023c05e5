package handler

import (
	"io"
	"strconv"

	basehandler "meta_forms/internal/api/base/handler"
	"meta_forms/internal/api/form/dto"
	"meta_forms/internal/api/form/engine"
	"meta_forms/internal/api/form/models"
	"meta_forms/internal/api/form/service"

	"github.com/gofiber/fiber/v3"
)

// engineExport tách ra để handler form gọi chung
func engineExport(w io.Writer, form *models.FormSchema, submissions []models.Submission) error {
	return engine.ExportSubmissionsCSV(w, form, submissions)
}

func queryInt64(c fiber.Ctx, name string, defaultValue int64) int64 {
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

// SubmissionHandler xử lý các route submission của form
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

// NewSubmissionHandler tạo SubmissionHandler
func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// HandleCreate xử lý POST /forms/:id/submissions
func (h *SubmissionHandler) HandleCreate(c fiber.Ctx) error {
	formID, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	var input dto.SubmissionCreateInput
	if err := basehandler.ParseRequestBody(c, &input); err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}
	if err := basehandler.ValidateInput(&input); err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	created, err := h.submissions.CreateSubmission(c.Context(), formID, input.Data)
	return basehandler.HandleResponse(c, created, err)
}

// HandleCreateBulk xử lý POST /forms/:id/submissions/bulk
func (h *SubmissionHandler) HandleCreateBulk(c fiber.Ctx) error {
	formID, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	var input dto.BulkSubmissionInput
	if err := basehandler.ParseRequestBody(c, &input); err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	inserted, err := h.submissions.CreateBulk(c.Context(), formID, input.Submissions)
	return basehandler.HandleResponse(c, fiber.Map{"inserted": inserted}, err)
}

// HandleList xử lý GET /forms/:id/submissions?page&limit. Response giữ
// đúng hình dạng dashboard cần: {submissions, pagination{hasNextPage,...}}
func (h *SubmissionHandler) HandleList(c fiber.Ctx) error {
	formID, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	page := queryInt64(c, "page", 1)
	limit := queryInt64(c, "limit", 10)

	result, err := h.submissions.ListSubmissions(c.Context(), formID, page, limit)
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	return basehandler.HandleResponse(c, fiber.Map{
		"submissions": result.Items,
		"pagination": fiber.Map{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"totalPage":   result.TotalPage,
			"hasNextPage": result.HasNextPage(),
		},
	}, nil)
}

// HandleGetById xử lý GET /forms/submissions/:id
func (h *SubmissionHandler) HandleGetById(c fiber.Ctx) error {
	id, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	submission, err := h.submissions.FindOneById(c.Context(), id)
	return basehandler.HandleResponse(c, submission, err)
}

// HandleDelete xử lý DELETE /forms/submissions/:id. Submission bất biến,
// xóa là thao tác sửa đổi duy nhất được phép.
func (h *SubmissionHandler) HandleDelete(c fiber.Ctx) error {
	id, err := basehandler.ParseObjectID(c, "id")
	if err != nil {
		return basehandler.HandleResponse(c, nil, err)
	}

	err = h.submissions.DeleteById(c.Context(), id)
	return basehandler.HandleResponse(c, fiber.Map{"deleted": err == nil}, err)
}
