// Package dto định nghĩa các cấu trúc request của domain form.
package dto

import (
	"meta_forms/internal/api/form/models"
)

// FormCreateInput là body của POST /forms. Name của field do server suy
// ra từ label, client không cần (và không được) tự đặt.
type FormCreateInput struct {
	FormName       string                         `json:"formName" validate:"required,no_xss"`
	Fields         []models.FieldDefinition       `json:"fields" validate:"required,min=1,dive"`
	LocationConfig *models.LocationDropdownConfig `json:"locationConfig"`
}

// SubmissionCreateInput là body của POST /forms/:id/submissions
type SubmissionCreateInput struct {
	Data map[string]any `json:"data" validate:"required"`
}

// BulkSubmissionInput là body của POST /forms/:id/submissions/bulk
type BulkSubmissionInput struct {
	Submissions []map[string]any `json:"submissions" validate:"required"`
}
