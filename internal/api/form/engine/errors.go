package engine

import (
	"fmt"
	"strings"
)

// SchemaError là lỗi cấu trúc form phát hiện khi validate lúc authoring
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return "Schema không hợp lệ: " + strings.Join(e.Issues, "; ")
}

// ReconciliationError là lỗi đối chiếu header file import với schema.
// Expected/Received giữ nguyên danh sách gốc (chưa chuẩn hóa) để người
// dùng nhìn thấy đúng những gì nằm trong file và trong form.
type ReconciliationError struct {
	Expected []string
	Received []string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("Header file không khớp với form. Cần: [%s]. Nhận: [%s]",
		strings.Join(e.Expected, ", "), strings.Join(e.Received, ", "))
}

// SubmissionValidationError gom lỗi theo từng field (key = tên field)
type SubmissionValidationError struct {
	FieldErrors map[string]string
}

func (e *SubmissionValidationError) Error() string {
	parts := make([]string, 0, len(e.FieldErrors))
	for name, msg := range e.FieldErrors {
		parts = append(parts, name+": "+msg)
	}
	return "Dữ liệu submission không hợp lệ: " + strings.Join(parts, "; ")
}
