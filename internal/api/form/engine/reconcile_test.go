package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta_forms/internal/api/form/models"
)

func reconcileSchema() *models.FormSchema {
	return &models.FormSchema{
		FormName: "Thành viên",
		Fields: []models.FieldDefinition{
			{Name: "name", Label: "Name", Type: models.FieldTypeText},
			{Name: "mobileNo", Label: "Mobile No.", Type: models.FieldTypeText},
		},
	}
}

func TestReconcileRows_ExactMatchCaseInsensitive(t *testing.T) {
	// Header chỉ khác hoa thường và khoảng trắng thừa vẫn khớp
	headers := []string{"  NAME ", "mobile no."}
	rows := []map[string]string{
		{"  NAME ": "Asha", "mobile no.": "9800000000"},
	}

	result, err := ReconcileRows(headers, rows, reconcileSchema())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Asha", result[0]["name"])
	assert.Equal(t, "9800000000", result[0]["mobileNo"])
}

func TestReconcileRows_MissingColumn(t *testing.T) {
	headers := []string{"Name"}
	rows := []map[string]string{{"Name": "Asha"}}

	_, err := ReconcileRows(headers, rows, reconcileSchema())
	require.Error(t, err)

	var reconcileErr *ReconciliationError
	require.True(t, errors.As(err, &reconcileErr))
	// Hai danh sách phải giữ nguyên bản gốc chưa chuẩn hóa
	assert.Equal(t, []string{"Name", "Mobile No."}, reconcileErr.Expected)
	assert.Equal(t, []string{"Name"}, reconcileErr.Received)
}

func TestReconcileRows_ExtraColumn(t *testing.T) {
	headers := []string{"Name", "Mobile No.", "Extra"}
	_, err := ReconcileRows(headers, nil, reconcileSchema())

	var reconcileErr *ReconciliationError
	require.True(t, errors.As(err, &reconcileErr))
	assert.Equal(t, []string{"Name", "Mobile No.", "Extra"}, reconcileErr.Received)
}

func TestReconcileRows_DuplicateColumnCountMismatch(t *testing.T) {
	// Tập so khớp tính cả số lần xuất hiện: trùng cột là mismatch dù
	// tên cột đều hợp lệ
	headers := []string{"Name", "Name"}
	_, err := ReconcileRows(headers, nil, reconcileSchema())

	var reconcileErr *ReconciliationError
	require.True(t, errors.As(err, &reconcileErr), "trùng cột phải là mismatch")
}

func TestReconcileRows_DropsEmptyRows(t *testing.T) {
	headers := []string{"Name", "Mobile No."}
	rows := []map[string]string{
		{"Name": "Asha", "Mobile No.": "98"},
		{"Name": "   ", "Mobile No.": ""}, // dòng trống, phải bị loại
		{"Name": "Ravi", "Mobile No.": ""},
	}

	result, err := ReconcileRows(headers, rows, reconcileSchema())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Asha", result[0]["name"])
	assert.Equal(t, "Ravi", result[1]["name"])
}

func TestReconcileRows_AllEmptyIsError(t *testing.T) {
	headers := []string{"Name", "Mobile No."}
	rows := []map[string]string{
		{"Name": "", "Mobile No.": ""},
		{"Name": " ", "Mobile No.": "  "},
	}

	_, err := ReconcileRows(headers, rows, reconcileSchema())
	require.ErrorIs(t, err, ErrNoDataFound)
}

func TestReconcileRows_DevanagariHeaders(t *testing.T) {
	schema := &models.FormSchema{
		FormName: "सदस्य",
		Fields: []models.FieldDefinition{
			{Name: "नाम", Label: "नाम", Type: models.FieldTypeText},
		},
	}

	headers := []string{"नाम"}
	rows := []map[string]string{{"नाम": "आशा"}}

	result, err := ReconcileRows(headers, rows, schema)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "आशा", result[0]["नाम"])
}
