package engine

import (
	"errors"
	"sort"
	"strings"

	"meta_forms/internal/api/form/models"
)

// ErrNoDataFound trả về khi file import không còn dòng dữ liệu nào sau
// khi bỏ các dòng trống.
var ErrNoDataFound = errors.New("Không tìm thấy dữ liệu trong file")

// normalizeHeader chuẩn hóa một header/label để so khớp: trim + lowercase
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ReconcileRows đối chiếu header của file import với label các field của
// form, rồi ánh xạ từng dòng về key là tên field.
//
// Tập header (sau chuẩn hóa trim + lowercase) phải bằng ĐÚNG tập label
// của form, kể cả số lượng: thiếu cột, thừa cột, hay trùng cột đều là
// mismatch. Khi mismatch trả về *ReconciliationError mang hai danh sách
// gốc chưa chuẩn hóa để hiển thị cho người dùng.
//
// Dòng mà mọi ô đều trống bị loại. Không còn dòng nào thì trả
// ErrNoDataFound.
func ReconcileRows(headers []string, rows []map[string]string, schema *models.FormSchema) ([]map[string]string, error) {
	expectedLabels := make([]string, 0, len(schema.Fields))
	labelToName := map[string]string{}
	for i := range schema.Fields {
		field := &schema.Fields[i]
		expectedLabels = append(expectedLabels, field.Label)
		labelToName[normalizeHeader(field.Label)] = field.Name
	}

	if !headerSetsMatch(expectedLabels, headers) {
		return nil, &ReconciliationError{
			Expected: expectedLabels,
			Received: headers,
		}
	}

	result := []map[string]string{}
	for _, row := range rows {
		mapped := map[string]string{}
		hasData := false
		for header, value := range row {
			name, ok := labelToName[normalizeHeader(header)]
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			mapped[name] = value
			if value != "" {
				hasData = true
			}
		}
		if hasData {
			result = append(result, mapped)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoDataFound
	}
	return result, nil
}

// headerSetsMatch so sánh hai danh sách header theo tập đã chuẩn hóa,
// tính cả số lần xuất hiện.
func headerSetsMatch(expected []string, received []string) bool {
	if len(expected) != len(received) {
		return false
	}

	a := make([]string, len(expected))
	for i, s := range expected {
		a[i] = normalizeHeader(s)
	}
	b := make([]string, len(received))
	for i, s := range received {
		b[i] = normalizeHeader(s)
	}
	sort.Strings(a)
	sort.Strings(b)

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
