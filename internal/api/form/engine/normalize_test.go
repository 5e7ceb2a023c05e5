package engine

import (
	"testing"

	"meta_forms/internal/api/form/models"
)

func payloadSchema() *models.FormSchema {
	return &models.FormSchema{
		FormName: "Khảo sát",
		Fields: []models.FieldDefinition{
			{Name: "name", Label: "Name", Type: models.FieldTypeText, Required: true},
			{Name: "age", Label: "Age", Type: models.FieldTypeNumber},
			{Name: "member", Label: "Member", Type: models.FieldTypeCheckbox},
			{Name: "note", Label: "Note", Type: models.FieldTypeTextarea},
		},
		LocationConfig: &models.LocationDropdownConfig{
			State:    true,
			District: true,
		},
	}
}

func testLookups() LocationLookup {
	return LocationLookup{
		LocationFieldState:    {"6863a1": "Bihar"},
		LocationFieldDistrict: {"6863b2": "Patna"},
	}
}

func TestBuildSubmissionPayload_Coercion(t *testing.T) {
	payload, err := BuildSubmissionPayload(payloadSchema(), map[string]any{
		"name":   "Asha",
		"age":    "34",
		"member": "true",
		"note":   42,
	}, testLookups())
	if err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}

	if payload["name"] != "Asha" {
		t.Errorf("text phải giữ chuỗi, nhận %v", payload["name"])
	}
	if payload["age"] != float64(34) {
		t.Errorf("number phải ép về số, nhận %v (%T)", payload["age"], payload["age"])
	}
	if payload["member"] != true {
		t.Errorf("checkbox phải ép về bool, nhận %v", payload["member"])
	}
	if payload["note"] != "42" {
		t.Errorf("field khác phải ép về chuỗi, nhận %v", payload["note"])
	}
}

func TestBuildSubmissionPayload_RequiredErrors(t *testing.T) {
	_, err := BuildSubmissionPayload(payloadSchema(), map[string]any{
		"age": "ba mươi", // không phải số
	}, testLookups())
	if err == nil {
		t.Fatal("thiếu field bắt buộc phải báo lỗi")
	}

	validationErr, ok := err.(*SubmissionValidationError)
	if !ok {
		t.Fatalf("muốn *SubmissionValidationError, nhận %T", err)
	}
	if _, exists := validationErr.FieldErrors["name"]; !exists {
		t.Error("lỗi phải gắn với tên field 'name'")
	}
	if _, exists := validationErr.FieldErrors["age"]; !exists {
		t.Error("giá trị number không parse được phải báo lỗi theo field 'age'")
	}
}

func TestBuildSubmissionPayload_LocationLabels(t *testing.T) {
	payload, err := BuildSubmissionPayload(payloadSchema(), map[string]any{
		"name":     "Asha",
		"state":    "6863a1",
		"district": "6863b2",
	}, testLookups())
	if err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}

	if payload["state"] != "Bihar" {
		t.Errorf("id state phải được thay bằng label, nhận %v", payload["state"])
	}
	if payload["district"] != "Patna" {
		t.Errorf("id district phải được thay bằng label, nhận %v", payload["district"])
	}
}

func TestBuildSubmissionPayload_UnknownLocationSilentlyOmitted(t *testing.T) {
	payload, err := BuildSubmissionPayload(payloadSchema(), map[string]any{
		"name":  "Asha",
		"state": "id-la-doi", // không có trong lookup
	}, testLookups())
	if err != nil {
		t.Fatalf("id địa bàn lạ không được gây lỗi: %v", err)
	}
	if _, exists := payload["state"]; exists {
		t.Error("id không tra được phải bị bỏ qua trong im lặng, không ghi id thô")
	}
}

func TestBuildSubmissionPayload_FixedLocation(t *testing.T) {
	schema := payloadSchema()
	schema.LocationConfig = &models.LocationDropdownConfig{
		FixedState: "6863a1",
		District:   true,
	}

	payload, err := BuildSubmissionPayload(schema, map[string]any{
		"name":     "Asha",
		"district": "6863b2",
	}, testLookups())
	if err != nil {
		t.Fatalf("không mong lỗi: %v", err)
	}
	if payload["state"] != "Bihar" {
		t.Errorf("cấp fixed phải tự điền label từ fixed id, nhận %v", payload["state"])
	}
}

func TestBuildSubmissionPayload_CheckboxFalseIsPresent(t *testing.T) {
	schema := payloadSchema()
	schema.Fields[2].Required = true

	payload, err := BuildSubmissionPayload(schema, map[string]any{
		"name":   "Asha",
		"member": false,
	}, testLookups())
	if err != nil {
		t.Fatalf("checkbox false vẫn là có giá trị, không được coi là thiếu: %v", err)
	}
	if payload["member"] != false {
		t.Errorf("checkbox false phải giữ nguyên, nhận %v", payload["member"])
	}
}
