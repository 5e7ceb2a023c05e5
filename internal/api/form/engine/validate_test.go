package engine

import (
	"strings"
	"testing"

	"meta_forms/internal/api/form/models"
)

func validSchema() *models.FormSchema {
	s := &models.FormSchema{
		FormName: "Đăng ký thành viên",
		Fields: []models.FieldDefinition{
			{Label: "Name", Type: models.FieldTypeText, Required: true},
			{Label: "Mobile No.", Type: models.FieldTypeText},
			{
				Label: "State", Type: models.FieldTypeSelect,
				Options: []models.FieldOption{{Value: "Bihar"}},
			},
		},
	}
	NormalizeSchema(s)
	return s
}

func TestValidateSchema_Valid(t *testing.T) {
	if err := ValidateSchema(validSchema()); err != nil {
		t.Fatalf("schema hợp lệ không được báo lỗi: %v", err)
	}
}

func TestValidateSchema_EmptyFormName(t *testing.T) {
	s := validSchema()
	s.FormName = "   "
	err := ValidateSchema(s)
	if err == nil {
		t.Fatal("tên form trống phải bị từ chối")
	}
}

func TestValidateSchema_BlankLabel(t *testing.T) {
	s := validSchema()
	s.Fields[0].Label = "  "
	if err := ValidateSchema(s); err == nil {
		t.Fatal("label trống phải bị từ chối")
	}
}

func TestValidateSchema_DerivedNameCollision(t *testing.T) {
	// Hai label khác nhau nhưng suy ra cùng name: lỗi cứng
	s := &models.FormSchema{
		FormName: "Form",
		Fields: []models.FieldDefinition{
			{Label: "Mobile No.", Type: models.FieldTypeText},
			{Label: "mobile no", Type: models.FieldTypeText},
		},
	}
	NormalizeSchema(s)

	err := ValidateSchema(s)
	if err == nil {
		t.Fatal("trùng derived name phải bị từ chối")
	}
	if !strings.Contains(err.Error(), "mobileNo") {
		t.Errorf("lỗi phải nêu tên bị trùng, nhận: %v", err)
	}
}

func TestValidateSchema_MixedOptions(t *testing.T) {
	s := validSchema()
	s.Fields = append(s.Fields, models.FieldDefinition{
		Label: "City", Name: "city", Type: models.FieldTypeSelect,
		Options: []models.FieldOption{
			{ParentValue: "Bihar", Value: "Patna"},
			{Value: "Khác"},
		},
	})
	if err := ValidateSchema(s); err == nil {
		t.Fatal("option trộn lẫn có/không parentValue phải bị từ chối")
	}
}

func TestValidateSchema_DependsOnRules(t *testing.T) {
	base := func() *models.FormSchema {
		s := &models.FormSchema{
			FormName: "Form",
			Fields: []models.FieldDefinition{
				{Label: "State", Type: models.FieldTypeSelect, Options: []models.FieldOption{{Value: "Bihar"}}},
				{Label: "Note", Type: models.FieldTypeText},
			},
		}
		NormalizeSchema(s)
		return s
	}

	// dependsOn trỏ tới field không tồn tại
	s := base()
	s.Fields = append(s.Fields, models.FieldDefinition{
		Label: "City", Name: "city", Type: models.FieldTypeSelect, DependsOn: "khongCo",
		Options: []models.FieldOption{{ParentValue: "x", Value: "y"}},
	})
	if err := ValidateSchema(s); err == nil {
		t.Error("dependsOn tới field không tồn tại phải bị từ chối")
	}

	// dependsOn trỏ tới field không phải select
	s = base()
	s.Fields = append(s.Fields, models.FieldDefinition{
		Label: "City", Name: "city", Type: models.FieldTypeSelect, DependsOn: "note",
		Options: []models.FieldOption{{ParentValue: "x", Value: "y"}},
	})
	if err := ValidateSchema(s); err == nil {
		t.Error("dependsOn tới field text phải bị từ chối")
	}

	// dependsOn tự trỏ vào mình
	s = base()
	s.Fields = append(s.Fields, models.FieldDefinition{
		Label: "City", Name: "city", Type: models.FieldTypeSelect, DependsOn: "city",
		Options: []models.FieldOption{{ParentValue: "x", Value: "y"}},
	})
	if err := ValidateSchema(s); err == nil {
		t.Error("field phụ thuộc chính nó phải bị từ chối")
	}

	// dependsOn tới field đã có dependsOn (chuỗi sâu hơn 1 cấp khi authoring)
	s = base()
	s.Fields = append(s.Fields,
		models.FieldDefinition{
			Label: "City", Name: "city", Type: models.FieldTypeSelect, DependsOn: "state",
			Options: []models.FieldOption{{ParentValue: "Bihar", Value: "Patna"}},
		},
		models.FieldDefinition{
			Label: "Area", Name: "area", Type: models.FieldTypeSelect, DependsOn: "city",
			Options: []models.FieldOption{{ParentValue: "Patna", Value: "Kankarbagh"}},
		},
	)
	if err := ValidateSchema(s); err == nil {
		t.Error("chuỗi phụ thuộc sâu hơn 1 cấp phải bị từ chối khi authoring")
	}
}

func TestNormalizeSchema_FixedDisablesDynamic(t *testing.T) {
	s := &models.FormSchema{
		FormName: "Form",
		Fields:   []models.FieldDefinition{{Label: "Name", Type: models.FieldTypeText}},
		LocationConfig: &models.LocationDropdownConfig{
			State:      true,
			FixedState: "686f1c...",
			District:   true,
		},
	}
	NormalizeSchema(s)

	if s.LocationConfig.State {
		t.Error("cấp có fixed id phải bị ép toggle động về false")
	}
	if err := ValidateSchema(s); err != nil {
		t.Errorf("sau chuẩn hóa, state cố định + district động phải hợp lệ: %v", err)
	}
}

func TestValidateSchema_LocationChain(t *testing.T) {
	s := &models.FormSchema{
		FormName: "Form",
		Fields:   []models.FieldDefinition{{Label: "Name", Type: models.FieldTypeText}},
		LocationConfig: &models.LocationDropdownConfig{
			// booth bật nhưng state/district/assembly đều tắt và không fixed
			Booth: true,
		},
	}
	NormalizeSchema(s)

	if err := ValidateSchema(s); err == nil {
		t.Fatal("cấp thấp bật khi cấp trên tắt hẳn phải bị từ chối")
	}
}
