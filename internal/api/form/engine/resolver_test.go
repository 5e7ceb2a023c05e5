package engine

import (
	"testing"

	"meta_forms/internal/api/form/models"
)

// biharSchema dựng schema 3 tầng state → city → area dùng chung cho các
// test resolver
func biharSchema() *models.FormSchema {
	return &models.FormSchema{
		FormName: "Thành viên mới",
		Fields: []models.FieldDefinition{
			{
				Name: "state", Label: "State", Type: models.FieldTypeSelect,
				Options: []models.FieldOption{
					{Value: "Bihar"},
					{Value: "Jharkhand"},
				},
			},
			{
				Name: "city", Label: "City", Type: models.FieldTypeSelect, DependsOn: "state",
				Options: []models.FieldOption{
					{ParentValue: "Bihar", Value: "Patna"},
					{ParentValue: "Bihar", Value: "Gaya"},
					{ParentValue: "Jharkhand", Value: "Ranchi"},
				},
			},
			{
				Name: "area", Label: "Area", Type: models.FieldTypeSelect, DependsOn: "city",
				Options: []models.FieldOption{
					{ParentValue: "Patna", Value: "Kankarbagh"},
					{ParentValue: "Patna", Value: "Boring Road"},
					{ParentValue: "Gaya", Value: "Civil Lines"},
				},
			},
		},
	}
}

func TestComputeVisibleOptions_NoDependsOn(t *testing.T) {
	schema := biharSchema()
	result := ComputeVisibleOptions(schema, schema.FieldByName("state"), map[string]any{})

	if !result.Enabled {
		t.Fatal("field không có dependsOn phải luôn enabled")
	}
	if len(result.Options) != 2 || result.Options[0].Value != "Bihar" || result.Options[1].Value != "Jharkhand" {
		t.Errorf("options phải giữ nguyên thứ tự khai báo, nhận %v", result.Options)
	}
}

func TestComputeVisibleOptions_ParentUnset(t *testing.T) {
	schema := biharSchema()
	result := ComputeVisibleOptions(schema, schema.FieldByName("city"), map[string]any{})

	if result.Enabled {
		t.Error("field cha chưa có giá trị thì field con phải disabled")
	}
	if len(result.Options) != 0 {
		t.Errorf("field disabled phải có danh sách option rỗng, nhận %v", result.Options)
	}
}

func TestComputeVisibleOptions_FilterByParent(t *testing.T) {
	schema := biharSchema()
	values := map[string]any{"state": "Bihar"}
	result := ComputeVisibleOptions(schema, schema.FieldByName("city"), values)

	if !result.Enabled {
		t.Fatal("field phải enabled khi cha có giá trị")
	}
	if len(result.Options) != 2 {
		t.Fatalf("muốn 2 option của Bihar, nhận %d", len(result.Options))
	}
	if result.Options[0].Value != "Patna" || result.Options[1].Value != "Gaya" {
		t.Errorf("thứ tự option phải giữ nguyên: muốn [Patna Gaya], nhận %v", result.Options)
	}
}

func TestComputeVisibleOptions_UnresolvableDependsOn(t *testing.T) {
	schema := biharSchema()
	orphan := &models.FieldDefinition{
		Name: "ward", Label: "Ward", Type: models.FieldTypeSelect, DependsOn: "khongTonTai",
		Options: []models.FieldOption{{ParentValue: "x", Value: "y"}},
	}
	schema.Fields = append(schema.Fields, *orphan)

	result := ComputeVisibleOptions(schema, schema.FieldByName("ward"), map[string]any{"khongTonTai": "x"})
	if result.Enabled {
		t.Error("dependsOn trỏ tới field không tồn tại thì field phải disabled vĩnh viễn")
	}
	if len(result.Options) != 0 {
		t.Errorf("field disabled phải có option rỗng, nhận %v", result.Options)
	}
}

func TestApplyValueChange_TransitiveClear(t *testing.T) {
	schema := biharSchema()
	values := map[string]any{
		"state": "Bihar",
		"city":  "Patna",
		"area":  "Kankarbagh",
	}

	// Đổi state phải xóa cả city (phụ thuộc trực tiếp) lẫn area (bắc cầu)
	next := ApplyValueChange(schema, values, "state", "Jharkhand")

	if next["state"] != "Jharkhand" {
		t.Errorf("state phải nhận giá trị mới, nhận %v", next["state"])
	}
	if _, exists := next["city"]; exists {
		t.Error("city phụ thuộc state nên phải bị xóa")
	}
	if _, exists := next["area"]; exists {
		t.Error("area phụ thuộc bắc cầu vào state nên phải bị xóa")
	}

	// Map đầu vào không được thay đổi
	if values["city"] != "Patna" {
		t.Error("ApplyValueChange không được sửa map đầu vào")
	}
}

func TestApplyValueChange_MidChain(t *testing.T) {
	schema := biharSchema()
	values := map[string]any{"state": "Bihar", "city": "Patna", "area": "Kankarbagh"}

	next := ApplyValueChange(schema, values, "city", "Gaya")

	if next["state"] != "Bihar" {
		t.Error("đổi city không được đụng tới state")
	}
	if next["city"] != "Gaya" {
		t.Errorf("city phải nhận giá trị mới, nhận %v", next["city"])
	}
	if _, exists := next["area"]; exists {
		t.Error("area phụ thuộc city nên phải bị xóa")
	}
}

func TestApplyValueChange_CycleGuard(t *testing.T) {
	// Schema hỏng với vòng phụ thuộc a → b → a: không được lặp vô hạn
	schema := &models.FormSchema{
		Fields: []models.FieldDefinition{
			{Name: "a", Label: "A", Type: models.FieldTypeSelect, DependsOn: "b"},
			{Name: "b", Label: "B", Type: models.FieldTypeSelect, DependsOn: "a"},
		},
	}

	next := ApplyValueChange(schema, map[string]any{"a": "1", "b": "2"}, "a", "3")
	if next["a"] != "3" {
		t.Errorf("a phải giữ giá trị vừa ghi, nhận %v", next["a"])
	}
	if _, exists := next["b"]; exists {
		t.Error("b phụ thuộc a nên phải bị xóa")
	}
}

func TestApplyLocationChange_ClearsDownstream(t *testing.T) {
	values := map[string]any{
		"state":               "id-bihar",
		"district":            "id-patna",
		"legislativeAssembly": "id-kumhrar",
		"booth":               "id-42",
		"name":                "giữ nguyên",
	}

	next := ApplyLocationChange(values, "district", "id-gaya")

	if next["district"] != "id-gaya" {
		t.Errorf("district phải nhận giá trị mới, nhận %v", next["district"])
	}
	if next["state"] != "id-bihar" {
		t.Error("cấp trên không được bị xóa")
	}
	if _, exists := next["legislativeAssembly"]; exists {
		t.Error("legislativeAssembly dưới district nên phải bị xóa")
	}
	if _, exists := next["booth"]; exists {
		t.Error("booth dưới district nên phải bị xóa")
	}
	if next["name"] != "giữ nguyên" {
		t.Error("field thường không được bị đụng tới")
	}
}

func TestComputeVisibleOptions_NilSafety(t *testing.T) {
	// Không bao giờ panic với đầu vào thiếu
	result := ComputeVisibleOptions(nil, nil, nil)
	if result.Enabled {
		t.Error("field nil phải disabled")
	}

	schema := biharSchema()
	result = ComputeVisibleOptions(nil, schema.FieldByName("city"), map[string]any{"state": "Bihar"})
	if result.Enabled {
		t.Error("schema nil thì dependsOn không resolve được, field phải disabled")
	}
}
