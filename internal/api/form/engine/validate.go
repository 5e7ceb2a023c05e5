package engine

import (
	"fmt"
	"strings"

	"meta_forms/internal/api/form/models"
)

// NormalizeSchema chuẩn bị schema trước khi lưu:
//   - Suy ra name cho từng field từ label (ghi đè name client gửi lên,
//     name luôn là kết quả derive để giữ tính deterministic).
//   - Chuẩn hóa location config: cấp nào có fixed id thì toggle động của
//     chính cấp đó bị ép về false (động và cố định loại trừ nhau).
func NormalizeSchema(schema *models.FormSchema) {
	if schema == nil {
		return
	}
	for i := range schema.Fields {
		schema.Fields[i].Name = DeriveFieldName(schema.Fields[i].Label)
	}

	cfg := schema.LocationConfig
	if cfg == nil {
		return
	}
	if cfg.FixedState != "" {
		cfg.State = false
	}
	if cfg.FixedDistrict != "" {
		cfg.District = false
	}
	if cfg.FixedLegislativeAssembly != "" {
		cfg.LegislativeAssembly = false
	}
}

// ValidateSchema kiểm tra schema sau khi đã NormalizeSchema. Trả về
// *SchemaError gom toàn bộ vấn đề tìm thấy, hoặc nil nếu schema hợp lệ.
func ValidateSchema(schema *models.FormSchema) error {
	issues := []string{}

	if schema == nil {
		return &SchemaError{Issues: []string{"schema rỗng"}}
	}
	if strings.TrimSpace(schema.FormName) == "" {
		issues = append(issues, "tên form không được để trống")
	}

	seenNames := map[string]string{}
	for i := range schema.Fields {
		field := &schema.Fields[i]
		label := strings.TrimSpace(field.Label)

		if label == "" {
			issues = append(issues, fmt.Sprintf("field thứ %d có label trống", i+1))
			continue
		}
		if !models.ValidFieldTypes[field.Type] {
			issues = append(issues, fmt.Sprintf("field '%s' có type không hợp lệ: %s", field.Label, field.Type))
		}

		// Hai label khác nhau có thể suy ra cùng một name (ví dụ chỉ khác
		// dấu câu). Trùng name là lỗi cứng vì name là key dữ liệu.
		if field.Name == "" {
			issues = append(issues, fmt.Sprintf("field '%s' suy ra name rỗng", field.Label))
		} else if otherLabel, exists := seenNames[field.Name]; exists {
			issues = append(issues, fmt.Sprintf("field '%s' và '%s' suy ra cùng name '%s'", otherLabel, field.Label, field.Name))
		} else {
			seenNames[field.Name] = field.Label
		}

		issues = append(issues, validateFieldOptions(field)...)
		issues = append(issues, validateDependsOn(schema, field)...)
	}

	issues = append(issues, validateLocationConfig(schema.LocationConfig)...)

	if len(issues) > 0 {
		return &SchemaError{Issues: issues}
	}
	return nil
}

// validateFieldOptions kiểm tra tính thuần nhất của options: trong một
// field, hoặc mọi option có parentValue, hoặc không option nào có.
func validateFieldOptions(field *models.FieldDefinition) []string {
	if len(field.Options) == 0 {
		if field.Type == models.FieldTypeSelect {
			return []string{fmt.Sprintf("field select '%s' không có option nào", field.Label)}
		}
		return nil
	}

	withParent := 0
	for _, option := range field.Options {
		if option.ParentValue != "" {
			withParent++
		}
	}
	if withParent != 0 && withParent != len(field.Options) {
		return []string{fmt.Sprintf("field '%s' trộn lẫn option có và không có parentValue", field.Label)}
	}
	if field.DependsOn != "" && withParent == 0 {
		return []string{fmt.Sprintf("field '%s' có dependsOn nhưng các option không khai báo parentValue", field.Label)}
	}
	return nil
}

// validateDependsOn kiểm tra ràng buộc dependsOn: phải trỏ tới một field
// select khác đang tồn tại, field đó không được tự mình có dependsOn
// (chuỗi phụ thuộc chỉ sâu 1 cấp khi authoring), và không được tự trỏ
// vào chính mình.
func validateDependsOn(schema *models.FormSchema, field *models.FieldDefinition) []string {
	if field.DependsOn == "" {
		return nil
	}
	if field.DependsOn == field.Name {
		return []string{fmt.Sprintf("field '%s' phụ thuộc vào chính nó", field.Label)}
	}

	parent := schema.FieldByName(field.DependsOn)
	if parent == nil {
		return []string{fmt.Sprintf("field '%s' phụ thuộc vào field không tồn tại: %s", field.Label, field.DependsOn)}
	}
	if parent.Type != models.FieldTypeSelect {
		return []string{fmt.Sprintf("field '%s' phụ thuộc vào field '%s' không phải select", field.Label, parent.Label)}
	}
	if parent.DependsOn != "" {
		return []string{fmt.Sprintf("field '%s' phụ thuộc vào field '%s' vốn đã phụ thuộc field khác", field.Label, parent.Label)}
	}
	return nil
}

// validateLocationConfig kiểm tra chuỗi địa bàn sau chuẩn hóa: một cấp
// chỉ được bật động khi mọi cấp trên nó đều động hoặc có fixed id.
func validateLocationConfig(cfg *models.LocationDropdownConfig) []string {
	if cfg == nil {
		return nil
	}

	type level struct {
		name    string
		enabled bool
		fixed   string
	}
	levels := []level{
		{LocationFieldState, cfg.State, cfg.FixedState},
		{LocationFieldDistrict, cfg.District, cfg.FixedDistrict},
		{LocationFieldAssembly, cfg.LegislativeAssembly, cfg.FixedLegislativeAssembly},
		{LocationFieldBooth, cfg.Booth, ""},
	}

	issues := []string{}
	for i, lv := range levels {
		if lv.enabled && lv.fixed != "" {
			// NormalizeSchema đã ép toggle về false, gặp ở đây nghĩa là
			// caller bỏ qua bước chuẩn hóa
			issues = append(issues, fmt.Sprintf("cấp '%s' vừa động vừa cố định", lv.name))
		}
		if !lv.enabled {
			continue
		}
		for j := 0; j < i; j++ {
			if !levels[j].enabled && levels[j].fixed == "" {
				issues = append(issues, fmt.Sprintf("cấp '%s' bật nhưng cấp trên '%s' không động cũng không cố định", lv.name, levels[j].name))
				break
			}
		}
	}
	return issues
}
