package engine

import (
	"meta_forms/internal/api/form/models"
	"meta_forms/internal/utility"
)

// LocationLookup ánh xạ cấp địa bàn → (id → label hiển thị). Dùng khi
// chuẩn hóa submission để thay id bằng tên địa bàn người đọc hiểu được.
type LocationLookup map[string]map[string]string

// BuildSubmissionPayload dựng payload submission từ giá trị thô:
//   - Các cấp địa bàn đang hoạt động (động hoặc fixed): thay id bằng
//     label qua lookup. Id không tra được thì lặng lẽ bỏ qua, không lỗi;
//     submission vẫn được nhận, chỉ thiếu thông tin địa bàn đó.
//   - Field của schema: báo lỗi theo tên field nếu required mà trống;
//     ép kiểu tối thiểu: checkbox → bool, number → số, còn lại → chuỗi.
//
// Trả về payload và *SubmissionValidationError nếu có field lỗi.
func BuildSubmissionPayload(schema *models.FormSchema, raw map[string]any, lookups LocationLookup) (map[string]any, error) {
	payload := map[string]any{}
	fieldErrors := map[string]string{}

	resolveLocations(schema, raw, lookups, payload)

	for i := range schema.Fields {
		field := &schema.Fields[i]
		value, exists := raw[field.Name]

		switch field.Type {
		case models.FieldTypeCheckbox:
			if !exists {
				if field.Required {
					fieldErrors[field.Name] = "Thiếu thông tin bắt buộc"
					continue
				}
				continue
			}
			payload[field.Name] = utility.ToBool(value)

		case models.FieldTypeNumber:
			if !exists || utility.ToString(value) == "" {
				if field.Required {
					fieldErrors[field.Name] = "Thiếu thông tin bắt buộc"
				}
				continue
			}
			number, ok := utility.ToFloat64(value)
			if !ok {
				fieldErrors[field.Name] = "Giá trị phải là số"
				continue
			}
			payload[field.Name] = number

		default:
			str := utility.ToString(value)
			if !exists || str == "" {
				if field.Required {
					fieldErrors[field.Name] = "Thiếu thông tin bắt buộc"
				}
				continue
			}
			payload[field.Name] = str
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &SubmissionValidationError{FieldErrors: fieldErrors}
	}
	return payload, nil
}

// resolveLocations thay id địa bàn bằng label cho các cấp đang hoạt động.
// Cấp fixed lấy id từ config khi raw không mang giá trị.
func resolveLocations(schema *models.FormSchema, raw map[string]any, lookups LocationLookup, payload map[string]any) {
	cfg := schema.LocationConfig
	if cfg == nil {
		return
	}

	type level struct {
		name    string
		active  bool
		fixedID string
	}
	levels := []level{
		{LocationFieldState, cfg.State, cfg.FixedState},
		{LocationFieldDistrict, cfg.District, cfg.FixedDistrict},
		{LocationFieldAssembly, cfg.LegislativeAssembly, cfg.FixedLegislativeAssembly},
		{LocationFieldBooth, cfg.Booth, ""},
	}

	for _, lv := range levels {
		if !lv.active && lv.fixedID == "" {
			continue
		}

		id := utility.ToString(raw[lv.name])
		if id == "" {
			id = lv.fixedID
		}
		if id == "" {
			continue
		}

		table := lookups[lv.name]
		if table == nil {
			continue
		}
		if label, found := table[id]; found {
			payload[lv.name] = label
		}
		// Id không tra được: bỏ qua, không ghi id thô vào payload
	}
}
