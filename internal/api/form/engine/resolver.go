package engine

import (
	"meta_forms/internal/api/form/models"
	"meta_forms/internal/utility"
)

// Tên field cố định của chuỗi dropdown địa bàn, theo thứ tự từ cấp cao
// xuống cấp thấp. Đây cũng là key lưu trong dữ liệu submission.
const (
	LocationFieldState    = "state"
	LocationFieldDistrict = "district"
	LocationFieldAssembly = "legislativeAssembly"
	LocationFieldBooth    = "booth"
)

// LocationFieldOrder là thứ tự cấp của chuỗi địa bàn
var LocationFieldOrder = []string{
	LocationFieldState,
	LocationFieldDistrict,
	LocationFieldAssembly,
	LocationFieldBooth,
}

// VisibleOptions là kết quả tính option hiển thị cho một field select
type VisibleOptions struct {
	Options []models.FieldOption
	Enabled bool
}

// ComputeVisibleOptions tính danh sách option hiển thị của một field theo
// giá trị hiện tại của form. Hàm thuần, không bao giờ panic:
//   - Field không có dependsOn: trả nguyên danh sách option, giữ thứ tự.
//   - dependsOn trỏ tới field không tồn tại trong schema: field bị
//     disable vĩnh viễn, danh sách rỗng.
//   - Field cha chưa có giá trị: disable, danh sách rỗng.
//   - Ngược lại: lọc các option có parentValue đúng bằng giá trị cha,
//     giữ nguyên thứ tự khai báo.
func ComputeVisibleOptions(schema *models.FormSchema, field *models.FieldDefinition, values map[string]any) VisibleOptions {
	if field == nil {
		return VisibleOptions{Options: []models.FieldOption{}, Enabled: false}
	}

	if field.DependsOn == "" {
		options := make([]models.FieldOption, len(field.Options))
		copy(options, field.Options)
		return VisibleOptions{Options: options, Enabled: true}
	}

	if schema == nil || schema.FieldByName(field.DependsOn) == nil {
		return VisibleOptions{Options: []models.FieldOption{}, Enabled: false}
	}

	parentRaw, exists := values[field.DependsOn]
	parentValue := utility.ToString(parentRaw)
	if !exists || parentValue == "" {
		return VisibleOptions{Options: []models.FieldOption{}, Enabled: false}
	}

	visible := []models.FieldOption{}
	for _, option := range field.Options {
		if option.ParentValue == parentValue {
			visible = append(visible, option)
		}
	}
	return VisibleOptions{Options: visible, Enabled: true}
}

// ApplyValueChange ghi giá trị mới cho một field và xóa giá trị của toàn
// bộ các field phụ thuộc (trực tiếp lẫn bắc cầu) vào field đó. Duyệt BFS
// có đánh dấu visited nên schema chứa vòng phụ thuộc (dữ liệu cũ sai)
// cũng không lặp vô hạn. Trả về map giá trị mới, không sửa map đầu vào.
func ApplyValueChange(schema *models.FormSchema, values map[string]any, name string, value any) map[string]any {
	next := make(map[string]any, len(values)+1)
	for k, v := range values {
		next[k] = v
	}
	next[name] = value

	if schema == nil {
		return next
	}

	queue := []string{name}
	visited := map[string]bool{name: true}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for i := range schema.Fields {
			field := &schema.Fields[i]
			if field.DependsOn != current || visited[field.Name] {
				continue
			}
			visited[field.Name] = true
			delete(next, field.Name)
			queue = append(queue, field.Name)
		}
	}
	return next
}

// ApplyLocationChange ghi giá trị mới cho một cấp địa bàn và xóa giá trị
// mọi cấp thấp hơn, cùng cơ chế với ApplyValueChange. level không nằm
// trong chuỗi địa bàn thì chỉ ghi giá trị, không xóa gì.
func ApplyLocationChange(values map[string]any, level string, value any) map[string]any {
	next := make(map[string]any, len(values)+1)
	for k, v := range values {
		next[k] = v
	}
	next[level] = value

	clearing := false
	for _, name := range LocationFieldOrder {
		if clearing {
			delete(next, name)
		}
		if name == level {
			clearing = true
		}
	}
	return next
}
