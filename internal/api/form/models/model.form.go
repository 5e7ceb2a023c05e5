// Package models định nghĩa các model MongoDB của domain form.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldType là loại field trong form
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypePassword FieldType = "password"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeFile     FieldType = "file"
)

// ValidFieldTypes liệt kê các loại field hợp lệ
var ValidFieldTypes = map[FieldType]bool{
	FieldTypeText:     true,
	FieldTypeEmail:    true,
	FieldTypeCheckbox: true,
	FieldTypePassword: true,
	FieldTypeNumber:   true,
	FieldTypeDate:     true,
	FieldTypeTextarea: true,
	FieldTypeSelect:   true,
	FieldTypeFile:     true,
}

// FieldOption là một lựa chọn của field select. ParentValue rỗng nghĩa là
// option độc lập; khác rỗng nghĩa là option chỉ hiện khi field cha đang
// mang đúng giá trị đó. Trong một field, các option phải thuần nhất:
// hoặc tất cả có parentValue, hoặc không option nào có.
type FieldOption struct {
	ParentValue string `json:"parentValue,omitempty" bson:"parentValue,omitempty"`
	Value       string `json:"value" bson:"value"`
}

// FieldDefinition mô tả một field trong form schema
type FieldDefinition struct {
	Name      string        `json:"name" bson:"name"`
	Label     string        `json:"label" bson:"label"`
	Type      FieldType     `json:"type" bson:"type"`
	Required  bool          `json:"required" bson:"required"`
	Options   []FieldOption `json:"options,omitempty" bson:"options,omitempty"`
	DependsOn string        `json:"dependsOn,omitempty" bson:"dependsOn,omitempty"`
}

// LocationDropdownConfig cấu hình chuỗi dropdown địa bàn 4 cấp
// state → district → legislativeAssembly → booth. Mỗi cấp hoặc là
// dropdown động (toggle true), hoặc bị ghim vào một địa bàn cố định
// (fixed id, toggle false), hoặc tắt hẳn. Một cấp chỉ được động khi mọi
// cấp trên nó đều động hoặc cố định.
type LocationDropdownConfig struct {
	State               bool `json:"state" bson:"state"`
	District            bool `json:"district" bson:"district"`
	LegislativeAssembly bool `json:"legislativeAssembly" bson:"legislativeAssembly"`
	Booth               bool `json:"booth" bson:"booth"`

	FixedState               string `json:"fixedState,omitempty" bson:"fixedState,omitempty"`
	FixedDistrict            string `json:"fixedDistrict,omitempty" bson:"fixedDistrict,omitempty"`
	FixedLegislativeAssembly string `json:"fixedLegislativeAssembly,omitempty" bson:"fixedLegislativeAssembly,omitempty"`
}

// FormSchema là một form do admin định nghĩa
type FormSchema struct {
	ID              primitive.ObjectID      `json:"id" bson:"_id,omitempty"`
	FormName        string                  `json:"formName" bson:"formName" index:"single:1"`
	Fields          []FieldDefinition       `json:"fields" bson:"fields"`
	LocationConfig  *LocationDropdownConfig `json:"locationConfig,omitempty" bson:"locationConfig,omitempty"`
	SubmissionCount int64                   `json:"submissionCount" bson:"submissionCount"`
	CreatedAt       int64                   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       int64                   `json:"updatedAt" bson:"updatedAt"`
}

// FieldByName tìm field theo tên đã suy ra. Trả về nil nếu không có.
func (s *FormSchema) FieldByName(name string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Submission là một bản ghi dữ liệu của form. Bất biến sau khi tạo,
// chỉ có thể bị xóa.
type Submission struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FormID    primitive.ObjectID `json:"formId" bson:"formId" index:"single:1;compound:formId_createdAt"`
	Data      map[string]any     `json:"data" bson:"data"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt" index:"compound:formId_createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
