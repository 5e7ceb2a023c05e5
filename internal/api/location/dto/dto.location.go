// Package dto định nghĩa các cấu trúc request của domain location.
package dto

// StateCreateInput là body tạo state (seeding từ dashboard admin)
type StateCreateInput struct {
	Name string `json:"name" validate:"required,no_xss"`
}

// ChildLocationCreateInput là body tạo district/assembly/booth
type ChildLocationCreateInput struct {
	Name     string `json:"name" validate:"required,no_xss"`
	ParentID string `json:"parentId" validate:"required,len=24,hexadecimal"`
}

// LocationUpdateInput là body đổi tên một đơn vị địa bàn
type LocationUpdateInput struct {
	Name string `json:"name" validate:"required,no_xss"`
}
