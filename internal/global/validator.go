package global

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validate là validator dùng chung cho toàn ứng dụng
var Validate *validator.Validate

var xssPattern = regexp.MustCompile(`(?i)<\s*script|javascript\s*:|on\w+\s*=`)

// InitValidator khởi tạo validator và đăng ký các validation tùy chỉnh
func InitValidator() {
	Validate = validator.New()

	// no_xss: chặn các chuỗi chứa mẫu script injection phổ biến
	_ = Validate.RegisterValidation("no_xss", func(fl validator.FieldLevel) bool {
		return !xssPattern.MatchString(fl.Field().String())
	})
}
