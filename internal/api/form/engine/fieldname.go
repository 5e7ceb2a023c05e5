// Package engine chứa phần lõi thuần (pure) của form engine: suy ra tên
// field từ label, resolver phụ thuộc giữa các field, validate schema,
// chuẩn hóa submission, đối chiếu header file import và export CSV.
// Mọi hàm trong package nhận (schema, values) và không giữ state toàn cục.
package engine

import (
	"strings"
	"unicode"
)

// isDevanagari kiểm tra rune nằm trong khối Devanagari (U+0900..U+097F).
// Khối này chứa cả các ký tự ghép như क्र (क + virama + र).
func isDevanagari(r rune) bool {
	return r >= 0x0900 && r <= 0x097F
}

// hasDevanagari kiểm tra label có chứa ký tự Devanagari hay không
func hasDevanagari(label string) bool {
	for _, r := range label {
		if isDevanagari(r) {
			return true
		}
	}
	return false
}

// DeriveFieldName suy ra tên field (key lưu trữ) từ label hiển thị.
// Quy tắc:
//   - Label chứa Devanagari: giữ nguyên đúng các ký tự Devanagari, bỏ
//     mọi ký tự khác (khoảng trắng, chấm câu, chữ Latin).
//   - Ngược lại: tách từ theo ký tự không phải chữ/số rồi ghép camelCase
//     (từ đầu viết thường, các từ sau viết hoa chữ cái đầu).
//
// Hàm này phải deterministic: cùng label luôn cho cùng tên, vì tên field
// là key của dữ liệu submission đã lưu.
func DeriveFieldName(label string) string {
	if hasDevanagari(label) {
		var b strings.Builder
		for _, r := range label {
			if isDevanagari(r) {
				b.WriteRune(r)
			}
		}
		return b.String()
	}

	words := splitWords(label)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		lower := strings.ToLower(word)
		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// splitWords tách label thành các từ gồm chữ/số, bỏ mọi ký tự khác
func splitWords(label string) []string {
	return strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
