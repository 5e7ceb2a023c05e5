package utility

import (
	"go.mongodb.org/mongo-driver/bson"
)

// ToMap chuyển struct sang map[string]any theo bson tag, dùng khi cần
// thao tác document trước khi ghi (thêm timestamps, bỏ field rỗng...).
func ToMap(data any) (map[string]any, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := bson.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ToBsonM chuyển struct sang bson.M, giữ nguyên hành vi của ToMap
func ToBsonM(data any) (bson.M, error) {
	m, err := ToMap(data)
	if err != nil {
		return nil, err
	}
	return bson.M(m), nil
}
