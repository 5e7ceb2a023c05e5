// Package handler cung cấp tầng handler generic: parse request, validate
// input, chuẩn hóa response envelope và bộ handler CRUD dùng chung.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"meta_forms/internal/common"
	"meta_forms/internal/global"
	"meta_forms/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilterOptions giới hạn filter client được phép gửi lên khi query danh sách
type FilterOptions struct {
	DeniedFields     []string // Các field không cho phép filter
	AllowedOperators []string // Các toán tử Mongo được phép ($eq, $in...)
	MaxFields        int      // Số field tối đa trong một filter
}

// DefaultFilterOptions trả về cấu hình filter mặc định
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		DeniedFields:     []string{},
		AllowedOperators: []string{"$eq", "$ne", "$gt", "$gte", "$lt", "$lte", "$in", "$regex"},
		MaxFields:        10,
	}
}

// SafeHandler bọc handler với recover để panic trong handler không làm
// chết process, trả về 500 cho client.
func SafeHandler(fn fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().Errorf("handler panic: %v", r)
					err = JSONResponse(c, common.StatusInternalServerError, fiber.Map{
						"code":    common.ErrCodeInternalServer.Code,
						"message": common.MsgInternalError,
						"status":  "error",
					})
				}
			}()
			err = fn(c)
		}()
		return err
	}
}

// JSONResponse ghi JSON response với charset utf-8 rõ ràng (label tiếng
// Hindi/Devanagari cần hiển thị đúng trên mọi client).
func JSONResponse(c fiber.Ctx, statusCode int, data any) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.Status(statusCode).Send(body)
}

// HandleResponse chuẩn hóa response envelope {code, message, data, status}.
// Nếu err là *common.Error thì dùng status code và mã lỗi của nó.
func HandleResponse(c fiber.Ctx, data any, err error) error {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			return JSONResponse(c, customErr.StatusCode, fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"details": customErr.Details,
				"status":  "error",
			})
		}
		return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": err.Error(),
			"status":  "error",
		})
	}

	return JSONResponse(c, common.StatusOK, fiber.Map{
		"code":    common.StatusOK,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// ParseRequestBody parse body JSON vào struct đích. Dùng json.Decoder với
// UseNumber để không mất độ chính xác số lớn (id, timestamp).
func ParseRequestBody(c fiber.Ctx, dest any) error {
	body := c.Body()
	if len(body) == 0 {
		return common.NewError(common.ErrCodeValidationInput, "Body không được để trống", common.StatusBadRequest, nil)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgInvalidFormat, common.StatusBadRequest, err.Error())
	}
	return nil
}

// ValidateInput chạy validator dùng chung trên struct input
func ValidateInput(input any) error {
	if global.Validate == nil {
		return nil
	}
	if err := global.Validate.Struct(input); err != nil {
		return common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	return nil
}

// ParseObjectID lấy và parse một path param thành ObjectID
func ParseObjectID(c fiber.Ctx, paramName string) (primitive.ObjectID, error) {
	raw := c.Params(paramName)
	objectID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "Id không hợp lệ: "+raw, common.StatusBadRequest, nil)
	}
	return objectID, nil
}

// ParseFilter parse query param `filter` (JSON) thành bson.M đã chuẩn hóa
// theo FilterOptions. Filter rỗng trả về bson.M{}.
func ParseFilter(c fiber.Ctx, opts FilterOptions) (bson.M, error) {
	raw := c.Query("filter")
	if raw == "" {
		return bson.M{}, nil
	}

	var filter map[string]any
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&filter); err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Filter không phải JSON hợp lệ", common.StatusBadRequest, nil)
	}

	return normalizeFilter(filter, opts)
}

// normalizeFilter kiểm tra filter theo FilterOptions và ép các giá trị
// dạng hex ObjectID của field id về primitive.ObjectID.
func normalizeFilter(filter map[string]any, opts FilterOptions) (bson.M, error) {
	if opts.MaxFields > 0 && len(filter) > opts.MaxFields {
		return nil, common.NewError(common.ErrCodeValidationInput, "Filter có quá nhiều field", common.StatusBadRequest, nil)
	}

	denied := make(map[string]bool, len(opts.DeniedFields))
	for _, f := range opts.DeniedFields {
		denied[f] = true
	}
	allowedOps := make(map[string]bool, len(opts.AllowedOperators))
	for _, op := range opts.AllowedOperators {
		allowedOps[op] = true
	}

	result := bson.M{}
	for field, value := range filter {
		if denied[field] {
			return nil, common.NewError(common.ErrCodeValidationInput, "Không được phép filter theo field: "+field, common.StatusBadRequest, nil)
		}

		// Giá trị là map => các toán tử Mongo
		if opMap, ok := value.(map[string]any); ok {
			normalized := bson.M{}
			for op, opValue := range opMap {
				if !allowedOps[op] {
					return nil, common.NewError(common.ErrCodeValidationInput, "Toán tử không được phép: "+op, common.StatusBadRequest, nil)
				}
				normalized[op] = coerceFilterValue(field, opValue)
			}
			result[field] = normalized
			continue
		}

		result[field] = coerceFilterValue(field, value)
	}
	return result, nil
}

// coerceFilterValue ép chuỗi hex 24 ký tự của các field id về ObjectID
func coerceFilterValue(field string, value any) any {
	if field != "_id" && field != "formId" && field != "parentId" {
		return value
	}
	if s, ok := value.(string); ok {
		if objectID, err := primitive.ObjectIDFromHex(s); err == nil {
			return objectID
		}
	}
	return value
}
