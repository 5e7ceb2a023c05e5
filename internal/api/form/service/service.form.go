// Package service chứa nghiệp vụ của domain form: quản lý schema và
// submission trên nền tầng service generic.
package service

import (
	"context"

	baseservice "meta_forms/internal/api/base/service"
	"meta_forms/internal/api/form/engine"
	"meta_forms/internal/api/form/models"
	"meta_forms/internal/common"
	"meta_forms/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationLookupProvider cung cấp bảng tra id → label của các cấp địa bàn.
// Domain location hiện thực interface này; khai báo ở đây để domain form
// không phải import ngược domain location.
type LocationLookupProvider interface {
	BuildLookup(ctx context.Context, cfg *models.LocationDropdownConfig) (engine.LocationLookup, error)
}

// FormService quản lý form schema
type FormService struct {
	*baseservice.BaseServiceMongoImpl[models.FormSchema]
}

// NewFormService tạo FormService trên collection form_schemas
func NewFormService() *FormService {
	return &FormService{
		BaseServiceMongoImpl: baseservice.NewBaseServiceMongo[models.FormSchema](global.GetCollection(global.ColFormSchemas)),
	}
}

// CreateForm chuẩn hóa rồi validate schema trước khi lưu. Schema không
// hợp lệ trả về lỗi FORM_001 kèm danh sách vấn đề.
func (s *FormService) CreateForm(ctx context.Context, schema models.FormSchema) (models.FormSchema, error) {
	engine.NormalizeSchema(&schema)
	if err := engine.ValidateSchema(&schema); err != nil {
		schemaErr := err.(*engine.SchemaError)
		return models.FormSchema{}, common.NewError(common.ErrCodeFormSchema, "Schema không hợp lệ", common.StatusBadRequest, schemaErr.Issues)
	}
	return s.InsertOne(ctx, schema)
}

// GetForm lấy form theo id, trả ErrFormNotFound nếu không có
func (s *FormService) GetForm(ctx context.Context, id primitive.ObjectID) (models.FormSchema, error) {
	form, err := s.FindOneById(ctx, id)
	if err != nil {
		if err == common.ErrNotFound {
			return models.FormSchema{}, common.ErrFormNotFound
		}
		return models.FormSchema{}, err
	}
	return form, nil
}

// SubmissionService quản lý submission của form
type SubmissionService struct {
	*baseservice.BaseServiceMongoImpl[models.Submission]

	forms   *FormService
	lookups LocationLookupProvider
}

// NewSubmissionService tạo SubmissionService trên collection form_submissions
func NewSubmissionService(forms *FormService, lookups LocationLookupProvider) *SubmissionService {
	return &SubmissionService{
		BaseServiceMongoImpl: baseservice.NewBaseServiceMongo[models.Submission](global.GetCollection(global.ColSubmissions)),
		forms:                forms,
		lookups:              lookups,
	}
}

// BuildLocationLookup dựng bảng tra địa bàn cho một config (dùng lại từ
// pipeline bulk ingestion)
func (s *SubmissionService) BuildLocationLookup(ctx context.Context, cfg *models.LocationDropdownConfig) (engine.LocationLookup, error) {
	if s.lookups == nil {
		return engine.LocationLookup{}, nil
	}
	return s.lookups.BuildLookup(ctx, cfg)
}

// buildPayload nạp bảng tra địa bàn rồi dựng payload qua engine
func (s *SubmissionService) buildPayload(ctx context.Context, form *models.FormSchema, raw map[string]any) (map[string]any, error) {
	lookup := engine.LocationLookup{}
	if s.lookups != nil && form.LocationConfig != nil {
		var err error
		lookup, err = s.lookups.BuildLookup(ctx, form.LocationConfig)
		if err != nil {
			return nil, err
		}
	}

	payload, err := engine.BuildSubmissionPayload(form, raw, lookup)
	if err != nil {
		validationErr := err.(*engine.SubmissionValidationError)
		return nil, common.NewError(common.ErrCodeFormSubmission, "Dữ liệu submission không hợp lệ", common.StatusBadRequest, validationErr.FieldErrors)
	}
	return payload, nil
}

// CreateSubmission validate và lưu một submission cho form
func (s *SubmissionService) CreateSubmission(ctx context.Context, formID primitive.ObjectID, raw map[string]any) (models.Submission, error) {
	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return models.Submission{}, err
	}

	payload, err := s.buildPayload(ctx, &form, raw)
	if err != nil {
		return models.Submission{}, err
	}

	return s.InsertOne(ctx, models.Submission{FormID: formID, Data: payload})
}

// CreateBulk validate và lưu nhiều submission trong một lệnh ghi.
// Danh sách rỗng là lỗi. Một dòng không hợp lệ làm hỏng cả batch, kèm
// chỉ số dòng trong chi tiết lỗi.
func (s *SubmissionService) CreateBulk(ctx context.Context, formID primitive.ObjectID, rows []map[string]any) (int64, error) {
	if len(rows) == 0 {
		return 0, common.ErrEmptyBulkData
	}

	form, err := s.forms.GetForm(ctx, formID)
	if err != nil {
		return 0, err
	}

	lookup := engine.LocationLookup{}
	if s.lookups != nil && form.LocationConfig != nil {
		lookup, err = s.lookups.BuildLookup(ctx, form.LocationConfig)
		if err != nil {
			return 0, err
		}
	}

	docs := make([]models.Submission, 0, len(rows))
	for i, raw := range rows {
		payload, err := engine.BuildSubmissionPayload(&form, raw, lookup)
		if err != nil {
			validationErr := err.(*engine.SubmissionValidationError)
			return 0, common.NewError(common.ErrCodeFormSubmission, "Dữ liệu không hợp lệ", common.StatusBadRequest, map[string]any{
				"row":    i + 1,
				"errors": validationErr.FieldErrors,
			})
		}
		docs = append(docs, models.Submission{FormID: formID, Data: payload})
	}

	inserted, err := s.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	// Event InsertMany không mang document nên không tự kích hoạt counter
	s.forms.RefreshSubmissionCount(ctx, formID)
	return inserted, nil
}

// ListSubmissions phân trang submission của một form, mới nhất trước
func (s *SubmissionService) ListSubmissions(ctx context.Context, formID primitive.ObjectID, page, limit int64) (*baseservice.PaginateResult[models.Submission], error) {
	return s.FindWithPagination(ctx, bson.M{"formId": formID}, page, limit)
}

// DeleteByForm xóa toàn bộ submission của một form
func (s *SubmissionService) DeleteByForm(ctx context.Context, formID primitive.ObjectID) (int64, error) {
	return s.DeleteMany(ctx, bson.M{"formId": formID})
}

// DeleteForm xóa form. keepSubmissions=false thì xóa luôn toàn bộ
// submission của form; true thì giữ lại dữ liệu (form mồ côi có chủ đích,
// phục vụ trường hợp đổi schema nhưng muốn giữ dữ liệu cũ).
func (s *SubmissionService) DeleteForm(ctx context.Context, formID primitive.ObjectID, keepSubmissions bool) error {
	if err := s.forms.DeleteById(ctx, formID); err != nil {
		if err == common.ErrNotFound {
			return common.ErrFormNotFound
		}
		return err
	}
	if !keepSubmissions {
		if _, err := s.DeleteByForm(ctx, formID); err != nil {
			return err
		}
	}
	return nil
}
