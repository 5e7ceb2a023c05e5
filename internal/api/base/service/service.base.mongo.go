// Package service cung cấp tầng service generic cho MongoDB: CRUD kèm
// timestamps, phân trang, chuyển đổi lỗi và phát event thay đổi dữ liệu.
package service

import (
	"context"
	"time"

	"meta_forms/internal/api/events"
	"meta_forms/internal/common"
	"meta_forms/internal/utility"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpdateData mô tả một thao tác update MongoDB có cấu trúc
type UpdateData struct {
	Set   bson.M // Các field cần set
	Unset bson.M // Các field cần xóa
	Push  bson.M // Các field cần push vào array
}

// ToUpdateData chuyển struct/map sang UpdateData với toàn bộ field nằm
// trong $set. Field chuỗi rỗng bị loại để không ghi đè giá trị cũ bằng rỗng.
func ToUpdateData(data any) (*UpdateData, error) {
	dataMap, err := utility.ToMap(data)
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Không thể chuyển dữ liệu update", common.StatusBadRequest, err)
	}
	for key, value := range dataMap {
		if s, ok := value.(string); ok && s == "" {
			delete(dataMap, key)
		}
	}
	return &UpdateData{Set: dataMap}, nil
}

// toBsonUpdate chuyển UpdateData sang document update của MongoDB
func (u *UpdateData) toBsonUpdate() bson.M {
	update := bson.M{}
	if len(u.Set) > 0 {
		update["$set"] = u.Set
	}
	if len(u.Unset) > 0 {
		update["$unset"] = u.Unset
	}
	if len(u.Push) > 0 {
		update["$push"] = u.Push
	}
	return update
}

// PaginateResult chứa kết quả phân trang
type PaginateResult[T any] struct {
	Page      int64 `json:"page"`
	Limit     int64 `json:"limit"`
	ItemCount int64 `json:"itemCount"`
	Items     []T   `json:"items"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// HasNextPage cho biết còn trang sau hay không
func (p *PaginateResult[T]) HasNextPage() bool {
	return p.Page < p.TotalPage
}

// BaseServiceMongo định nghĩa các thao tác CRUD cơ bản trên một collection
type BaseServiceMongo[T any] interface {
	InsertOne(ctx context.Context, data T) (T, error)
	InsertMany(ctx context.Context, data []T) (int64, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (T, error)
	FindOne(ctx context.Context, filter bson.M) (T, error)
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error)
	FindWithPagination(ctx context.Context, filter bson.M, page, limit int64) (*PaginateResult[T], error)
	UpdateById(ctx context.Context, id primitive.ObjectID, update *UpdateData) (T, error)
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	Collection() *mongo.Collection
}

// BaseServiceMongoImpl là hiện thực generic của BaseServiceMongo
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo service mới trên collection cho trước
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{collection: collection}
}

// Collection trả về collection gốc cho các truy vấn đặc thù của domain
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne thêm một document: thêm timestamps (UnixMilli), bỏ các field
// chuỗi rỗng (giữ sparse index hoạt động), ghi và đọc lại document hoàn chỉnh.
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	dataMap, err := utility.ToMap(data)
	if err != nil {
		return zero, common.NewError(common.ErrCodeValidationFormat, "Không thể chuyển dữ liệu insert", common.StatusBadRequest, err)
	}
	for key, value := range dataMap {
		if str, ok := value.(string); ok && str == "" {
			delete(dataMap, key)
		}
	}
	delete(dataMap, "_id")

	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	inserted, err := s.FindOne(ctx, bson.M{"_id": result.InsertedID})
	if err != nil {
		return zero, err
	}

	events.EmitDataChanged(events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      events.OpInsert,
		Document:       inserted,
	})
	return inserted, nil
}

// InsertMany thêm nhiều document trong một lệnh ghi, trả về số lượng đã ghi
func (s *BaseServiceMongoImpl[T]) InsertMany(ctx context.Context, data []T) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	now := time.Now().UnixMilli()
	docs := make([]any, 0, len(data))
	for _, item := range data {
		dataMap, err := utility.ToMap(item)
		if err != nil {
			return 0, common.NewError(common.ErrCodeValidationFormat, "Không thể chuyển dữ liệu insert", common.StatusBadRequest, err)
		}
		for key, value := range dataMap {
			if str, ok := value.(string); ok && str == "" {
				delete(dataMap, key)
			}
		}
		delete(dataMap, "_id")
		dataMap["createdAt"] = now
		dataMap["updatedAt"] = now
		docs = append(docs, dataMap)
	}

	result, err := s.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}

	events.EmitDataChanged(events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      events.OpInsert,
		Document:       nil,
	})
	return int64(len(result.InsertedIDs)), nil
}

// FindOneById tìm document theo _id
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id})
}

// FindOne tìm một document theo filter
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter bson.M) (T, error) {
	var result T
	err := s.collection.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return result, common.ErrNotFound
		}
		return result, common.ConvertMongoError(err)
	}
	return result, nil
}

// Find tìm nhiều document theo filter
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindWithPagination tìm document theo filter với phân trang, sắp xếp
// mới nhất trước (createdAt giảm dần).
func (s *BaseServiceMongoImpl[T]) FindWithPagination(ctx context.Context, filter bson.M, page, limit int64) (*PaginateResult[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	items, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	totalPage := total / limit
	if total%limit != 0 {
		totalPage++
	}

	return &PaginateResult[T]{
		Page:      page,
		Limit:     limit,
		ItemCount: int64(len(items)),
		Items:     items,
		Total:     total,
		TotalPage: totalPage,
	}, nil
}

// UpdateById cập nhật document theo _id, tự động cập nhật updatedAt,
// trả về document sau khi cập nhật.
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, update *UpdateData) (T, error) {
	var zero T
	if update == nil {
		return zero, common.ErrInvalidInput
	}

	if update.Set == nil {
		update.Set = bson.M{}
	}
	update.Set["updatedAt"] = time.Now().UnixMilli()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result T
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update.toBsonUpdate(), opts).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}

	events.EmitDataChanged(events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      events.OpUpdate,
		Document:       result,
	})
	return result, nil
}

// DeleteById xóa document theo _id. Trả về ErrNotFound nếu không có.
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	// Đọc trước để event mang document đã xóa
	doc, err := s.FindOneById(ctx, id)
	if err != nil {
		return err
	}

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}

	events.EmitDataChanged(events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      events.OpDelete,
		Document:       doc,
	})
	return nil
}

// DeleteMany xóa nhiều document theo filter, trả về số lượng đã xóa
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}

	events.EmitDataChanged(events.DataChangeEvent{
		CollectionName: s.collection.Name(),
		Operation:      events.OpDelete,
		Document:       nil,
	})
	return result.DeletedCount, nil
}

// CountDocuments đếm số document khớp filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}
