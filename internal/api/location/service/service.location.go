// Package service chứa nghiệp vụ của domain location: danh sách lookup
// theo cấp và bảng tra id → tên phục vụ chuẩn hóa submission.
package service

import (
	"context"

	baseservice "meta_forms/internal/api/base/service"
	"meta_forms/internal/api/form/engine"
	formmodels "meta_forms/internal/api/form/models"
	"meta_forms/internal/api/location/models"
	"meta_forms/internal/common"
	"meta_forms/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LocationService gom bốn cấp địa bàn sau một mặt tiền chung
type LocationService struct {
	States     *baseservice.BaseServiceMongoImpl[models.State]
	Districts  *baseservice.BaseServiceMongoImpl[models.District]
	Assemblies *baseservice.BaseServiceMongoImpl[models.LegislativeAssembly]
	Booths     *baseservice.BaseServiceMongoImpl[models.Booth]
}

// NewLocationService tạo LocationService trên các collection địa bàn
func NewLocationService() *LocationService {
	return &LocationService{
		States:     baseservice.NewBaseServiceMongo[models.State](global.GetCollection(global.ColStates)),
		Districts:  baseservice.NewBaseServiceMongo[models.District](global.GetCollection(global.ColDistricts)),
		Assemblies: baseservice.NewBaseServiceMongo[models.LegislativeAssembly](global.GetCollection(global.ColAssemblies)),
		Booths:     baseservice.NewBaseServiceMongo[models.Booth](global.GetCollection(global.ColBooths)),
	}
}

// sortByName sắp theo tên để dropdown hiển thị ổn định
var sortByName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

// ListStates trả về toàn bộ state
func (s *LocationService) ListStates(ctx context.Context) ([]models.State, error) {
	return s.States.Find(ctx, bson.M{}, sortByName)
}

// ListDistricts trả về các district thuộc một state
func (s *LocationService) ListDistricts(ctx context.Context, parentID primitive.ObjectID) ([]models.District, error) {
	return s.Districts.Find(ctx, bson.M{"parentId": parentID}, sortByName)
}

// ListAssemblies trả về các legislative assembly thuộc một district
func (s *LocationService) ListAssemblies(ctx context.Context, parentID primitive.ObjectID) ([]models.LegislativeAssembly, error) {
	return s.Assemblies.Find(ctx, bson.M{"parentId": parentID}, sortByName)
}

// ListBooths trả về các booth thuộc một legislative assembly
func (s *LocationService) ListBooths(ctx context.Context, parentID primitive.ObjectID) ([]models.Booth, error) {
	return s.Booths.Find(ctx, bson.M{"parentId": parentID}, sortByName)
}

// locationRow là projection (_id, name) dùng khi dựng bảng tra
type locationRow struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

// loadLookupTable nạp toàn bộ (id → name) của một collection
func loadLookupTable(ctx context.Context, collection *mongo.Collection) (map[string]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1})
	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	table := map[string]string{}
	for cursor.Next(ctx) {
		var row locationRow
		if err := cursor.Decode(&row); err != nil {
			return nil, common.ConvertMongoError(err)
		}
		table[row.ID.Hex()] = row.Name
	}
	return table, common.ConvertMongoError(cursor.Err())
}

// BuildLookup hiện thực service.LocationLookupProvider của domain form:
// dựng bảng tra id → label cho các cấp đang hoạt động (động hoặc fixed)
// của một form. Cấp tắt hẳn không nạp để tránh kéo dữ liệu thừa.
func (s *LocationService) BuildLookup(ctx context.Context, cfg *formmodels.LocationDropdownConfig) (engine.LocationLookup, error) {
	lookup := engine.LocationLookup{}
	if cfg == nil {
		return lookup, nil
	}

	type level struct {
		name       string
		active     bool
		collection *mongo.Collection
	}
	levels := []level{
		{engine.LocationFieldState, cfg.State || cfg.FixedState != "", s.States.Collection()},
		{engine.LocationFieldDistrict, cfg.District || cfg.FixedDistrict != "", s.Districts.Collection()},
		{engine.LocationFieldAssembly, cfg.LegislativeAssembly || cfg.FixedLegislativeAssembly != "", s.Assemblies.Collection()},
		{engine.LocationFieldBooth, cfg.Booth, s.Booths.Collection()},
	}

	for _, lv := range levels {
		if !lv.active {
			continue
		}
		table, err := loadLookupTable(ctx, lv.collection)
		if err != nil {
			return nil, err
		}
		lookup[lv.name] = table
	}
	return lookup, nil
}
