// Package global giữ các biến dùng chung toàn ứng dụng, được gán một lần
// trong giai đoạn khởi tạo server.
package global

import (
	"meta_forms/config"
	"meta_forms/internal/registry"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// MongoDBServer là client MongoDB dùng chung
	MongoDBServer *mongo.Client

	// ServerConfig là cấu hình server đã nạp
	ServerConfig *config.Configuration

	// RegistryCollections quản lý các collection MongoDB theo tên
	RegistryCollections = registry.NewRegistry[*mongo.Collection](nil)
)

// Tên các collection MongoDB của hệ thống
const (
	ColFormSchemas = "form_schemas"
	ColSubmissions = "form_submissions"
	ColStates      = "states"
	ColDistricts   = "districts"
	ColAssemblies  = "legislative_assemblies"
	ColBooths      = "booths"
)

// CollectionNames liệt kê toàn bộ collection để khởi tạo database
var CollectionNames = []string{
	ColFormSchemas,
	ColSubmissions,
	ColStates,
	ColDistricts,
	ColAssemblies,
	ColBooths,
}

// GetCollection lấy collection theo tên từ registry. Panic nếu chưa được
// đăng ký (lỗi thứ tự khởi tạo, không phải lỗi runtime).
func GetCollection(name string) *mongo.Collection {
	return RegistryCollections.MustGet(name)
}
