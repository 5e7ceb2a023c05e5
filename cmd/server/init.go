package main

import (
	"context"
	"time"

	"meta_forms/config"
	"meta_forms/internal/database"
	"meta_forms/internal/global"
	"meta_forms/internal/logger"
)

// initConfig nạp cấu hình server vào global
func initConfig() {
	global.ServerConfig = config.NewConfig()
}

// initLogger khởi tạo hệ thống log theo cấu hình
func initLogger() error {
	logConfig := logger.DefaultConfig()
	logConfig.Level = global.ServerConfig.LogLevel
	logConfig.LogDir = global.ServerConfig.LogDir
	return logger.Init(logConfig)
}

// initValidator khởi tạo validator dùng chung và các validation tùy chỉnh
func initValidator() {
	global.InitValidator()
}

// initDatabase kết nối MongoDB, đảm bảo collection tồn tại, đăng ký
// collection vào registry và đồng bộ index theo model.
func initDatabase() error {
	client, err := database.ConnectMongoDB(global.ServerConfig.MongoDBUri)
	if err != nil {
		return err
	}
	global.MongoDBServer = client

	if err := database.EnsureDatabaseAndCollections(client, global.ServerConfig.MongoDBName, global.CollectionNames); err != nil {
		return err
	}

	db := client.Database(global.ServerConfig.MongoDBName)
	for _, name := range global.CollectionNames {
		global.RegistryCollections.Update(name, db.Collection(name))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return initIndexes(ctx)
}
