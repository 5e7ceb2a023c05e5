package database

import (
	"context"
	"fmt"
	"time"

	"meta_forms/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectMongoDB kết nối tới MongoDB và ping kiểm tra trước khi trả về client
func ConnectMongoDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("không thể kết nối MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("không thể ping MongoDB: %w", err)
	}

	logger.GetAppLogger().Info("✅ Kết nối MongoDB thành công")
	return client, nil
}

// DisconnectMongoDB ngắt kết nối MongoDB khi shutdown
func DisconnectMongoDB(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.GetAppLogger().Errorf("Lỗi ngắt kết nối MongoDB: %v", err)
	}
}
