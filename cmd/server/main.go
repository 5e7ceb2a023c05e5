package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	formrouter "meta_forms/internal/api/form/router"
	locationrouter "meta_forms/internal/api/location/router"
	"meta_forms/internal/api/router"
	uploadrouter "meta_forms/internal/api/upload/router"
	uploadservice "meta_forms/internal/api/upload/service"
	"meta_forms/internal/database"
	"meta_forms/internal/global"
	"meta_forms/internal/logger"
	"meta_forms/internal/worker"
)

func main() {
	initConfig()

	if err := initLogger(); err != nil {
		panic(err)
	}
	defer logger.Close()
	log := logger.GetAppLogger()

	if err := initDatabase(); err != nil {
		log.Fatalf("Khởi tạo database thất bại: %v", err)
	}
	defer database.DisconnectMongoDB(global.MongoDBServer)

	initValidator()

	app := newFiberApp()
	if err := router.SetupRoutes(app,
		formrouter.Register,
		locationrouter.Register,
		uploadrouter.Register,
	); err != nil {
		log.Fatalf("Đăng ký route thất bại: %v", err)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	worker.StartJobCleanupWorker(workerCtx, uploadservice.DefaultJobManager,
		time.Duration(global.ServerConfig.JobCleanupInterval)*time.Second,
		time.Duration(global.ServerConfig.JobRetention)*time.Second,
	)

	go func() {
		log.Infof("🚀 Server lắng nghe tại %s", global.ServerConfig.Address)
		if err := app.Listen(global.ServerConfig.Address); err != nil {
			log.Fatalf("Server dừng với lỗi: %v", err)
		}
	}()

	// Graceful shutdown: dừng nhận request, dừng worker, flush log
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Đang shutdown server...")
	stopWorkers()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Shutdown không sạch: %v", err)
	}
	log.Info("Server đã dừng")
}
