package logger

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	appLogger    *logrus.Logger
	accessLogger *logrus.Logger
	appHook      *AsyncHook
	accessHook   *AsyncHook
	initOnce     sync.Once
)

// Init khởi tạo hai logger của hệ thống: app logger (log nghiệp vụ) và
// access logger (log request HTTP). Cả hai ghi file qua lumberjack có
// rotate, và ghi bất đồng bộ qua AsyncHook.
func Init(config *LogConfig) error {
	var initErr error
	initOnce.Do(func() {
		if config == nil {
			config = DefaultConfig()
		}
		if err := os.MkdirAll(config.LogDir, 0755); err != nil {
			initErr = err
			return
		}

		level, err := logrus.ParseLevel(config.Level)
		if err != nil {
			level = logrus.InfoLevel
		}

		formatter := &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
		}

		appLogger, appHook = newFileLogger(config, config.Filename, level, formatter)
		accessLogger, accessHook = newFileLogger(config, "access.log", level, formatter)
	})
	return initErr
}

// newFileLogger tạo một logrus.Logger ghi file qua lumberjack + AsyncHook
func newFileLogger(config *LogConfig, filename string, level logrus.Level, formatter logrus.Formatter) (*logrus.Logger, *AsyncHook) {
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(formatter)

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(config.LogDir, filename),
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}

	hook := NewAsyncHook(fileWriter, formatter, config.BufferSize, logrus.AllLevels)
	log.AddHook(hook)

	if config.ConsoleOutput {
		log.SetOutput(os.Stdout)
	} else {
		// Chỉ ghi file: discard output mặc định, hook lo việc ghi
		log.SetOutput(os.NewFile(0, os.DevNull))
	}
	return log, hook
}

// GetAppLogger trả về logger nghiệp vụ. Nếu chưa Init thì trả về logger
// mặc định của logrus để code gọi không bị nil.
func GetAppLogger() *logrus.Logger {
	if appLogger == nil {
		return logrus.StandardLogger()
	}
	return appLogger
}

// GetAccessLogger trả về logger ghi access log HTTP
func GetAccessLogger() *logrus.Logger {
	if accessLogger == nil {
		return logrus.StandardLogger()
	}
	return accessLogger
}

// Close flush và đóng các async hook. Gọi khi shutdown server.
func Close() {
	if appHook != nil {
		appHook.Close()
	}
	if accessHook != nil {
		accessHook.Close()
	}
}
