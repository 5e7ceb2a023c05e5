package logger

import "time"

// LogConfig cấu hình cho hệ thống log
type LogConfig struct {
	// Thư mục chứa file log
	LogDir string

	// Tên file log (không bao gồm đường dẫn)
	Filename string

	// Kích thước tối đa của file log (MB) trước khi rotate
	MaxSize int

	// Số lượng file backup tối đa được giữ lại
	MaxBackups int

	// Số ngày tối đa giữ file log cũ
	MaxAge int

	// Có nén file log cũ hay không
	Compress bool

	// Level log tối thiểu (debug, info, warn, error)
	Level string

	// Có ghi log ra console song song với file hay không
	ConsoleOutput bool

	// Kích thước buffer cho async hook
	BufferSize int

	// Thời gian chờ flush khi đóng logger
	FlushTimeout time.Duration
}

// DefaultConfig trả về cấu hình mặc định cho log
func DefaultConfig() *LogConfig {
	return &LogConfig{
		LogDir:        "logs",
		Filename:      "app.log",
		MaxSize:       100,
		MaxBackups:    5,
		MaxAge:        30,
		Compress:      true,
		Level:         "info",
		ConsoleOutput: true,
		BufferSize:    1000,
		FlushTimeout:  5 * time.Second,
	}
}
