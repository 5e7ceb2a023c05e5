package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa toàn bộ cấu hình của server, nạp từ file env theo
// biến GO_ENV (config/env/{GO_ENV}.env) và từ biến môi trường hệ thống.
type Configuration struct {
	Address        string `env:"ADDRESS" envDefault:":8080"`
	MongoDBUri     string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName    string `env:"MONGODB_NAME" envDefault:"meta_forms"`
	JwtSecret      string `env:"JWT_SECRET" envDefault:"meta_forms_dev_secret"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDir         string `env:"LOG_DIR" envDefault:"logs"`
	RateLimit      int    `env:"RATE_LIMIT" envDefault:"300"`
	RateLimitTime  int    `env:"RATE_LIMIT_TIME" envDefault:"60"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"52428800"`

	// Chu kỳ worker dọn job ingestion đã kết thúc (giây)
	JobCleanupInterval int `env:"JOB_CLEANUP_INTERVAL" envDefault:"60"`
	// Thời gian giữ lại job đã completed/failed trước khi evict (giây)
	JobRetention int `env:"JOB_RETENTION" envDefault:"300"`
}

// getEnvPath tìm file env theo GO_ENV, đi ngược từ thư mục hiện tại lên
// các thư mục cha cho tới khi gặp config/env/{GO_ENV}.env.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		envPath := filepath.Join(dir, "config", "env", goEnv+".env")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewConfig nạp cấu hình từ file env (nếu có) và biến môi trường
func NewConfig() *Configuration {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("⚠️ Không nạp được file env %s: %v\n", envPath, err)
		}
	}

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("⚠️ Lỗi parse cấu hình từ biến môi trường: %v\n", err)
	}
	return cfg
}
