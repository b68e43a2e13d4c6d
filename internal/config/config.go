package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the typed view of the process environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	NSQ      NSQConfig
	Upload   UploadConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	AllowOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// NSQConfig leaves Address empty to disable alert publishing.
type NSQConfig struct {
	Address string
	Topic   string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type LogConfig struct {
	Level    string
	FilePath string
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the environment into a Config, applying defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         GetEnv("PORT", "3000"),
			AllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "fraudwatch"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: GetEnv("JWT_SECRET", "fraudwatch"),
			TTL:    GetDurationEnv("JWT_TTL", 8*time.Hour),
		},
		NSQ: NSQConfig{
			Address: GetEnv("NSQD_ADDRESS", ""),
			Topic:   GetEnv("NSQ_ALERT_TOPIC", "fraud_alerts"),
		},
		Upload: UploadConfig{
			Dir:      GetEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(GetIntEnv("UPLOAD_MAX_BYTES", 10*1024*1024)),
		},
		Log: LogConfig{
			Level:    GetEnv("LOG_LEVEL", "info"),
			FilePath: GetEnv("LOG_FILE_PATH", ""),
		},
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv parses values such as "30m" or "1h".
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
