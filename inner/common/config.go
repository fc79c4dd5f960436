package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"employeeapi/inner/validator"

	"github.com/joho/godotenv"
)

// Общая конфигурация всего приложения
type Config struct {
	DbDriverName string `validate:"required,oneof=postgres pgx"`
	Dsn          string `validate:"required"`
	AppName      string `validate:"required"`
	AppVersion   string `validate:"required"`
	AppPort      string `validate:"required,numeric"`

	LogLevel       string
	LogDevelopMode bool

	// настройки пула соединений
	DbMaxOpenConns    int           `validate:"gte=1"`
	DbMaxIdleConns    int           `validate:"gte=0"`
	DbConnMaxLifetime time.Duration `validate:"gte=0"`
	DbConnectTimeout  time.Duration `validate:"gt=0"`

	// отдавать ли клиенту текст ошибки хранилища
	ExposeStorageErrors bool

	OtelExporter string `validate:"oneof=none otlp-grpc otlp-http"`
}

// Получение конфигурации из .env файла или переменных окружения
func GetConfig(envFile string) Config {
	// отсутствие файла не ошибка: значения могут прийти из окружения
	_ = godotenv.Load(envFile)
	var cfg = Config{
		DbDriverName:        os.Getenv("DB_DRIVER_NAME"),
		Dsn:                 os.Getenv("DB_DSN"),
		AppName:             getEnv("APP_NAME", "employee-api"),
		AppVersion:          getEnv("APP_VERSION", "1.0.0"),
		AppPort:             getEnv("APP_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogDevelopMode:      getEnvBool("LOG_DEVELOP_MODE", false),
		DbMaxOpenConns:      getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DbMaxIdleConns:      getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DbConnMaxLifetime:   getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		DbConnectTimeout:    getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		ExposeStorageErrors: getEnvBool("EXPOSE_STORAGE_ERRORS", true),
		OtelExporter:        getEnv("OTEL_EXPORTER", "none"),
	}
	if err := validator.New().Validate(cfg); err != nil {
		panic(fmt.Sprintf("config validation error: %v", err))
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("config validation error: %s must be an integer, got %q", key, value))
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		panic(fmt.Sprintf("config validation error: %s must be a boolean, got %q", key, value))
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Sprintf("config validation error: %s must be a duration, got %q", key, value))
	}
	return parsed
}
