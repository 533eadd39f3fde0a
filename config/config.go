package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTSecret string

	RedisAddr     string
	RedisPassword string

	KafkaBroker string
	KafkaTopic  string

	JaegerEndpoint string

	SeedDemoData bool
	DemoPassword string
}

// Load reads the process configuration. A .env file in the working directory
// is applied first when present; real environment variables take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":5000"),
		GRPCAddr: getEnv("GRPC_ADDR", ":50051"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "ecofinds"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "ecofinds.db"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "order_events"),

		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),

		SeedDemoData: parseBool(getEnv("SEED_DEMO_DATA", "false")),
		DemoPassword: getEnv("DEMO_PASSWORD", "ecofinds123"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
