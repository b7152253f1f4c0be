package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	// Operator key exchanged for a JWT on /auth/token.
	OperatorKey string

	// Summarization backend (OpenAI-compatible chat completions).
	SummarizerBaseURL string
	SummarizerAPIKey  string
	SummarizerModel   string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string

	// Optional YAML file overriding the default usage rates.
	RatesFile string
}

func LoadConfig() Config {
	// No .env file is fine; the system environment is enough.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:   getEnv("HTTP_ADDR", ":8000"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", ""),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),

		OperatorKey: getEnv("OPERATOR_KEY", ""),

		SummarizerBaseURL: getEnv("SUMMARIZER_BASE_URL", "https://api.cerebras.ai/v1"),
		SummarizerAPIKey:  getEnv("SUMMARIZER_API_KEY", ""),
		SummarizerModel:   getEnv("SUMMARIZER_MODEL", "llama-3.3-70b"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "aria-transcripts"),

		RatesFile: getEnv("RATES_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
