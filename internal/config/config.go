package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	UploadDir  string
	CORSOrigin string
}

func Load() *Config {
	// Load .env if present; plain environment variables otherwise.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "chat"),
		DBPassword: getEnv("DB_PASSWORD", "chat_dev_password"),
		DBName:     getEnv("DB_NAME", "chat"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
