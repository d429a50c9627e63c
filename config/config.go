package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string

	JWTSecret     string
	JWTExpiration time.Duration
	JWTIssuer     string

	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	UploadURLTTL   time.Duration
	DownloadURLTTL time.Duration

	ReservationSweepInterval time.Duration

	AllowedOrigins []string
}

var AppConfig *Config

func LoadConfig() {
	AppConfig = &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "nimbusdrive"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "24h")),
		JWTIssuer:     getEnv("JWT_ISSUER", "nimbusdrive"),

		S3Endpoint:  getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getS3AccessKey(),
		S3SecretKey: getS3SecretKey(),
		S3Bucket:    getEnv("S3_BUCKET", "user-files"),

		UploadURLTTL:   parseDuration(getEnv("UPLOAD_URL_TTL", "1h")),
		DownloadURLTTL: parseDuration(getEnv("DOWNLOAD_URL_TTL", "1h")),

		ReservationSweepInterval: parseDuration(getEnv("RESERVATION_SWEEP_INTERVAL", "1h")),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	logConfig()
	validateConfig()
}

func getS3AccessKey() string {
	// MinIO deployments commonly export the root credentials directly.
	possibleKeys := []string{"S3_ACCESS_KEY", "MINIO_ACCESS_KEY", "MINIO_ROOT_USER"}
	for _, key := range possibleKeys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getS3SecretKey() string {
	possibleKeys := []string{"S3_SECRET_KEY", "MINIO_SECRET_KEY", "MINIO_ROOT_PASSWORD"}
	for _, key := range possibleKeys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func logConfig() {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", AppConfig.Port)
	log.Printf("  Environment: %s", AppConfig.Env)
	log.Printf("  Database: %s", AppConfig.DatabaseName)
	log.Printf("  MongoDB URI: %s", maskConnectionString(AppConfig.MongoURI))
	log.Printf("  JWT Secret: %s", maskSecret(AppConfig.JWTSecret))
	log.Printf("  JWT Expiration: %v", AppConfig.JWTExpiration)
	log.Printf("  S3 Endpoint: %s", AppConfig.S3Endpoint)
	log.Printf("  S3 Bucket: %s", AppConfig.S3Bucket)
	log.Printf("  S3 Access Key: %s", maskSecret(AppConfig.S3AccessKey))
	log.Printf("  Upload URL TTL: %v", AppConfig.UploadURLTTL)
	log.Printf("  Download URL TTL: %v", AppConfig.DownloadURLTTL)
	log.Printf("  Reservation Sweep Interval: %v", AppConfig.ReservationSweepInterval)
	log.Printf("  Allowed Origins: %v", AppConfig.AllowedOrigins)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func validateConfig() {
	var missingVars []string

	required := map[string]string{
		"MONGO_URI":     AppConfig.MongoURI,
		"JWT_SECRET":    AppConfig.JWTSecret,
		"S3_ENDPOINT":   AppConfig.S3Endpoint,
		"S3_ACCESS_KEY": AppConfig.S3AccessKey,
		"S3_SECRET_KEY": AppConfig.S3SecretKey,
		"S3_BUCKET":     AppConfig.S3Bucket,
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		log.Printf("Missing required environment variables: %v", missingVars)
		log.Fatal("Please set all required environment variables")
	}

	log.Println("All required environment variables are set")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
