package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"nimbusdrive/config"
	"nimbusdrive/jobs"
	"nimbusdrive/middleware"
	"nimbusdrive/routes"
	"nimbusdrive/services"
	"nimbusdrive/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env BEFORE config.LoadConfig so overrides are visible.
	loadEnvFile()

	config.LoadConfig()
	cfg := config.AppConfig

	// Initialize MongoDB client
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully")

	// Initialize the object storage backend
	objects, err := services.NewS3ObjectStore(ctx, services.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	st := store.NewMongoStore(mongoClient.Database(cfg.DatabaseName))

	serviceContainer := routes.NewServiceContainer(st, objects, cfg)

	// Set up Gin router
	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Set up API routes
	api := router.Group("/api")
	routes.SetupRoutes(api, serviceContainer)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Start the background sweep for expired upload reservations
	if cfg.ReservationSweepInterval > 0 {
		sweeper := jobs.NewReservationSweeper(serviceContainer.UploadService, cfg.ReservationSweepInterval)
		go sweeper.Start(context.Background())
		log.Printf("Started reservation sweeper running every %v", cfg.ReservationSweepInterval)
	}

	// Start the server
	log.Printf("Starting NimbusDrive server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadEnvFile handles loading .env from the usual locations relative to
// both the repo root and the cmd directory.
func loadEnvFile() {
	pwd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not get working directory: %v", err)
		return
	}

	envPaths := []string{
		".env",
		"../.env",
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from: %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found, using system environment variables")
}
