package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/tripnote/tripnote-backend/internal/config"
	"github.com/tripnote/tripnote-backend/internal/database"
	"github.com/tripnote/tripnote-backend/internal/handlers"
	"github.com/tripnote/tripnote-backend/internal/middleware"
	"github.com/tripnote/tripnote-backend/internal/routes"
	"github.com/tripnote/tripnote-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (user accounts)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, drafts, rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (journals)
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	if err := services.EnsureJournalIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB journal indexes: %v", err)
	} else {
		log.Println("✅ MongoDB journal indexes ensured")
	}

	// Upstream adapters: object store, OCR, ASR, generation
	if cfg.CloudinaryName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		log.Fatal("Cloudinary credentials are required (CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET)")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}
	if err := handlers.InitServices(context.Background(), cfg); err != nil {
		log.Fatal("Failed to initialize services:", err)
	}
	defer handlers.CloseServices()
	log.Println("✅ Object store and generation clients initialized")

	if cfg.OCREndpoint == "" {
		log.Println("Warning: OCR_ENDPOINT not set. Text extraction will be skipped")
	}
	if cfg.ASREndpoint == "" {
		log.Println("Warning: ASR_ENDPOINT not set. Speech transcription will not be available")
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Printf("🚀 TripNote backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
