package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"pingchat/internal/chat"
	"pingchat/internal/config"
	"pingchat/internal/db"
	"pingchat/internal/email"
	"pingchat/internal/guard"
	"pingchat/internal/logger"
	"pingchat/internal/media"
	"pingchat/internal/middleware"
	"pingchat/internal/user"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	if err := logger.Setup(cfg.LogDir); err != nil {
		log.Fatalf("❌ Logger error: %v", err)
	}

	// 2. Connect to Database (Platform Layer)
	database, err := db.NewDatabase(cfg.DBDSN)
	if err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database Schema Initialized")

	// 3. Connect to Redis (guard rate limiter)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// 4. Collaborators
	uploader := media.NewHostClient(cfg.MediaUploadURL, cfg.MediaPreset)
	welcome := email.NewSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.ClientURL, log.Default())

	// 5. User Feature
	userRepo := user.NewRepository(database.Conn)
	userService := user.NewService(userRepo, cfg.JWTSecret, uploader, welcome)
	userHandler := user.NewHandler(userService)

	// 6. Chat Feature
	chatStore := chat.NewStore(database.Conn)
	registry := chat.NewRegistry()
	chatService := chat.NewService(chatStore, registry, userRepo, uploader)
	chatHandler := chat.NewHandler(chatService, registry)

	authMiddleware := middleware.NewAuthMiddleware(userService)
	requestGuard := guard.New(guard.NewRedisLimiter(
		redisClient, cfg.GuardMaxRequests, time.Duration(cfg.GuardWindowSecs)*time.Second))

	// 7. Routes
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if cfg.GuardEnabled {
		r.Use(requestGuard.Handle)
	}

	// Public Routes
	r.Post("/api/auth/signup", userHandler.Signup)
	r.Post("/api/auth/login", userHandler.Login)
	r.Post("/api/auth/logout", userHandler.Logout)

	// Protected Routes (Require JWT)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Handle)

		r.Get("/api/auth/check", userHandler.Check)
		r.Put("/api/auth/profile", userHandler.UpdateProfile)

		// WebSocket (Real-time)
		r.Get("/ws", chatHandler.ServeWs)

		r.Post("/api/messages/{receiverId}", chatHandler.SendMessage)
		r.Get("/api/messages/{partnerId}", chatHandler.GetMessages)
		r.Get("/api/contacts", chatHandler.GetContacts)
		r.Get("/api/conversation-partners", chatHandler.GetChatPartners)
	})

	log.Printf("🚀 Server starting on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
