package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certify-backend/internal/config"
	"certify-backend/internal/database"
	"certify-backend/internal/handlers"
	"certify-backend/internal/middleware"
	"certify-backend/internal/player"
	"certify-backend/internal/progress"
	"certify-backend/internal/repository"
	"certify-backend/internal/router"
	"certify-backend/internal/services"
	"certify-backend/internal/websocket"
	"certify-backend/internal/worker"
	"certify-backend/internal/youtube"
)

func main() {
	log.Println("🚀 Starting Certify Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL, cfg.WorkerCount)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	progressRepo := repository.NewProgressRepo(pool)
	certRepo := repository.NewCertificateRepo(pool)
	notificationRepo := repository.NewNotificationRepo(pool)
	watchStatRepo := repository.NewWatchStatRepo(pool)
	assignmentRepo := repository.NewAssignmentRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailService)
	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo, redisClients.PubSub)
	courseService := services.NewCourseService(courseRepo, videoRepo, youtube.MockInfoProvider{}, youtube.MockPlaylistLister{}, redisClients.Queue)
	certService := services.NewCertificateService(certRepo, userRepo, redisClients.Queue, notificationService, emailService)
	adminService := services.NewAdminService(userRepo, courseRepo, certRepo, watchStatRepo, assignmentRepo, notificationService)

	// ──── Step 5: Wire the Player Pipeline ────
	completionTracker := progress.NewTracker(courseRepo, certService.HandleCourseCompleted)
	playerManager := player.NewManager(
		time.Duration(cfg.TickIntervalMS)*time.Millisecond,
		cfg.AutosaveInterval,
		services.NewProgressStore(progressRepo, watchStatRepo, videoRepo),
		services.NewPlayerNotifier(notificationService),
		completionTracker,
		services.NewRealtimePublisher(redisClients.PubSub),
	)
	defer playerManager.CloseAll()
	log.Println("✓ Player manager initialized")

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	courseHandler := handlers.NewCourseHandler(courseService)
	playerHandler := handlers.NewPlayerHandler(playerManager, courseService)
	certificateHandler := handlers.NewCertificateHandler(certService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		courseService,
		certService,
		notificationService,
		cfg.WorkerCount,
	)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		userHandler,
		courseHandler,
		playerHandler,
		certificateHandler,
		notificationHandler,
		adminHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		playerManager.CloseAll()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Certify Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
