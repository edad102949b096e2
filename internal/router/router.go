package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"certify-backend/internal/handlers"
	"certify-backend/internal/middleware"
	"certify-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	courseHandler *handlers.CourseHandler,
	playerHandler *handlers.PlayerHandler,
	certificateHandler *handlers.CertificateHandler,
	notificationHandler *handlers.NotificationHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", courseHandler.List)
			r.Post("/", courseHandler.Create)
			r.Get("/{courseID}", courseHandler.Get)
			r.Post("/videos", courseHandler.AddVideo)
			r.Post("/import-playlist", courseHandler.ImportPlaylist)
		})

		// ──── Player Routes ────
		r.Route("/player", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/open", playerHandler.Open)
			r.Get("/{videoID}", playerHandler.Status)
			r.Post("/{videoID}/play", playerHandler.Play)
			r.Post("/{videoID}/pause", playerHandler.Pause)
			r.Post("/{videoID}/restart", playerHandler.Restart)
			r.Post("/{videoID}/complete", playerHandler.Complete)
			r.Post("/{videoID}/message", playerHandler.Message)
			r.Delete("/{videoID}", playerHandler.Close)
		})

		// ──── Certificate Routes ────
		r.Route("/certificates", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", certificateHandler.List)
		})

		// ──── Notification Routes ────
		r.Route("/notifications", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", notificationHandler.List)
			r.Put("/{notificationID}/read", notificationHandler.MarkRead)
			r.Put("/read-all", notificationHandler.MarkAllRead)
		})

		// ──── User & Settings Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetProfile)
			r.Put("/me", userHandler.UpdateProfile)
			r.Put("/password", userHandler.ChangePassword)
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireAdmin)
			r.Get("/stats", adminHandler.Stats)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{userID}/role", adminHandler.UpdateRole)
			r.Delete("/users/{userID}", adminHandler.DeactivateUser)
			r.Post("/notifications", adminHandler.SendNotification)
			r.Post("/assignments", adminHandler.AssignCourse)
			r.Get("/assignments", adminHandler.ListAssignments)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
