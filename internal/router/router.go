package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"altairis-api/internal/config"
	"altairis-api/internal/handler"
	"altairis-api/internal/middleware"
)

type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Post    *handler.PostHandler
	Chat    *handler.ChatHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", h.Health.Check)

	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)
	r.Post("/refresh-token", h.Auth.Refresh)

	r.Get("/posts", h.Post.Feed)
	r.With(authMiddleware.OptionalAuth).Get("/user-profile/{userID}", h.Profile.UserProfile)

	r.Group(func(protected chi.Router) {
		protected.Use(authMiddleware.RequireAuth)

		protected.Get("/profile", h.Profile.Profile)
		protected.Patch("/upload-avatar", h.Profile.UploadAvatar)
		protected.Patch("/update-email", h.Profile.UpdateEmail)
		protected.Patch("/update-status", h.Profile.UpdateStatus)
		protected.Delete("/delete-account", h.Profile.DeleteAccount)

		protected.Post("/create-post", h.Post.Create)
		protected.Delete("/delete-post", h.Post.Delete)

		protected.Get("/chats", h.Chat.List)
		protected.Post("/send-message", h.Chat.SendMessage)
	})

	return r
}
