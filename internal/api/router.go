package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nileshk07/bloghub/internal/api/handlers"
	"github.com/nileshk07/bloghub/internal/api/middleware"
	"github.com/nileshk07/bloghub/internal/config"
	"github.com/nileshk07/bloghub/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	secureCookies := cfg.Environment != "development"
	userHandler := handlers.NewUserHandler(services.User, services.Blog, services.Auth, secureCookies)
	blogHandler := handlers.NewBlogHandler(services.Blog)

	r.Route("/api/user", func(r chi.Router) {
		// Public routes
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.Post("/refresh", userHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Post("/logout", userHandler.Logout)
			r.Get("/isAuthenticated", userHandler.IsAuthenticated)
			r.Get("/getUserDetails", userHandler.GetUserDetails)
			r.Get("/users", userHandler.Users)
			r.Post("/followUser", userHandler.FollowUser)
			r.Post("/unfollowUser", userHandler.UnfollowUser)
			r.Get("/getUserFeed", userHandler.GetUserFeed)
		})
	})

	r.Route("/api/blog", func(r chi.Router) {
		// Public routes
		r.Get("/blogs", blogHandler.List)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Post("/create", blogHandler.Create)
			r.Post("/like/{id}", blogHandler.Like)
			r.Post("/comment", blogHandler.Comment)
			r.Put("/update/{id}", blogHandler.Update)
			r.Delete("/delete/{id}", blogHandler.Delete)
			r.Get("/user", blogHandler.UserBlogs)
			r.Post("/ask", blogHandler.Ask)
		})
	})

	return r
}
