package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ukydev/property-maintenance/internal/auth"
	"github.com/ukydev/property-maintenance/internal/db"
	"github.com/ukydev/property-maintenance/internal/middleware"
	"github.com/ukydev/property-maintenance/internal/store"
)

// Health reports service liveness
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// NewRouter assembles the API route table. Auth routes and /health are open;
// everything else goes through JWT authentication and permission checks.
func NewRouter(s *store.Store, authService *auth.Service, users db.UserCollection) http.Handler {
	authHandler := NewAuthHandler(authService, users)
	requestHandler := NewRequestHandler(s)
	vendorHandler := NewVendorHandler(s)
	analyticsHandler := NewAnalyticsHandler(s)
	notificationHandler := NewNotificationHandler(s)

	authMw := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(rateLimiter.RateLimit(120, 60))
	r.Use(authMw.Authenticate)

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)

		r.Get("/auth/profile", authHandler.GetProfile)
		r.Put("/auth/profile", authHandler.UpdateProfile)
		r.Post("/auth/change-password", authHandler.ChangePassword)

		r.Route("/requests", func(r chi.Router) {
			r.With(authMw.RequirePermission("view_requests")).
				Get("/", requestHandler.ListRequests)
			r.With(authMw.RequirePermission("create_request")).
				Post("/", requestHandler.CreateRequest)
			r.With(authMw.RequirePermission("view_requests")).
				Get("/{id}", requestHandler.GetRequest)
			r.With(authMw.RequirePermission("update_request")).
				Patch("/{id}", requestHandler.UpdateRequest)
			r.With(authMw.RequirePermission("assign_vendor")).
				Post("/{id}/assign", requestHandler.AssignVendor)
			r.With(authMw.RequirePermission("rate_request")).
				Post("/{id}/rating", requestHandler.RateRequest)
		})

		r.Get("/vendors", vendorHandler.ListVendors)
		r.Get("/vendors/{id}", vendorHandler.GetVendor)

		r.Get("/analytics", analyticsHandler.GetAnalytics)

		r.With(authMw.RequirePermission("view_notifications")).
			Get("/notifications", notificationHandler.ListNotifications)
		r.With(authMw.RequirePermission("view_notifications")).
			Post("/notifications/{id}/read", notificationHandler.MarkRead)
	})

	return r
}
