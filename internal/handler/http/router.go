package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/handler/http/response"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(logger *slog.Logger, cfg RouterConfig, JWTService jwt.Service, invitationHandler InvitationHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Location"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/tenants/{tenantID}/invitations", func(r chi.Router) {
				r.Use(middleware.RequireTenantAdmin)

				r.Post("/", invitationHandler.Create)
				r.Get("/", invitationHandler.List)
				r.Delete("/{invitationID}", invitationHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
