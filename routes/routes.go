package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contentpulse/contentpulse-backend/app"
	"github.com/contentpulse/contentpulse-backend/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.OrgSelectorHeader},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if deps.Config.Observability.MetricsEnabled {
		r.Use(middleware.Metrics)
		r.Method(http.MethodGet, deps.Config.Observability.MetricsPath, promhttp.Handler())
	}

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Organization bootstrap routes need authentication but no resolved
		// tenancy: a fresh user has no organization to resolve yet, and an
		// invitee cannot resolve a context before accepting.
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/organizations", deps.OrganizationHandler.HandleCreate)
			r.Get("/organizations", deps.OrganizationHandler.HandleListMine)
			r.Post("/organizations/{id}/accept", deps.OrganizationHandler.HandleAcceptInvite)
		})

		// Everything below runs inside a resolved organization context
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Use(deps.TenancyMiddleware.ResolveTenant)

			r.Route("/organizations/current", func(r chi.Router) {
				r.Get("/", deps.OrganizationHandler.HandleGetCurrent)
				r.Put("/", deps.OrganizationHandler.HandleUpdateCurrent)
				r.Get("/members", deps.OrganizationHandler.HandleListMembers)
				r.Post("/members", deps.OrganizationHandler.HandleInviteMember)
				r.Put("/members/{id}", deps.OrganizationHandler.HandleUpdateMemberRole)
				r.Delete("/members/{id}", deps.OrganizationHandler.HandleRevokeMember)
			})

			r.Route("/ideas", func(r chi.Router) {
				r.Post("/", deps.IdeaHandler.HandleCreate)
				r.Get("/", deps.IdeaHandler.HandleList)
				r.Get("/{id}", deps.IdeaHandler.HandleGet)
				r.Put("/{id}", deps.IdeaHandler.HandleUpdate)
				r.Post("/{id}/approve", deps.IdeaHandler.HandleApprove)
				r.Post("/{id}/reject", deps.IdeaHandler.HandleReject)
				r.Get("/{id}/drafts", deps.DraftHandler.HandleListByIdea)
			})

			r.Route("/drafts", func(r chi.Router) {
				r.Post("/", deps.DraftHandler.HandleCreate)
				r.Get("/", deps.DraftHandler.HandleList)
				r.Get("/{id}", deps.DraftHandler.HandleGet)
				r.Delete("/{id}", deps.DraftHandler.HandleDelete)
				r.Post("/{id}/submit", deps.DraftHandler.HandleSubmit)
				r.Post("/{id}/approve", deps.DraftHandler.HandleApprove)
				r.Post("/{id}/reject", deps.DraftHandler.HandleReject)
				r.Post("/{id}/request-revision", deps.DraftHandler.HandleRequestRevision)
				r.Post("/{id}/resubmit", deps.DraftHandler.HandleResubmit)
				r.Post("/{id}/feedback", deps.DraftHandler.HandleAddFeedback)
				r.Get("/{id}/feedback", deps.DraftHandler.HandleListFeedback)
				r.Post("/{id}/publish", deps.PublishHandler.HandlePublish)
				r.Get("/{id}/deliveries", deps.PublishHandler.HandleListDeliveries)
			})

			r.Route("/audit", func(r chi.Router) {
				r.Get("/", deps.AuditHandler.HandleListByOrg)
				r.Get("/{id}", deps.AuditHandler.HandleListByResource)
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
