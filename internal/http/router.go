package httpx

import (
	"context"
	"net/http"

	"consolenav/internal/config"
	"consolenav/internal/http/handlers"
	middlewarex "consolenav/internal/http/middleware"
	"consolenav/internal/services/data"
	"consolenav/internal/services/workspace"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports backing store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config           config.Cfg
	Logger           zerolog.Logger
	WorkspaceService *workspace.Service
	DataService      *data.Service
	DB               Pinger
}

// NewRouter creates the HTTP router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", handlers.Health(deps.DB))
	r.Handle("/metrics", promhttp.Handler())

	// Admin routes (protected by admin token)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(deps.Config))
		r.Post("/workspaces", handlers.OnboardWorkspace(deps.WorkspaceService))
	})

	// Console routes (protected by API key auth)
	r.Route("/console/api", func(r chi.Router) {
		r.Use(middlewarex.APIKeyAuth(deps.WorkspaceService))

		r.Get("/apps", handlers.ListApps(deps.DataService))
		r.Post("/apps", handlers.CreateApp(deps.DataService))
		r.Get("/apps/{id}", handlers.GetApp(deps.DataService))

		r.Get("/datasets", handlers.ListDatasets(deps.DataService))
		r.Post("/datasets", handlers.CreateDataset(deps.DataService))
		r.Get("/datasets/{id}", handlers.GetDataset(deps.DataService))
	})

	return r
}
