// Package api is the reference backend the composer talks to: it serves the
// catalog and records created agencies.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"agencyui/internal/domain"
	"agencyui/internal/infra/httpx"
	"agencyui/internal/infra/telemetry"
)

// CatalogSource supplies the current catalog.
type CatalogSource interface {
	Snapshot() domain.Catalog
}

// AgencyStore persists created agencies.
type AgencyStore interface {
	Create(items domain.Composition) (domain.Agency, error)
	Get(id string) (domain.Agency, error)
	List() ([]domain.Agency, error)
}

type Options struct {
	Catalog        CatalogSource
	Store          AgencyStore
	Logger         *zap.Logger
	Metrics        domain.Metrics
	AllowedOrigins []string
}

type Server struct {
	catalog CatalogSource
	store   AgencyStore
	logger  *zap.Logger
	metrics domain.Metrics
	origins []string
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Server{
		catalog: opts.Catalog,
		store:   opts.Store,
		logger:  logger.Named("api").With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceAPI)),
		metrics: metrics,
		origins: opts.AllowedOrigins,
	}
}

// Handler builds the backend router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(httpx.RequestID)
	r.Use(httpx.CORS(s.origins))
	r.Use(httpx.Observe("api", s.metrics, s.logger))

	r.Get(domain.ComponentsPath, s.components)
	r.Post(domain.CreateAgencyPath, s.createAgency)
	r.Get(domain.AgenciesPath, s.listAgencies)
	r.Get(domain.AgenciesPath+"/{id}", s.getAgency)
	return r
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	return httpx.Serve(ctx, "api", addr, s.Handler(), s.logger)
}
