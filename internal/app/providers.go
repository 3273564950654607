package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"agencyui/internal/api"
	"agencyui/internal/domain"
	"agencyui/internal/infra/agencystore"
	"agencyui/internal/infra/backend"
	"agencyui/internal/infra/catalog"
	"agencyui/internal/infra/telemetry"
	"agencyui/internal/session"
	"agencyui/internal/ui"
)

// Infra holds the process-wide logging, metrics and health wiring shared
// by every service.
type Infra struct {
	Logger      *zap.Logger
	Broadcaster *telemetry.LogBroadcaster
	Registry    *prometheus.Registry
	Metrics     domain.Metrics
	Health      *telemetry.HealthTracker
}

// SessionHooks lets an embedding shell observe new composer sessions.
type SessionHooks struct {
	OnCreate func(context.Context, *session.Session)
}

func NewInfra(
	logging Logging,
	registry *prometheus.Registry,
	metrics domain.Metrics,
	health *telemetry.HealthTracker,
) Infra {
	return Infra{
		Logger:      logging.Logger,
		Broadcaster: logging.Broadcaster,
		Registry:    registry,
		Metrics:     metrics,
		Health:      health,
	}
}

func NewMetricsRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())
	return registry
}

func NewMetrics(registry *prometheus.Registry) domain.Metrics {
	return telemetry.NewPrometheusMetrics(registry)
}

func NewHealthTracker() *telemetry.HealthTracker {
	return telemetry.NewHealthTracker()
}

func NewCatalogProvider(
	ctx context.Context,
	cfg Config,
	logger *zap.Logger,
	metrics domain.Metrics,
	health *telemetry.HealthTracker,
) (*catalog.Provider, error) {
	return catalog.NewProvider(ctx, catalog.ProviderOptions{
		Path:     cfg.API.CatalogPath,
		Debounce: cfg.API.ReloadDebounce,
		Logger:   logger,
		Metrics:  metrics,
		Health:   health,
	})
}

func NewAgencyStore(cfg Config, logger *zap.Logger) (*agencystore.Store, func(), error) {
	store, err := agencystore.Open(cfg.API.DataPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("agency store close failed", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func NewAPIServer(
	cfg Config,
	provider *catalog.Provider,
	store *agencystore.Store,
	logger *zap.Logger,
	metrics domain.Metrics,
) *api.Server {
	return api.NewServer(api.Options{
		Catalog:        provider,
		Store:          store,
		Logger:         logger,
		Metrics:        metrics,
		AllowedOrigins: cfg.API.AllowedOrigins,
	})
}

func NewBackendClient(cfg Config, logger *zap.Logger) (*backend.Client, error) {
	return backend.NewClient(backend.Options{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.RequestTimeout,
		Logger:  logger,
	})
}

func NewSessionManager(
	ctx context.Context,
	cfg Config,
	client session.Backend,
	hooks SessionHooks,
	logger *zap.Logger,
	metrics domain.Metrics,
) *session.Manager {
	return session.NewManager(session.ManagerOptions{
		Backend:     client,
		Logger:      logger,
		Metrics:     metrics,
		StrictKinds: cfg.UI.RejectUnknownKinds,
		IdleTimeout: cfg.UI.SessionIdle,
		BaseContext: ctx,
		OnCreate:    hooks.OnCreate,
	})
}

func NewUIServer(
	cfg Config,
	sessions *session.Manager,
	logger *zap.Logger,
	metrics domain.Metrics,
) *ui.Server {
	return ui.NewServer(ui.Options{
		Sessions:     sessions,
		Logger:       logger,
		Metrics:      metrics,
		SecureCookie: cfg.UI.SecureCookie,
	})
}
