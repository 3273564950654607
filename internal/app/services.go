package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agencyui/internal/api"
	"agencyui/internal/infra/agencystore"
	"agencyui/internal/infra/catalog"
	"agencyui/internal/session"
	"agencyui/internal/ui"
)

// APIService is the reference backend: catalog provider, agency store and
// the /api router.
type APIService struct {
	addr     string
	provider *catalog.Provider
	store    *agencystore.Store
	server   *api.Server
	logger   *zap.Logger
}

func NewAPIService(
	cfg Config,
	provider *catalog.Provider,
	store *agencystore.Store,
	server *api.Server,
	logger *zap.Logger,
) *APIService {
	return &APIService{
		addr:     cfg.API.ListenAddress,
		provider: provider,
		store:    store,
		server:   server,
		logger:   logger.Named("api_service"),
	}
}

// Handler exposes the router for in-process use.
func (s *APIService) Handler() http.Handler {
	return s.server.Handler()
}

// Run serves the API and watches the catalog file until ctx is done.
func (s *APIService) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.provider.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return s.server.Serve(ctx, s.addr)
	})
	return g.Wait()
}

// ComposerService is the composer UI: the session registry and its router.
type ComposerService struct {
	addr     string
	sessions *session.Manager
	server   *ui.Server
	logger   *zap.Logger
}

func NewComposerService(
	cfg Config,
	sessions *session.Manager,
	server *ui.Server,
	logger *zap.Logger,
) *ComposerService {
	return &ComposerService{
		addr:     cfg.UI.ListenAddress,
		sessions: sessions,
		server:   server,
		logger:   logger.Named("composer_service"),
	}
}

// Handler exposes the composer router; the desktop shell mounts it as its
// asset handler.
func (s *ComposerService) Handler() http.Handler {
	return s.server.Handler()
}

func (s *ComposerService) Sessions() *session.Manager {
	return s.sessions
}

// Run serves the composer UI until ctx is done.
func (s *ComposerService) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.sessions.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return s.server.Serve(ctx, s.addr)
	})
	return g.Wait()
}
