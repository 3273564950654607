package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agencyui/internal/infra/telemetry"
)

// Mode selects which services agencyd runs.
type Mode string

const (
	ModeAPI Mode = "api"
	ModeUI  Mode = "ui"
	ModeAll Mode = "all"
)

func (m Mode) runsAPI() bool { return m == ModeAPI || m == ModeAll }
func (m Mode) runsUI() bool  { return m == ModeUI || m == ModeAll }

func (m Mode) Validate() error {
	switch m {
	case ModeAPI, ModeUI, ModeAll:
		return nil
	default:
		return fmt.Errorf("unknown mode %q", m)
	}
}

// Application runs the services selected by a Mode alongside the
// observability server.
type Application struct {
	cfg      Config
	mode     Mode
	infra    Infra
	api      *APIService
	composer *ComposerService
	cleanup  func()
}

// NewApplication builds the services for mode. Only the API mode opens the
// agency store, so separate api and ui processes can share a data directory.
func NewApplication(ctx context.Context, cfg Config, mode Mode, logging LoggingConfig, hooks SessionHooks) (*Application, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	infra := InitializeInfra(logging)
	a := &Application{
		cfg:     cfg,
		mode:    mode,
		infra:   infra,
		cleanup: func() {},
	}

	if mode.runsAPI() {
		apiService, cleanup, err := InitializeAPIService(ctx, cfg, infra)
		if err != nil {
			return nil, fmt.Errorf("initialize api: %w", err)
		}
		a.api = apiService
		a.cleanup = cleanup
	}
	if mode.runsUI() {
		composer, err := InitializeComposerService(ctx, cfg, infra, hooks)
		if err != nil {
			a.cleanup()
			return nil, fmt.Errorf("initialize ui: %w", err)
		}
		a.composer = composer
	}
	return a, nil
}

func (a *Application) Infra() Infra {
	return a.infra
}

func (a *Application) API() *APIService {
	return a.api
}

func (a *Application) Composer() *ComposerService {
	return a.composer
}

// Run blocks until ctx is done or a service fails, then releases resources.
func (a *Application) Run(ctx context.Context) error {
	defer a.cleanup()

	logger := a.infra.Logger.Named("app")
	logger.Info("agencyd starting",
		zap.String("mode", string(a.mode)),
		zap.String("version", Version),
		zap.String("build", Build),
		zap.String("backend", a.cfg.Backend.URL),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telemetry.StartHTTPServer(ctx, telemetry.HTTPServerOptions{
			Addr:          a.cfg.Observability.ListenAddress,
			EnableMetrics: a.cfg.Observability.MetricsEnabled,
			EnableHealthz: a.cfg.Observability.HealthzEnabled,
			Health:        a.infra.Health,
			Registry:      a.infra.Registry,
		}, logger)
	})
	if a.api != nil {
		g.Go(func() error { return a.api.Run(ctx) })
	}
	if a.composer != nil {
		g.Go(func() error { return a.composer.Run(ctx) })
	}

	err := g.Wait()
	logger.Info("agencyd stopped")
	return err
}
