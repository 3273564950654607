//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"agencyui/internal/infra/backend"
	"agencyui/internal/session"
)

var InfraSet = wire.NewSet(
	NewLogging,
	NewMetricsRegistry,
	NewMetrics,
	NewHealthTracker,
	NewInfra,
)

var infraFields = wire.FieldsOf(new(Infra), "Logger", "Metrics", "Health")

var APISet = wire.NewSet(
	infraFields,
	NewCatalogProvider,
	NewAgencyStore,
	NewAPIServer,
	NewAPIService,
)

var ComposerSet = wire.NewSet(
	infraFields,
	NewBackendClient,
	wire.Bind(new(session.Backend), new(*backend.Client)),
	NewSessionManager,
	NewUIServer,
	NewComposerService,
)
