//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
)

func InitializeInfra(logging LoggingConfig) Infra {
	wire.Build(InfraSet)
	return Infra{}
}

func InitializeAPIService(ctx context.Context, cfg Config, infra Infra) (*APIService, func(), error) {
	wire.Build(APISet)
	return nil, nil, nil
}

func InitializeComposerService(ctx context.Context, cfg Config, infra Infra, hooks SessionHooks) (*ComposerService, error) {
	wire.Build(ComposerSet)
	return nil, nil
}
