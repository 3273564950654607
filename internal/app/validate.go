package app

import (
	"context"

	"go.uber.org/zap"

	"agencyui/internal/infra/backend"
	"agencyui/internal/infra/catalog"
)

// ValidationReport summarizes a validated configuration.
type ValidationReport struct {
	ConfigPath  string `json:"configPath"`
	BackendURL  string `json:"backendUrl"`
	CatalogPath string `json:"catalogPath"`
	Agents      int    `json:"agents"`
	Tools       int    `json:"tools"`
}

// ValidateConfig loads the configuration at path and the catalog file it
// names without starting any server.
func ValidateConfig(ctx context.Context, path string, logger *zap.Logger) (ValidationReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return ValidationReport{}, err
	}
	client, err := backend.NewClient(backend.Options{BaseURL: cfg.Backend.URL, Logger: logger})
	if err != nil {
		return ValidationReport{}, err
	}
	cat, err := catalog.NewLoader(logger).Load(ctx, cfg.API.CatalogPath)
	if err != nil {
		return ValidationReport{}, err
	}

	report := ValidationReport{
		ConfigPath:  path,
		BackendURL:  client.BaseURL(),
		CatalogPath: cfg.API.CatalogPath,
		Agents:      len(cat.Agents),
		Tools:       len(cat.Tools),
	}
	logger.Info("configuration validated",
		zap.String("config", path),
		zap.Int("agents", report.Agents),
		zap.Int("tools", report.Tools),
	)
	return report, nil
}
