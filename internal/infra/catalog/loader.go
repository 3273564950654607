// Package catalog loads the agent and tool names served by the reference
// backend and keeps them fresh as the catalog file changes.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"agencyui/internal/domain"
)

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("catalog_loader")}
}

func newCatalogViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("agents", domain.DefaultAgents)
	v.SetDefault("tools", domain.DefaultTools)
	return v
}

type rawCatalog struct {
	Agents []string `mapstructure:"agents"`
	Tools  []string `mapstructure:"tools"`
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func (l *Loader) Load(ctx context.Context, path string) (domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return l.Parse(data, path)
}

// Parse decodes catalog YAML. Missing sections fall back to the defaults.
func (l *Loader) Parse(data []byte, source string) (domain.Catalog, error) {
	v := newCatalogViper()
	if len(bytes.TrimSpace(data)) > 0 {
		expanded, missing, err := expandConfigEnv(data)
		if err != nil {
			return domain.Catalog{}, err
		}
		if len(missing) > 0 {
			l.logger.Warn("missing environment variables in catalog", zap.String("path", source), zap.Strings("missing", missing))
		}
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return domain.Catalog{}, fmt.Errorf("parse catalog: %w", err)
		}
	}

	var raw rawCatalog
	if err := v.Unmarshal(&raw); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	catalog := domain.Catalog{
		Agents: normalizeNames(raw.Agents),
		Tools:  normalizeNames(raw.Tools),
	}
	if dropped := len(raw.Agents) + len(raw.Tools) - len(catalog.Agents) - len(catalog.Tools); dropped > 0 {
		l.logger.Warn("blank catalog names ignored", zap.String("path", source), zap.Int("count", dropped))
	}
	return catalog, nil
}

// Defaults is the catalog served when no file is configured.
func Defaults() domain.Catalog {
	return domain.Catalog{
		Agents: append([]domain.CatalogItemName(nil), domain.DefaultAgents...),
		Tools:  append([]domain.CatalogItemName(nil), domain.DefaultTools...),
	}
}

// normalizeNames trims names and drops blanks. Duplicates are kept.
func normalizeNames(names []string) []domain.CatalogItemName {
	out := make([]domain.CatalogItemName, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}
