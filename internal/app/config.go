package app

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"agencyui/internal/domain"
)

const envPrefix = "AGENCYUI"

// Config is the normalized agencyd configuration.
type Config struct {
	Backend       BackendConfig
	API           APIConfig
	UI            UIConfig
	Observability ObservabilityConfig
	Log           LogConfig
}

type BackendConfig struct {
	URL            string
	RequestTimeout time.Duration
}

type APIConfig struct {
	ListenAddress  string
	DataPath       string
	CatalogPath    string
	AllowedOrigins []string
	ReloadDebounce time.Duration
}

type UIConfig struct {
	ListenAddress      string
	RejectUnknownKinds bool
	SessionIdle        time.Duration
	SecureCookie       bool
}

type ObservabilityConfig struct {
	ListenAddress  string
	MetricsEnabled bool
	HealthzEnabled bool
}

type LogConfig struct {
	Level       string
	Development bool
}

type rawConfig struct {
	Backend struct {
		URL                   string `mapstructure:"url"`
		RequestTimeoutSeconds int    `mapstructure:"requestTimeoutSeconds"`
	} `mapstructure:"backend"`
	API struct {
		ListenAddress           string   `mapstructure:"listenAddress"`
		DataPath                string   `mapstructure:"dataPath"`
		CatalogPath             string   `mapstructure:"catalogPath"`
		AllowedOrigins          []string `mapstructure:"allowedOrigins"`
		CatalogReloadDebounceMs int      `mapstructure:"catalogReloadDebounceMs"`
	} `mapstructure:"api"`
	UI struct {
		ListenAddress      string `mapstructure:"listenAddress"`
		RejectUnknownKinds bool   `mapstructure:"rejectUnknownKinds"`
		SessionIdleSeconds int    `mapstructure:"sessionIdleSeconds"`
		SecureCookie       bool   `mapstructure:"secureCookie"`
	} `mapstructure:"ui"`
	Observability struct {
		ListenAddress  string `mapstructure:"listenAddress"`
		MetricsEnabled bool   `mapstructure:"metricsEnabled"`
		HealthzEnabled bool   `mapstructure:"healthzEnabled"`
	} `mapstructure:"observability"`
	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setConfigDefaults(v)
	return v
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", domain.DefaultBackendURL)
	v.SetDefault("backend.requestTimeoutSeconds", domain.DefaultRequestTimeoutSeconds)
	v.SetDefault("api.listenAddress", domain.DefaultAPIListenAddress)
	v.SetDefault("api.dataPath", domain.DefaultDataPath)
	v.SetDefault("api.catalogPath", "")
	v.SetDefault("api.allowedOrigins", []string{})
	v.SetDefault("api.catalogReloadDebounceMs", domain.DefaultCatalogReloadDebounceMs)
	v.SetDefault("ui.listenAddress", domain.DefaultUIListenAddress)
	v.SetDefault("ui.rejectUnknownKinds", false)
	v.SetDefault("ui.sessionIdleSeconds", domain.DefaultSessionIdleSeconds)
	v.SetDefault("ui.secureCookie", false)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityListenAddress)
	v.SetDefault("observability.metricsEnabled", true)
	v.SetDefault("observability.healthzEnabled", true)
	v.SetDefault("log.level", domain.DefaultLogLevel)
	v.SetDefault("log.development", false)
}

// LoadConfig reads the YAML file at path, expanding ${VAR} references.
// An empty path yields the defaults; AGENCYUI_* variables override both.
func LoadConfig(path string) (Config, error) {
	v := newConfigViper()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg := normalizeConfig(raw)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	cfg, err := LoadConfig("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func normalizeConfig(raw rawConfig) Config {
	origins := make([]string, 0, len(raw.API.AllowedOrigins))
	for _, origin := range raw.API.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return Config{
		Backend: BackendConfig{
			URL:            strings.TrimSpace(raw.Backend.URL),
			RequestTimeout: time.Duration(raw.Backend.RequestTimeoutSeconds) * time.Second,
		},
		API: APIConfig{
			ListenAddress:  strings.TrimSpace(raw.API.ListenAddress),
			DataPath:       strings.TrimSpace(raw.API.DataPath),
			CatalogPath:    strings.TrimSpace(raw.API.CatalogPath),
			AllowedOrigins: origins,
			ReloadDebounce: time.Duration(raw.API.CatalogReloadDebounceMs) * time.Millisecond,
		},
		UI: UIConfig{
			ListenAddress:      strings.TrimSpace(raw.UI.ListenAddress),
			RejectUnknownKinds: raw.UI.RejectUnknownKinds,
			SessionIdle:        time.Duration(raw.UI.SessionIdleSeconds) * time.Second,
			SecureCookie:       raw.UI.SecureCookie,
		},
		Observability: ObservabilityConfig{
			ListenAddress:  strings.TrimSpace(raw.Observability.ListenAddress),
			MetricsEnabled: raw.Observability.MetricsEnabled,
			HealthzEnabled: raw.Observability.HealthzEnabled,
		},
		Log: LogConfig{
			Level:       strings.ToLower(strings.TrimSpace(raw.Log.Level)),
			Development: raw.Log.Development,
		},
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if err := validateBaseURL(c.Backend.URL); err != nil {
		errs = append(errs, err)
	}
	if c.Backend.RequestTimeout < 0 {
		errs = append(errs, errors.New("backend.requestTimeoutSeconds must be >= 0"))
	}
	if c.API.ListenAddress == "" {
		errs = append(errs, errors.New("api.listenAddress is required"))
	}
	if c.API.DataPath == "" {
		errs = append(errs, errors.New("api.dataPath is required"))
	}
	if c.API.ReloadDebounce < 0 {
		errs = append(errs, errors.New("api.catalogReloadDebounceMs must be >= 0"))
	}
	if c.UI.ListenAddress == "" {
		errs = append(errs, errors.New("ui.listenAddress is required"))
	}
	if c.UI.SessionIdle <= 0 {
		errs = append(errs, errors.New("ui.sessionIdleSeconds must be > 0"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("backend.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.url must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.url must include a host, got %q", raw)
	}
	return nil
}
