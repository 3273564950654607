package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"agencyui/internal/session"
)

func testConfig(t *testing.T, backendURL string) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Backend.URL = backendURL
	cfg.API.ListenAddress = "127.0.0.1:0"
	cfg.API.DataPath = filepath.Join(t.TempDir(), "agencies.db")
	cfg.UI.ListenAddress = "127.0.0.1:0"
	cfg.Observability.MetricsEnabled = false
	cfg.Observability.HealthzEnabled = false
	return cfg
}

func TestNewApplicationRejectsUnknownMode(t *testing.T) {
	_, err := NewApplication(context.Background(), DefaultConfig(), Mode("desktop"), LoggingConfig{}, SessionHooks{})
	require.Error(t, err)
}

func TestNewApplicationUIModeSkipsStore(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")

	application, err := NewApplication(context.Background(), cfg, ModeUI, LoggingConfig{Logger: zaptest.NewLogger(t)}, SessionHooks{})
	require.NoError(t, err)
	assert.Nil(t, application.API())
	require.NotNil(t, application.Composer())

	_, statErr := os.Stat(cfg.API.DataPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAllModeComposesAgainstOwnBackend(t *testing.T) {
	backendSrv := httptest.NewUnstartedServer(nil)
	cfg := testConfig(t, "http://"+backendSrv.Listener.Addr().String())

	created := make(chan *session.Session, 1)
	hooks := SessionHooks{OnCreate: func(_ context.Context, s *session.Session) { created <- s }}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application, err := NewApplication(ctx, cfg, ModeAll, LoggingConfig{Logger: zaptest.NewLogger(t)}, hooks)
	require.NoError(t, err)

	backendSrv.Config.Handler = application.API().Handler()
	backendSrv.Start()
	defer backendSrv.Close()

	uiSrv := httptest.NewServer(application.Composer().Handler())
	defer uiSrv.Close()

	resp, err := http.Get(uiSrv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sess *session.Session
	select {
	case sess = <-created:
	case <-time.After(2 * time.Second):
		t.Fatal("session was not created")
	}
	require.Eventually(t, func() bool {
		return len(sess.State().Catalog.Agents) == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApplicationRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	application, err := NewApplication(context.Background(), cfg, ModeAll, LoggingConfig{Logger: zaptest.NewLogger(t)}, SessionHooks{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestValidateConfigReportsCatalog(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("agents: [Planner]\ntools: [Search, Browse]\n"), 0o600))
	path := writeConfig(t, "api:\n  catalogPath: "+catalogPath+"\n")

	report, err := ValidateConfig(context.Background(), path, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Agents)
	assert.Equal(t, 2, report.Tools)
	assert.Equal(t, catalogPath, report.CatalogPath)
}
