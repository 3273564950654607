package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencyui/internal/domain"
)

func TestNewPrometheusMetrics_UsesProvidedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewPrometheusMetrics(registry)
	m.ObserveCatalogFetch(10*time.Millisecond, nil)
	m.ObserveSubmit(20*time.Millisecond, errors.New("boom"))
	m.ObserveDrop(domain.KindAgent, true)
	m.ObserveSubmitRejected(domain.CodeSubmitInFlight)
	m.SetActiveSessions(3)
	m.ObserveAgencyCreated(2)
	m.SetCatalogSize(domain.KindTool, 3)
	m.ObserveHTTPRequest("api", "/api/components", 200, time.Millisecond)

	metrics, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(metrics))
	for _, m := range metrics {
		names = append(names, m.GetName())
	}

	assert.Contains(t, names, "agencyui_catalog_fetch_duration_seconds")
	assert.Contains(t, names, "agencyui_agency_submit_duration_seconds")
	assert.Contains(t, names, "agencyui_drops_total")
	assert.Contains(t, names, "agencyui_submit_rejected_total")
	assert.Contains(t, names, "agencyui_active_sessions")
	assert.Contains(t, names, "agencyd_agencies_created_total")
	assert.Contains(t, names, "agencyd_agency_items")
	assert.Contains(t, names, "agencyd_catalog_items")
	assert.Contains(t, names, "agencyui_http_request_duration_seconds")
}

func TestPrometheusMetrics_ImplementsInterface(t *testing.T) {
	var _ domain.Metrics = (*PrometheusMetrics)(nil)
	var _ domain.Metrics = (*NoopMetrics)(nil)
}

func TestPrometheusMetrics_DropLabels(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	m.ObserveDrop(domain.KindTool, true)
	m.ObserveDrop(domain.KindTool, true)
	m.ObserveDrop(domain.KindAgent, false)
	m.ObserveDrop("widget", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.drops.WithLabelValues("tool", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.drops.WithLabelValues("agent", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.drops.WithLabelValues("unknown", "true")))
}

func TestPrometheusMetrics_Gauges(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	m.SetActiveSessions(4)
	m.SetActiveSessions(2)
	m.SetCatalogSize(domain.KindAgent, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.catalogSize.WithLabelValues("agent")))
}

func TestPrometheusMetrics_AgencyCreated(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())
	m.ObserveAgencyCreated(0)
	m.ObserveAgencyCreated(5)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.agenciesCreated))
}
