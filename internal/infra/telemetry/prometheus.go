package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"agencyui/internal/domain"
)

type PrometheusMetrics struct {
	catalogFetchDuration *prometheus.HistogramVec
	submitDuration       *prometheus.HistogramVec
	drops                *prometheus.CounterVec
	submitRejected       *prometheus.CounterVec
	activeSessions       prometheus.Gauge
	agenciesCreated      prometheus.Counter
	agencyItems          prometheus.Histogram
	catalogSize          *prometheus.GaugeVec
	httpDuration         *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		catalogFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agencyui_catalog_fetch_duration_seconds",
				Help:    "Duration of catalog fetches against the backend in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		submitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agencyui_agency_submit_duration_seconds",
				Help:    "Duration of agency submissions against the backend in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"status"},
		),
		drops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyui_drops_total",
				Help: "Total number of drop events received by composition targets",
			},
			[]string{"kind", "applied"},
		),
		submitRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agencyui_submit_rejected_total",
				Help: "Total number of submissions rejected before reaching the backend",
			},
			[]string{"reason"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "agencyui_active_sessions",
				Help: "Current number of composer sessions",
			},
		),
		agenciesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "agencyd_agencies_created_total",
				Help: "Total number of agencies created by the backend",
			},
		),
		agencyItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "agencyd_agency_items",
				Help:    "Number of items per created agency",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
		),
		catalogSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agencyd_catalog_items",
				Help: "Number of catalog items served by the backend",
			},
			[]string{"kind"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agencyui_http_request_duration_seconds",
				Help:    "Duration of HTTP requests served in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"server", "route", "code"},
		),
	}
}

func (p *PrometheusMetrics) ObserveCatalogFetch(duration time.Duration, err error) {
	p.catalogFetchDuration.WithLabelValues(string(domain.OutcomeOf(err))).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveSubmit(duration time.Duration, err error) {
	p.submitDuration.WithLabelValues(string(domain.OutcomeOf(err))).Observe(duration.Seconds())
}

func (p *PrometheusMetrics) ObserveDrop(kind domain.ItemKind, applied bool) {
	label := string(kind)
	if !kind.Known() {
		label = "unknown"
	}
	p.drops.WithLabelValues(label, strconv.FormatBool(applied)).Inc()
}

func (p *PrometheusMetrics) ObserveSubmitRejected(reason domain.ErrorCode) {
	p.submitRejected.WithLabelValues(string(reason)).Inc()
}

func (p *PrometheusMetrics) SetActiveSessions(count int) {
	p.activeSessions.Set(float64(count))
}

func (p *PrometheusMetrics) ObserveAgencyCreated(items int) {
	p.agenciesCreated.Inc()
	p.agencyItems.Observe(float64(items))
}

func (p *PrometheusMetrics) SetCatalogSize(kind domain.ItemKind, count int) {
	p.catalogSize.WithLabelValues(string(kind)).Set(float64(count))
}

func (p *PrometheusMetrics) ObserveHTTPRequest(server, route string, status int, duration time.Duration) {
	p.httpDuration.WithLabelValues(server, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
