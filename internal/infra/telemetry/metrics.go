package telemetry

import (
	"time"

	"agencyui/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveCatalogFetch(_ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveSubmit(_ time.Duration, _ error) {}

func (n *NoopMetrics) ObserveDrop(_ domain.ItemKind, _ bool) {}

func (n *NoopMetrics) ObserveSubmitRejected(_ domain.ErrorCode) {}

func (n *NoopMetrics) SetActiveSessions(_ int) {}

func (n *NoopMetrics) ObserveAgencyCreated(_ int) {}

func (n *NoopMetrics) SetCatalogSize(_ domain.ItemKind, _ int) {}

func (n *NoopMetrics) ObserveHTTPRequest(_, _ string, _ int, _ time.Duration) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
