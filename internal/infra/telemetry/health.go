package telemetry

import (
	"sort"
	"sync"
	"time"
)

// HealthReport is the body served on /healthz.
type HealthReport struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

// HealthTracker aggregates component health; any failing component makes
// the whole report unhealthy.
type HealthTracker struct {
	mu         sync.RWMutex
	components map[string]ComponentHealth
	now        func() time.Time
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		components: make(map[string]ComponentHealth),
		now:        time.Now,
	}
}

// Set records a component's health. A nil error means healthy.
func (h *HealthTracker) Set(component string, err error) {
	if h == nil {
		return
	}
	entry := ComponentHealth{
		Status:    "ok",
		UpdatedAt: h.now().UTC().Format(time.RFC3339Nano),
	}
	if err != nil {
		entry.Status = "error"
		entry.Error = err.Error()
	}
	h.mu.Lock()
	h.components[component] = entry
	h.mu.Unlock()
}

func (h *HealthTracker) Report() HealthReport {
	report := HealthReport{Status: "ok"}
	if h == nil {
		return report
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.components) == 0 {
		return report
	}
	report.Components = make(map[string]ComponentHealth, len(h.components))
	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := h.components[name]
		report.Components[name] = entry
		if entry.Status != "ok" {
			report.Status = "degraded"
		}
	}
	return report
}
