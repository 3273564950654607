package telemetry

import (
	"time"

	"go.uber.org/zap"
)

const (
	FieldEvent      = "event"
	FieldSessionID  = "session_id"
	FieldAgencyID   = "agency_id"
	FieldDurationMs = "duration_ms"
	FieldLogSource  = "log_source"
	FieldRequestID  = "request_id"
	FieldRoute      = "route"
)

const (
	EventCatalogLoaded       = "catalog_loaded"
	EventCatalogFetchFailure = "catalog_fetch_failure"
	EventCatalogReloaded     = "catalog_reloaded"
	EventSubmitSuccess       = "submit_success"
	EventSubmitFailure       = "submit_failure"
	EventReload              = "reload"
	EventSessionExpired      = "session_expired"
	EventAgencyCreated       = "agency_created"
)

const (
	LogSourceAPI     = "api"
	LogSourceUI      = "ui"
	LogSourceDesktop = "desktop"
)

func EventField(event string) zap.Field {
	return zap.String(FieldEvent, event)
}

func SessionIDField(sessionID string) zap.Field {
	return zap.String(FieldSessionID, sessionID)
}

func AgencyIDField(agencyID string) zap.Field {
	return zap.String(FieldAgencyID, agencyID)
}

func DurationField(duration time.Duration) zap.Field {
	return zap.Int64(FieldDurationMs, duration.Milliseconds())
}

func RequestIDField(value string) zap.Field {
	return zap.String(FieldRequestID, value)
}

func RouteField(value string) zap.Field {
	return zap.String(FieldRoute, value)
}
