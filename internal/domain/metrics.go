package domain

import "time"

// Outcome labels the result of a backend call.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// OutcomeOf maps an error to its metric label.
func OutcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// Metrics records composer and backend activity.
type Metrics interface {
	ObserveCatalogFetch(duration time.Duration, err error)
	ObserveSubmit(duration time.Duration, err error)
	ObserveDrop(kind ItemKind, applied bool)
	ObserveSubmitRejected(reason ErrorCode)
	SetActiveSessions(count int)
	ObserveAgencyCreated(items int)
	SetCatalogSize(kind ItemKind, count int)
	ObserveHTTPRequest(server, route string, status int, duration time.Duration)
}
