package composer

import (
	"encoding/json"

	"agencyui/internal/domain"
)

// Action is a typed state transition request.
type Action interface {
	ActionName() string
}

type CatalogLoaded struct {
	Catalog domain.Catalog
}

type CatalogFailed struct {
	Message string
}

type ItemDropped struct {
	Entry domain.CompositionEntry
}

type SubmitStarted struct{}

type SubmitSucceeded struct {
	Response json.RawMessage
}

type SubmitFailed struct {
	Message string
}

// ErrorDismissed leaves the error display and keeps the composition.
type ErrorDismissed struct{}

// AcknowledgmentDismissed clears the success acknowledgment once shown.
type AcknowledgmentDismissed struct{}

// Reloaded resets the session as a full page reload would.
type Reloaded struct{}

func (CatalogLoaded) ActionName() string           { return "catalog-loaded" }
func (CatalogFailed) ActionName() string           { return "catalog-failed" }
func (ItemDropped) ActionName() string             { return "item-dropped" }
func (SubmitStarted) ActionName() string           { return "submit-started" }
func (SubmitSucceeded) ActionName() string         { return "submit-succeeded" }
func (SubmitFailed) ActionName() string            { return "submit-failed" }
func (ErrorDismissed) ActionName() string          { return "error-dismissed" }
func (AcknowledgmentDismissed) ActionName() string { return "acknowledgment-dismissed" }
func (Reloaded) ActionName() string                { return "reloaded" }
