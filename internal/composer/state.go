// Package composer holds the composition state machine: a pure reducer over
// typed actions and a store that serializes dispatches for one session.
package composer

import (
	"encoding/json"

	"agencyui/internal/domain"
)

// Phase is the coarse state of a composer session.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseReady        Phase = "ready"
	PhaseSubmitting   Phase = "submitting"
	PhaseError        Phase = "error"
)

// State is an immutable view of one session. Reduce never mutates the
// slices of the state it receives.
type State struct {
	Version        uint64             `json:"version"`
	Phase          Phase              `json:"phase"`
	Catalog        domain.Catalog     `json:"catalog"`
	CatalogLoaded  bool               `json:"catalogLoaded"`
	Composition    domain.Composition `json:"composition"`
	Error          string             `json:"error,omitempty"`
	Acknowledgment string             `json:"acknowledgment,omitempty"`
	LastResponse   json.RawMessage    `json:"lastResponse,omitempty"`
}

// Initial returns the state of a freshly loaded page.
func Initial() State {
	return State{
		Phase:       PhaseInitializing,
		Catalog:     domain.Catalog{Agents: []domain.CatalogItemName{}, Tools: []domain.CatalogItemName{}},
		Composition: domain.Composition{},
	}
}

// Clone deep-copies the state so callers can hold it across dispatches.
func (s State) Clone() State {
	out := s
	out.Catalog = s.Catalog.Clone()
	out.Composition = s.Composition.Clone()
	if s.LastResponse != nil {
		out.LastResponse = append(json.RawMessage(nil), s.LastResponse...)
	}
	return out
}

// ComposerVisible reports whether the catalog and drop target are shown.
// Once an error is set the whole composer is replaced by the message.
func (s State) ComposerVisible() bool {
	return s.Phase != PhaseError
}

// AcceptsDrops reports whether an ItemDropped action would be applied.
func (s State) AcceptsDrops() bool {
	return s.Phase != PhaseError
}
