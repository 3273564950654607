package session

import (
	"encoding/json"

	"agencyui/internal/composer"
	"agencyui/internal/domain"
)

// EntryView is one draggable catalog entry as rendered.
type EntryView struct {
	Name     domain.CatalogItemName `json:"name"`
	Kind     domain.ItemKind        `json:"kind"`
	Dragging bool                   `json:"dragging"`
}

// View is the render model of a session.
type View struct {
	SessionID      string             `json:"sessionId"`
	Version        uint64             `json:"version"`
	Phase          composer.Phase     `json:"phase"`
	Error          string             `json:"error,omitempty"`
	Agents         []EntryView        `json:"agents"`
	Tools          []EntryView        `json:"tools"`
	Composition    domain.Composition `json:"composition"`
	Over           bool               `json:"over"`
	Submitting     bool               `json:"submitting"`
	Acknowledgment string             `json:"acknowledgment,omitempty"`
	CanDismiss     bool               `json:"canDismiss"`
	Response       json.RawMessage    `json:"response,omitempty"`
}

// ViewOf builds the render model for a state.
func (s *Session) ViewOf(state composer.State) View {
	view := View{
		SessionID:      s.id,
		Version:        state.Version,
		Phase:          state.Phase,
		Error:          state.Error,
		Agents:         s.entries(domain.KindAgent, state.Catalog.Agents),
		Tools:          s.entries(domain.KindTool, state.Catalog.Tools),
		Composition:    state.Composition,
		Over:           s.IsOver(),
		Submitting:     state.Phase == composer.PhaseSubmitting,
		Acknowledgment: state.Acknowledgment,
		CanDismiss:     state.Phase == composer.PhaseError && state.CatalogLoaded,
	}
	if state.Acknowledgment != "" && len(state.LastResponse) > 0 {
		view.Response = state.LastResponse
	}
	if view.Composition == nil {
		view.Composition = domain.Composition{}
	}
	return view
}

// View renders the current state.
func (s *Session) View() View {
	return s.ViewOf(s.State())
}

func (s *Session) entries(kind domain.ItemKind, names []domain.CatalogItemName) []EntryView {
	out := make([]EntryView, 0, len(names))
	for _, name := range names {
		out = append(out, EntryView{
			Name:     name,
			Kind:     kind,
			Dragging: s.IsDragging(kind, name),
		})
	}
	return out
}
