package domain

import (
	"encoding/json"
	"time"
)

// CatalogItemName identifies an agent or a tool.
type CatalogItemName = string

// ItemKind is the category of a catalog item.
type ItemKind string

const (
	KindAgent ItemKind = "agent"
	KindTool  ItemKind = "tool"
)

// Known reports whether the kind is one the catalog can produce.
func (k ItemKind) Known() bool {
	return k == KindAgent || k == KindTool
}

// Kinds lists the kinds accepted by the composition target.
func Kinds() []ItemKind {
	return []ItemKind{KindAgent, KindTool}
}

// Catalog is the backend-provided set of available agents and tools.
type Catalog struct {
	Agents []CatalogItemName `json:"agents"`
	Tools  []CatalogItemName `json:"tools"`
}

// Clone returns a catalog that shares no backing arrays with c.
func (c Catalog) Clone() Catalog {
	return Catalog{
		Agents: cloneNames(c.Agents),
		Tools:  cloneNames(c.Tools),
	}
}

// Names returns the names for a kind.
func (c Catalog) Names(kind ItemKind) []CatalogItemName {
	switch kind {
	case KindAgent:
		return c.Agents
	case KindTool:
		return c.Tools
	default:
		return nil
	}
}

func cloneNames(names []CatalogItemName) []CatalogItemName {
	out := make([]CatalogItemName, len(names))
	copy(out, names)
	return out
}

// CompositionEntry is one dropped item, copied at drop time.
type CompositionEntry struct {
	Name CatalogItemName `json:"name"`
	Kind ItemKind        `json:"kind"`
}

// Composition is the ordered, duplicate-permitting list of dropped items.
type Composition []CompositionEntry

// Clone returns a copy that can be handed out without aliasing.
func (c Composition) Clone() Composition {
	out := make(Composition, len(c))
	copy(out, c)
	return out
}

// CreateAgencyRequest is the body posted to the create-agency endpoint.
type CreateAgencyRequest struct {
	Items Composition `json:"items"`
}

// CreateAgencyResponse is what the reference backend answers.
type CreateAgencyResponse struct {
	Message string              `json:"message"`
	Config  CreateAgencyRequest `json:"config"`
	ID      string              `json:"id,omitempty"`
}

// Agency is a persisted agency record.
type Agency struct {
	ID        string      `json:"id"`
	Items     Composition `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AgencyCreated carries the backend response to a successful submission.
type AgencyCreated struct {
	Acknowledgment string          `json:"acknowledgment"`
	Response       json.RawMessage `json:"response,omitempty"`
}
