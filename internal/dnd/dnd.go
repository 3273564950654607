// Package dnd models drag and drop as typed messages: a Source emits a
// pick-up event for one catalog item and a Target consumes drop events,
// handing each payload to a single append handler.
package dnd

import (
	"strings"

	"github.com/google/uuid"

	"agencyui/internal/domain"
)

// GestureID identifies one physical drag gesture from pick-up to drop.
type GestureID string

func NewGesture() GestureID {
	return GestureID(uuid.NewString())
}

func (g GestureID) Valid() bool {
	return strings.TrimSpace(string(g)) != ""
}

// Payload is exactly what travels from source to target.
type Payload struct {
	Name domain.CatalogItemName `json:"name"`
	Kind domain.ItemKind        `json:"kind"`
}

// Entry copies the payload into a composition entry.
func (p Payload) Entry() domain.CompositionEntry {
	return domain.CompositionEntry{Name: p.Name, Kind: p.Kind}
}

type PickUpEvent struct {
	Gesture GestureID `json:"gesture"`
	Payload Payload   `json:"payload"`
}

type DropEvent struct {
	Gesture GestureID `json:"gesture"`
	Payload Payload   `json:"payload"`
}
