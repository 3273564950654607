package dnd

import (
	"sync"

	"agencyui/internal/domain"
)

// Source marks one catalog item as draggable. It holds no state besides the
// gestures currently in flight, which only drive IsDragging.
type Source struct {
	payload Payload

	mu     sync.Mutex
	active map[GestureID]struct{}
}

func NewSource(kind domain.ItemKind, name domain.CatalogItemName) *Source {
	return &Source{
		payload: Payload{Name: name, Kind: kind},
		active:  make(map[GestureID]struct{}),
	}
}

func (s *Source) Payload() Payload {
	return s.payload
}

// PickUp starts a drag and returns the event a target will later receive.
func (s *Source) PickUp(gesture GestureID) PickUpEvent {
	s.mu.Lock()
	s.active[gesture] = struct{}{}
	s.mu.Unlock()
	return PickUpEvent{Gesture: gesture, Payload: s.payload}
}

// Release ends a drag whether or not it was dropped on a target.
func (s *Source) Release(gesture GestureID) {
	s.mu.Lock()
	delete(s.active, gesture)
	s.mu.Unlock()
}

func (s *Source) IsDragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active) > 0
}

// Key identifies a source within a catalog.
func Key(kind domain.ItemKind, name domain.CatalogItemName) string {
	return string(kind) + "/" + name
}
