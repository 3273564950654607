package dnd

import (
	"fmt"
	"sync"

	"agencyui/internal/domain"
)

const defaultGestureMemory = 1024

// DropHandler appends a dropped payload. It reports whether the payload was
// applied; a false return leaves the gesture unconsumed.
type DropHandler func(Payload) bool

// Target accepts agent and tool payloads and applies each drop gesture at
// most once.
type Target struct {
	handler     DropHandler
	strictKinds bool
	memory      int

	mu       sync.Mutex
	applied  map[GestureID]struct{}
	order    []GestureID
	hovering map[GestureID]struct{}
}

type TargetOption func(*Target)

// WithStrictKinds rejects payloads whose kind is neither agent nor tool.
// Without it forged kinds are appended as they are.
func WithStrictKinds(strict bool) TargetOption {
	return func(t *Target) {
		t.strictKinds = strict
	}
}

// WithGestureMemory bounds how many applied gestures are remembered.
func WithGestureMemory(n int) TargetOption {
	return func(t *Target) {
		if n > 0 {
			t.memory = n
		}
	}
}

func NewTarget(handler DropHandler, opts ...TargetOption) *Target {
	t := &Target{
		handler:  handler,
		memory:   defaultGestureMemory,
		applied:  make(map[GestureID]struct{}),
		hovering: make(map[GestureID]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Accepts reports whether a payload of the given kind would be taken.
func (t *Target) Accepts(kind domain.ItemKind) bool {
	return kind.Known() || !t.strictKinds
}

func (t *Target) Hover(gesture GestureID) {
	t.mu.Lock()
	t.hovering[gesture] = struct{}{}
	t.mu.Unlock()
}

func (t *Target) Leave(gesture GestureID) {
	t.mu.Lock()
	delete(t.hovering, gesture)
	t.mu.Unlock()
}

// IsOver reports whether a valid drag currently hovers the target.
func (t *Target) IsOver() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.hovering) > 0
}

// Drop applies the event's payload unless its gesture was already applied.
func (t *Target) Drop(ev DropEvent) (bool, error) {
	if !ev.Gesture.Valid() {
		return false, fmt.Errorf("drop without gesture: %w", domain.ErrInvalidRequest)
	}
	if !t.Accepts(ev.Payload.Kind) {
		return false, fmt.Errorf("drop %q: %w", ev.Payload.Kind, domain.ErrUnknownKind)
	}

	t.mu.Lock()
	delete(t.hovering, ev.Gesture)
	if _, seen := t.applied[ev.Gesture]; seen {
		t.mu.Unlock()
		return false, nil
	}
	t.remember(ev.Gesture)
	t.mu.Unlock()

	if t.handler == nil || t.handler(ev.Payload) {
		return true, nil
	}

	t.mu.Lock()
	t.forget(ev.Gesture)
	t.mu.Unlock()
	return false, nil
}

func (t *Target) remember(gesture GestureID) {
	t.applied[gesture] = struct{}{}
	t.order = append(t.order, gesture)
	if len(t.order) > t.memory {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.applied, oldest)
	}
}

func (t *Target) forget(gesture GestureID) {
	delete(t.applied, gesture)
	for i, g := range t.order {
		if g == gesture {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
