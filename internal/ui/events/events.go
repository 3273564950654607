package events

import (
	"context"

	"agencyui/internal/session"
)

// Event names shared by the desktop shell and the SSE stream.
const (
	EventCompositionState = "composition:state"
	EventError            = "error"

	// StreamState is the SSE event name the composer page listens for.
	StreamState = "state"
)

// StateEvent carries the render model of one session.
type StateEvent struct {
	SessionID string       `json:"sessionId"`
	View      session.View `json:"view"`
}

// ErrorEvent represents an error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Emitter publishes a named event. The desktop shell adapts the
// application event bus to it.
type Emitter interface {
	Emit(name string, data any)
}

type EmitterFunc func(name string, data any)

func (f EmitterFunc) Emit(name string, data any) {
	f(name, data)
}

func EmitState(emitter Emitter, sessionID string, view session.View) {
	if emitter == nil {
		return
	}
	emitter.Emit(EventCompositionState, StateEvent{SessionID: sessionID, View: view})
}

func EmitError(emitter Emitter, code, message, details string) {
	if emitter == nil {
		return
	}
	emitter.Emit(EventError, ErrorEvent{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Mirror emits a state event for every state of s until ctx is done.
func Mirror(ctx context.Context, s *session.Session, emitter Emitter) {
	for state := range s.Subscribe(ctx) {
		EmitState(emitter, s.ID(), s.ViewOf(state))
	}
}
