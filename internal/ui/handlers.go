package ui

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"agencyui/internal/dnd"
	"agencyui/internal/domain"
	"agencyui/internal/infra/httpx"
	"agencyui/internal/infra/telemetry"
	"agencyui/internal/session"
	"agencyui/internal/ui/events"
)

// gestureRequest is the body of the pick-up, release and drop calls.
type gestureRequest struct {
	Gesture dnd.GestureID          `json:"gesture"`
	Name    domain.CatalogItemName `json:"name"`
	Kind    domain.ItemKind        `json:"kind"`
}

func (g gestureRequest) payload() dnd.Payload {
	return dnd.Payload{Name: g.Name, Kind: g.Kind}
}

type dropResponse struct {
	Applied bool `json:"applied"`
}

type dismissRequest struct {
	Target string `json:"target"`
}

type dismissResponse struct {
	Changed bool `json:"changed"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sess := s.openSession(w, r)
	if err := renderPage(w, sess.View()); err != nil {
		telemetry.LoggerWithRequest(r.Context(), s.logger).Error("render page failed", zap.Error(err))
	}
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	sess, err := s.existingSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sess.View())
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	sess, err := s.existingSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stream, err := newSSEWriter(w)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	states := sess.Subscribe(ctx)
	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess.Touch()
			if err := stream.Ping(); err != nil {
				return
			}
		case state, ok := <-states:
			if !ok {
				return
			}
			data, err := json.Marshal(sess.ViewOf(state))
			if err != nil {
				s.logger.Error("encode state failed", zap.Error(err))
				return
			}
			if err := stream.Emit(events.StreamState, data); err != nil {
				return
			}
		}
	}
}

func (s *Server) pickUp(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.gesture(w, r)
	if !ok {
		return
	}
	ev, err := sess.PickUp(req.Gesture, req.Kind, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ev)
}

func (s *Server) release(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.gesture(w, r)
	if !ok {
		return
	}
	sess.Release(req.Gesture, req.Kind, req.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.gesture(w, r)
	if !ok {
		return
	}
	sess.Hover(req.Gesture)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) leave(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.gesture(w, r)
	if !ok {
		return
	}
	sess.Leave(req.Gesture)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) drop(w http.ResponseWriter, r *http.Request) {
	sess, req, ok := s.gesture(w, r)
	if !ok {
		return
	}
	applied, err := sess.Drop(dnd.DropEvent{Gesture: req.Gesture, Payload: req.payload()})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dropResponse{Applied: applied})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.existingSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := sess.Submit(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, created)
}

func (s *Server) dismiss(w http.ResponseWriter, r *http.Request) {
	sess, err := s.existingSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req dismissRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	var changed bool
	switch req.Target {
	case "", "error":
		changed = sess.DismissError()
	case "acknowledgment":
		changed = sess.DismissAcknowledgment()
	default:
		s.writeError(w, r, domain.ErrInvalidRequest)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dismissResponse{Changed: changed})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.existingSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// The refetch runs on the session lifetime, not the request.
	ctx, ok := s.sessions.Context(sess.ID())
	if !ok {
		s.writeError(w, r, domain.ErrSessionNotFound)
		return
	}
	sess.Reload(ctx)
	httpx.WriteJSON(w, http.StatusOK, sess.View())
}

// gesture resolves the session and decodes a gesture body. Requests without
// a gesture id are rejected.
func (s *Server) gesture(w http.ResponseWriter, r *http.Request) (*session.Session, gestureRequest, bool) {
	sess, err := s.existingSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, gestureRequest{}, false
	}
	var req gestureRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return nil, gestureRequest{}, false
	}
	if !req.Gesture.Valid() {
		s.writeError(w, r, domain.ErrInvalidRequest)
		return nil, gestureRequest{}, false
	}
	return sess, req, true
}
