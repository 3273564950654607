// Package ui serves the composer page: a server-rendered catalog and drop
// target whose state lives in a per-browser session and is pushed back to
// the page over Server-Sent Events.
package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"agencyui/internal/domain"
	"agencyui/internal/infra/httpx"
	"agencyui/internal/infra/telemetry"
	"agencyui/internal/session"
)

const (
	DefaultCookieName = "agencyui_session"
	keepAliveInterval = 25 * time.Second
)

type Options struct {
	Sessions     *session.Manager
	Logger       *zap.Logger
	Metrics      domain.Metrics
	CookieName   string
	SecureCookie bool
	// KeepAlive is the SSE ping interval; open streams also keep their
	// session from expiring at this rate.
	KeepAlive time.Duration
}

type Server struct {
	sessions   *session.Manager
	logger     *zap.Logger
	metrics    domain.Metrics
	cookieName string
	secure     bool
	keepAlive  time.Duration
}

func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	cookie := opts.CookieName
	if cookie == "" {
		cookie = DefaultCookieName
	}
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = keepAliveInterval
	}
	return &Server{
		sessions:   opts.Sessions,
		logger:     logger.Named("ui").With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceUI)),
		metrics:    metrics,
		cookieName: cookie,
		secure:     opts.SecureCookie,
		keepAlive:  keepAlive,
	}
}

// Handler builds the composer router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(httpx.RequestID)
	r.Use(httpx.Observe("ui", s.metrics, s.logger))

	r.Get("/", s.index)
	r.Handle("/assets/*", assetsHandler())
	r.Route("/ui", func(r chi.Router) {
		r.Get("/state", s.state)
		r.Get("/events", s.events)
		r.Post("/pickup", s.pickUp)
		r.Post("/release", s.release)
		r.Post("/hover", s.hover)
		r.Post("/leave", s.leave)
		r.Post("/drop", s.drop)
		r.Post("/submit", s.submit)
		r.Post("/dismiss", s.dismiss)
		r.Post("/reload", s.reload)
	})
	return r
}

// Serve listens on addr until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	return httpx.Serve(ctx, "ui", addr, s.Handler(), s.logger)
}

// openSession returns the caller's session, creating one for a new visitor.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(s.cookieName); err == nil {
		id = c.Value
	}
	sess, created := s.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// existingSession looks up the caller's session without creating one.
func (s *Server) existingSession(r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(s.cookieName)
	if err != nil || c.Value == "" {
		return nil, domain.ErrSessionNotFound
	}
	sess, ok := s.sessions.Get(c.Value)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	uiErr := MapDomainError(err)
	if uiErr.Code == ErrCodeInternal {
		telemetry.LoggerWithRequest(r.Context(), s.logger).Error("ui request failed", zap.Error(err))
	}
	httpx.WriteJSON(w, uiErr.Status(), uiErr)
}
