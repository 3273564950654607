package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agencyui/internal/domain"
	"agencyui/internal/infra/telemetry"
)

// ManagerOptions configures a session registry.
type ManagerOptions struct {
	Backend     Backend
	Logger      *zap.Logger
	Metrics     domain.Metrics
	StrictKinds bool
	IdleTimeout time.Duration
	Now         func() time.Time
	// BaseContext bounds catalog fetches started on behalf of new sessions.
	BaseContext context.Context
	// OnCreate runs for each new session before its catalog fetch starts.
	// Its context is cancelled when the session is removed or expires.
	OnCreate func(context.Context, *Session)
}

// Manager owns the sessions of one UI server, keyed by a cookie id.
type Manager struct {
	backend     Backend
	logger      *zap.Logger
	metrics     domain.Metrics
	strictKinds bool
	idleTimeout time.Duration
	now         func() time.Time
	baseCtx     context.Context
	onCreate    func(context.Context, *Session)

	mu       sync.RWMutex
	sessions map[string]*Session
	lives    map[string]lifetime
}

// lifetime bounds the background work of one session.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	baseCtx := opts.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = time.Duration(domain.DefaultSessionIdleSeconds) * time.Second
	}
	return &Manager{
		backend:     opts.Backend,
		logger:      logger.Named("sessions"),
		metrics:     metrics,
		strictKinds: opts.StrictKinds,
		idleTimeout: idle,
		now:         now,
		baseCtx:     baseCtx,
		onCreate:    opts.OnCreate,
		sessions:    make(map[string]*Session),
		lives:       make(map[string]lifetime),
	}
}

// Get returns an existing session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, creating one (and starting its
// catalog fetch in the background) when id is empty or unknown. The bool
// reports whether a new session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}

	m.mu.Lock()
	if id != "" {
		if s, ok := m.sessions[id]; ok {
			m.mu.Unlock()
			return s, false
		}
	}
	newID := uuid.NewString()
	s := New(Options{
		ID:          newID,
		Backend:     m.backend,
		Logger:      m.logger,
		Metrics:     m.metrics,
		StrictKinds: m.strictKinds,
		Now:         m.now,
	})
	sessionCtx, cancel := context.WithCancel(m.baseCtx)
	m.sessions[newID] = s
	m.lives[newID] = lifetime{ctx: sessionCtx, cancel: cancel}
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	m.logger.Debug("session created", telemetry.SessionIDField(newID))
	if m.onCreate != nil {
		m.onCreate(sessionCtx, s)
	}
	go s.Start(sessionCtx)
	return s, true
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	m.dropLocked(id)
	count := len(m.sessions)
	m.mu.Unlock()
	if ok {
		m.metrics.SetActiveSessions(count)
	}
	return ok
}

// IDs lists the live session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the idle timeout and returns
// how many were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			m.dropLocked(id)
			removed++
			m.logger.Debug("session expired",
				telemetry.EventField(telemetry.EventSessionExpired),
				telemetry.SessionIDField(id),
			)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.metrics.SetActiveSessions(count)
	}
	return removed
}

// dropLocked forgets a session and cancels its context. m.mu must be held.
func (m *Manager) dropLocked(id string) {
	delete(m.sessions, id)
	if life, ok := m.lives[id]; ok {
		life.cancel()
		delete(m.lives, id)
	}
}

// Context returns the lifetime context of a live session: it outlives any
// single request and ends when the session is removed.
func (m *Manager) Context(id string) (context.Context, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	life, ok := m.lives[id]
	if !ok {
		return nil, false
	}
	return life.ctx, true
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	interval := m.idleTimeout / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
