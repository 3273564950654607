// Package session drives one composer session: it fetches the catalog once,
// routes drag and drop messages into the composition store and submits the
// composition to the backend.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"agencyui/internal/composer"
	"agencyui/internal/dnd"
	"agencyui/internal/domain"
	"agencyui/internal/infra/telemetry"
)

// Backend is the pair of calls a session makes.
type Backend interface {
	FetchCatalog(ctx context.Context) (domain.Catalog, error)
	CreateAgency(ctx context.Context, items domain.Composition) (json.RawMessage, error)
}

type Options struct {
	ID          string
	Backend     Backend
	Logger      *zap.Logger
	Metrics     domain.Metrics
	StrictKinds bool
	Now         func() time.Time
}

type Session struct {
	id          string
	backend     Backend
	logger      *zap.Logger
	metrics     domain.Metrics
	strictKinds bool
	now         func() time.Time
	store       *composer.Store

	mu         sync.Mutex
	generation uint64
	startOnce  *sync.Once
	target     *dnd.Target
	sources    map[string]*dnd.Source

	lastSeen atomic.Int64
}

func New(opts Options) *Session {
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
	s := &Session{
		id:          opts.ID,
		backend:     opts.Backend,
		logger:      logger.Named("session").With(telemetry.SessionIDField(opts.ID)),
		metrics:     metrics,
		strictKinds: opts.StrictKinds,
		now:         now,
		store:       composer.NewStore(),
		startOnce:   &sync.Once{},
		sources:     map[string]*dnd.Source{},
	}
	s.target = s.newTarget()
	s.Touch()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Start fetches the catalog. Only the first call per page load does work.
func (s *Session) Start(ctx context.Context) {
	s.Touch()
	s.mu.Lock()
	once := s.startOnce
	gen := s.generation
	s.mu.Unlock()

	once.Do(func() {
		s.loadCatalog(ctx, gen)
	})
}

func (s *Session) loadCatalog(ctx context.Context, gen uint64) {
	start := s.now()
	catalog, err := s.backend.FetchCatalog(ctx)
	s.metrics.ObserveCatalogFetch(s.now().Sub(start), err)

	if !s.current(gen) {
		s.logger.Debug("discarding catalog result from a previous load")
		return
	}
	if err != nil {
		s.logger.Error("error fetching components",
			telemetry.EventField(telemetry.EventCatalogFetchFailure),
			zap.Error(err),
		)
		s.store.Dispatch(composer.CatalogFailed{Message: domain.MessageFetchFailed})
		return
	}

	s.mu.Lock()
	s.sources = buildSources(catalog)
	s.mu.Unlock()
	s.store.Dispatch(composer.CatalogLoaded{Catalog: catalog})
	s.logger.Info("catalog loaded",
		telemetry.EventField(telemetry.EventCatalogLoaded),
		zap.Int("agents", len(catalog.Agents)),
		zap.Int("tools", len(catalog.Tools)),
	)
}

func buildSources(catalog domain.Catalog) map[string]*dnd.Source {
	sources := make(map[string]*dnd.Source, len(catalog.Agents)+len(catalog.Tools))
	for _, kind := range domain.Kinds() {
		for _, name := range catalog.Names(kind) {
			key := dnd.Key(kind, name)
			if _, ok := sources[key]; !ok {
				sources[key] = dnd.NewSource(kind, name)
			}
		}
	}
	return sources
}

// PickUp starts dragging a catalog entry.
func (s *Session) PickUp(gesture dnd.GestureID, kind domain.ItemKind, name domain.CatalogItemName) (dnd.PickUpEvent, error) {
	s.Touch()
	src, ok := s.source(kind, name)
	if !ok {
		return dnd.PickUpEvent{}, fmt.Errorf("pick up %s %q: %w", kind, name, domain.ErrInvalidRequest)
	}
	return src.PickUp(gesture), nil
}

// Release ends a drag gesture on a catalog entry.
func (s *Session) Release(gesture dnd.GestureID, kind domain.ItemKind, name domain.CatalogItemName) {
	s.Touch()
	if src, ok := s.source(kind, name); ok {
		src.Release(gesture)
	}
}

func (s *Session) Hover(gesture dnd.GestureID) {
	s.Touch()
	s.currentTarget().Hover(gesture)
}

func (s *Session) Leave(gesture dnd.GestureID) {
	s.Touch()
	s.currentTarget().Leave(gesture)
}

// Drop appends the payload to the composition, at most once per gesture.
func (s *Session) Drop(ev dnd.DropEvent) (bool, error) {
	s.Touch()
	applied, err := s.currentTarget().Drop(ev)
	s.Release(ev.Gesture, ev.Payload.Kind, ev.Payload.Name)
	if err != nil {
		s.logger.Warn("drop rejected", zap.String("kind", string(ev.Payload.Kind)), zap.Error(err))
		return false, err
	}
	s.metrics.ObserveDrop(ev.Payload.Kind, applied)
	return applied, nil
}

// Submit posts the composition as it stands at the moment of the call.
// While a submission is in flight further calls are rejected without a
// network request. The composition is not cleared on success.
func (s *Session) Submit(ctx context.Context) (domain.AgencyCreated, error) {
	const op = "session.Submit"
	s.Touch()

	gen := s.currentGeneration()
	state, started := s.store.Dispatch(composer.SubmitStarted{})
	if !started {
		if state.Phase == composer.PhaseSubmitting {
			s.metrics.ObserveSubmitRejected(domain.CodeSubmitInFlight)
			return domain.AgencyCreated{}, domain.E(domain.CodeSubmitInFlight, op, "", domain.ErrSubmitInFlight)
		}
		s.metrics.ObserveSubmitRejected(domain.CodeInvalidState)
		return domain.AgencyCreated{}, domain.E(domain.CodeInvalidState, op, fmt.Sprintf("phase %s", state.Phase), domain.ErrNotReady)
	}

	items := state.Composition
	start := s.now()
	resp, err := s.backend.CreateAgency(ctx, items)
	s.metrics.ObserveSubmit(s.now().Sub(start), err)

	if err != nil {
		s.logger.Error("error creating agency",
			telemetry.EventField(telemetry.EventSubmitFailure),
			zap.Int("items", len(items)),
			zap.Error(err),
		)
		if s.current(gen) {
			s.store.Dispatch(composer.SubmitFailed{Message: domain.MessageSubmitFailed})
		}
		return domain.AgencyCreated{}, domain.Wrap(domain.CodeSubmitFailed, op, err)
	}

	s.logger.Info("agency created",
		telemetry.EventField(telemetry.EventSubmitSuccess),
		zap.Int("items", len(items)),
		zap.ByteString("response", resp),
	)
	if s.current(gen) {
		s.store.Dispatch(composer.SubmitSucceeded{Response: resp})
	}
	return domain.AgencyCreated{Acknowledgment: domain.MessageAgencyCreated, Response: resp}, nil
}

// DismissError returns to the composer, keeping the composition for retry.
func (s *Session) DismissError() bool {
	s.Touch()
	_, changed := s.store.Dispatch(composer.ErrorDismissed{})
	return changed
}

// DismissAcknowledgment clears the success acknowledgment once shown.
func (s *Session) DismissAcknowledgment() bool {
	s.Touch()
	_, changed := s.store.Dispatch(composer.AcknowledgmentDismissed{})
	return changed
}

// Reload behaves like a full page reload: the composition is cleared and
// the catalog fetched again. Results of calls started before the reload
// are discarded.
func (s *Session) Reload(ctx context.Context) {
	s.Touch()
	s.mu.Lock()
	s.generation++
	s.startOnce = &sync.Once{}
	s.sources = map[string]*dnd.Source{}
	s.target = s.newTarget()
	s.mu.Unlock()

	s.store.Dispatch(composer.Reloaded{})
	s.logger.Info("session reloaded", telemetry.EventField(telemetry.EventReload))
	s.Start(ctx)
}

// State returns a deep copy of the current composer state.
func (s *Session) State() composer.State {
	return s.store.Snapshot()
}

// Subscribe streams composer states until ctx is done.
func (s *Session) Subscribe(ctx context.Context) <-chan composer.State {
	s.Touch()
	return s.store.Subscribe(ctx)
}

// IsDragging reports whether a catalog entry is mid-drag.
func (s *Session) IsDragging(kind domain.ItemKind, name domain.CatalogItemName) bool {
	src, ok := s.source(kind, name)
	return ok && src.IsDragging()
}

// IsOver reports whether a drag hovers the composition target.
func (s *Session) IsOver() bool {
	return s.currentTarget().IsOver()
}

// LastSeen is the time of the most recent interaction.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Touch marks the session as in use without changing its state. Open
// state streams call it periodically so a watched page does not expire.
func (s *Session) Touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

func (s *Session) newTarget() *dnd.Target {
	return dnd.NewTarget(func(p dnd.Payload) bool {
		_, changed := s.store.Dispatch(composer.ItemDropped{Entry: p.Entry()})
		return changed
	}, dnd.WithStrictKinds(s.strictKinds))
}

func (s *Session) currentTarget() *dnd.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func (s *Session) source(kind domain.ItemKind, name domain.CatalogItemName) (*dnd.Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[dnd.Key(kind, name)]
	return src, ok
}

func (s *Session) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Session) current(gen uint64) bool {
	return s.currentGeneration() == gen
}
