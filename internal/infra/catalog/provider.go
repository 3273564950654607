package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"agencyui/internal/domain"
	"agencyui/internal/infra/telemetry"
)

const healthComponent = "catalog"

type ProviderOptions struct {
	Path     string
	Debounce time.Duration
	Logger   *zap.Logger
	Metrics  domain.Metrics
	Health   *telemetry.HealthTracker
}

// Provider serves the current catalog and reloads it when the file changes.
type Provider struct {
	logger   *zap.Logger
	loader   *Loader
	path     string
	debounce time.Duration
	metrics  domain.Metrics
	health   *telemetry.HealthTracker

	state    atomic.Value
	revision atomic.Uint64

	subsMu sync.Mutex
	subs   map[chan domain.Catalog]struct{}

	reloadMu sync.Mutex
}

func NewProvider(ctx context.Context, opts ProviderOptions) (*Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = time.Duration(domain.DefaultCatalogReloadDebounceMs) * time.Millisecond
	}

	loader := NewLoader(logger)
	initial, err := loader.Load(ctx, opts.Path)
	if err != nil {
		opts.Health.Set(healthComponent, err)
		return nil, err
	}

	p := &Provider{
		logger:   logger.Named("catalog_provider"),
		loader:   loader,
		path:     opts.Path,
		debounce: debounce,
		metrics:  metrics,
		health:   opts.Health,
		subs:     make(map[chan domain.Catalog]struct{}),
	}
	p.store(initial)
	p.health.Set(healthComponent, nil)
	return p, nil
}

// Snapshot returns a copy of the current catalog.
func (p *Provider) Snapshot() domain.Catalog {
	return p.state.Load().(domain.Catalog).Clone()
}

func (p *Provider) Revision() uint64 {
	return p.revision.Load()
}

// Watch streams catalogs published after a reload until ctx is done.
func (p *Provider) Watch(ctx context.Context) <-chan domain.Catalog {
	ch := make(chan domain.Catalog, 1)
	p.subsMu.Lock()
	p.subs[ch] = struct{}{}
	p.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		p.subsMu.Lock()
		delete(p.subs, ch)
		p.subsMu.Unlock()
	}()
	return ch
}

// Reload re-reads the catalog file. A failed reload keeps the previous
// catalog and marks the component unhealthy.
func (p *Provider) Reload(ctx context.Context) error {
	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	next, err := p.loader.Load(ctx, p.path)
	p.health.Set(healthComponent, err)
	if err != nil {
		return err
	}
	if catalogEqual(p.state.Load().(domain.Catalog), next) {
		return nil
	}
	p.store(next)
	p.logger.Info("catalog reloaded",
		telemetry.EventField(telemetry.EventCatalogReloaded),
		zap.Uint64("revision", p.revision.Load()),
		zap.Int("agents", len(next.Agents)),
		zap.Int("tools", len(next.Tools)),
	)
	p.broadcast(next)
	return nil
}

func (p *Provider) store(catalog domain.Catalog) {
	p.state.Store(catalog)
	p.revision.Add(1)
	for _, kind := range domain.Kinds() {
		p.metrics.SetCatalogSize(kind, len(catalog.Names(kind)))
	}
}

func (p *Provider) broadcast(catalog domain.Catalog) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- catalog.Clone():
		default:
		}
	}
}

// Run watches the catalog file until ctx is done. It returns immediately
// when the built-in catalog is in use.
func (p *Provider) Run(ctx context.Context) {
	if p.path == "" {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn("catalog watcher failed", zap.Error(err))
		return
	}
	defer watcher.Close()

	// Editors replace files by rename, so watch the directory.
	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		p.logger.Warn("catalog watcher add failed", zap.String("path", dir), zap.Error(err))
		return
	}
	target := filepath.Clean(p.path)

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Warn("catalog watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(p.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.debounce)
		case <-timerChan(timer):
			timer = nil
			if err := p.Reload(ctx); err != nil {
				p.logger.Warn("catalog reload failed", zap.Error(err))
			}
		}
	}
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}

func catalogEqual(a, b domain.Catalog) bool {
	return namesEqual(a.Agents, b.Agents) && namesEqual(a.Tools, b.Tools)
}

func namesEqual(a, b []domain.CatalogItemName) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
