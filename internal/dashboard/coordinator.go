package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/metrics"
	"github.com/godilite/csat-server/internal/repository/models"
)

const (
	DefaultRefreshInterval = 5 * time.Minute
	defaultRefreshRPS      = 0.2
	defaultRefreshBurst    = 1
	defaultFetchRetries    = 3
)

var (
	ErrFetchFailure      = errors.New("record fetch failed")
	ErrRefreshThrottled  = errors.New("refresh throttled")
	ErrNoDashboard       = errors.New("no dashboard selected")
	ErrUnknownDashboard  = errors.New("unknown dashboard")
	ErrDashboardsMissing = errors.New("dashboard list unavailable")
)

// ConfigSource lists dashboards and their gauge definitions.
type ConfigSource interface {
	ListDashboards(ctx context.Context) ([]models.Dashboard, error)
	ListGauges(ctx context.Context, dashboardID string) ([]gauge.Definition, error)
}

// RecordSource loads the full record set of a data source.
type RecordSource interface {
	FetchRecords(ctx context.Context, dataSource string) ([]gauge.Record, error)
}

// Invalidator is implemented by record sources that cache; a manual refresh
// invalidates before fetching.
type Invalidator interface {
	Invalidate(ctx context.Context, dataSource string) error
}

type Option func(*Coordinator)

// WithRefreshInterval sets the periodic refresh interval. Zero or negative
// disables periodic refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Coordinator) { c.interval = d }
}

// WithRefreshLimit throttles manual refreshes.
func WithRefreshLimit(r rate.Limit, burst int) Option {
	return func(c *Coordinator) { c.limiter = rate.NewLimiter(r, burst) }
}

// WithDefaultDashboard selects slug on Start when it exists.
func WithDefaultDashboard(slug string) Option {
	return func(c *Coordinator) { c.defaultSlug = slug }
}

// WithBackOff replaces the retry policy for record fetches.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *Coordinator) { c.newBackOff = fn }
}

// Coordinator drives the Store: it loads configuration and records, runs the
// periodic refresh for the active dashboard and serves manual refreshes.
type Coordinator struct {
	store   *Store
	configs ConfigSource
	records RecordSource
	logger  *zap.Logger

	interval    time.Duration
	limiter     *rate.Limiter
	defaultSlug string
	newBackOff  func() backoff.BackOff

	switchMu   sync.Mutex
	mu         sync.Mutex
	root       context.Context
	cancelLoop context.CancelFunc
	wg         sync.WaitGroup
}

func NewCoordinator(store *Store, configs ConfigSource, records RecordSource, logger *zap.Logger, opts ...Option) *Coordinator {
	if store == nil || configs == nil || records == nil {
		panic("store, config source and record source must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		store:    store,
		configs:  configs,
		records:  records,
		logger:   logger.Named("dashboard-coordinator"),
		interval: DefaultRefreshInterval,
		limiter:  rate.NewLimiter(rate.Limit(defaultRefreshRPS), defaultRefreshBurst),
		root:     context.Background(),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return backoff.WithMaxRetries(b, defaultFetchRetries)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Store() *Store { return c.store }

func (c *Coordinator) Snapshot() State { return c.store.Snapshot() }

func (c *Coordinator) Filtered() []gauge.Record { return c.store.Filtered() }

func (c *Coordinator) View() (State, []gauge.Record) { return c.store.View() }

func (c *Coordinator) SetFilters(u FilterUpdate) (gauge.FilterState, error) {
	return c.store.SetFilters(u)
}

func (c *Coordinator) ResetFilters() { c.store.ResetFilters() }

func (c *Coordinator) ToggleExpanded(id string) string { return c.store.ToggleExpanded(id) }

// Start loads the dashboard list and activates the default dashboard, or the
// first one. The periodic refresh runs until ctx ends or Stop is called.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	c.root = ctx
	c.mu.Unlock()

	dashboards, err := c.configs.ListDashboards(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDashboardsMissing, err)
	}
	c.store.SetDashboards(dashboards)
	if len(dashboards) == 0 {
		c.logger.Warn("no active dashboards configured")
		return nil
	}

	target := dashboards[0]
	if c.defaultSlug != "" {
		if d, ok := findDashboard(dashboards, c.defaultSlug); ok {
			target = d
		} else {
			c.logger.Warn("default dashboard not found, using first", zap.String("slug", c.defaultSlug))
		}
	}
	return c.activate(ctx, target)
}

// SelectDashboard switches to the dashboard with the given slug or id.
func (c *Coordinator) SelectDashboard(ctx context.Context, slug string) error {
	d, ok := findDashboard(c.store.Snapshot().Dashboards, slug)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDashboard, slug)
	}
	return c.activate(ctx, d)
}

// Refresh reloads the records of the active dashboard, bypassing any cache.
func (c *Coordinator) Refresh(ctx context.Context) error {
	st := c.store.Snapshot()
	if st.Current == nil {
		return ErrNoDashboard
	}
	if !c.limiter.Allow() {
		metrics.ObserveThrottled()
		return ErrRefreshThrottled
	}

	if inv, ok := c.records.(Invalidator); ok {
		if err := inv.Invalidate(ctx, st.Current.DataSource); err != nil {
			c.logger.Warn("cache invalidation failed", zap.String("dataSource", st.Current.DataSource), zap.Error(err))
		}
	}
	seq, ok := c.store.BeginFetch(st.Current.ID)
	if !ok {
		return nil
	}
	return c.fetch(ctx, *st.Current, seq)
}

// Stop cancels the periodic refresh and waits for it to exit.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.cancelLoop != nil {
		c.cancelLoop()
		c.cancelLoop = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// activate switches the store to d. The switch itself is serialized; the record
// fetch runs outside the lock so a later switch supersedes it.
func (c *Coordinator) activate(ctx context.Context, d models.Dashboard) error {
	c.switchMu.Lock()
	c.Stop()
	c.store.SelectDashboard(d)
	seq, _ := c.store.BeginFetch(d.ID)
	c.logger.Info("dashboard selected", zap.String("dashboard", d.Slug), zap.String("dataSource", d.DataSource))

	defs, err := c.configs.ListGauges(ctx, d.ID)
	if err != nil {
		wrapped := fmt.Errorf("%w: list gauges: %v", ErrFetchFailure, err)
		c.store.FailFetch(seq, wrapped)
		c.switchMu.Unlock()
		return wrapped
	}
	c.store.SetGauges(defs)
	c.startLoop(d)
	c.switchMu.Unlock()

	return c.fetch(ctx, d, seq)
}

func (c *Coordinator) startLoop(d models.Dashboard) {
	if c.interval <= 0 {
		return
	}

	c.mu.Lock()
	loopCtx, cancel := context.WithCancel(c.root)
	c.cancelLoop = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				c.logger.Debug("refresh loop stopped", zap.String("dashboard", d.Slug))
				return
			case <-ticker.C:
				seq, ok := c.store.BeginFetch(d.ID)
				if !ok {
					return
				}
				if err := c.fetch(loopCtx, d, seq); err != nil && loopCtx.Err() == nil {
					c.logger.Warn("periodic refresh failed", zap.String("dashboard", d.Slug), zap.Error(err))
				}
			}
		}
	}()
}

// fetch loads records with retries and applies them if seq is still current.
func (c *Coordinator) fetch(ctx context.Context, d models.Dashboard, seq uint64) error {
	fetchID := uuid.NewString()
	logger := c.logger.With(zap.String("fetchId", fetchID), zap.String("dataSource", d.DataSource))
	start := time.Now()

	attempt := 0
	records, err := backoff.RetryNotifyWithData(
		func() ([]gauge.Record, error) {
			attempt++
			return c.records.FetchRecords(ctx, d.DataSource)
		},
		backoff.WithContext(c.newBackOff(), ctx),
		func(err error, wait time.Duration) {
			logger.Warn("record fetch failed, retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
		},
	)
	if err != nil {
		metrics.ObserveFetch(time.Since(start), metrics.OutcomeError)
		wrapped := fmt.Errorf("%w: %v", ErrFetchFailure, err)
		if !c.store.FailFetch(seq, wrapped) {
			logger.Debug("superseded fetch failed", zap.Error(err))
		}
		return wrapped
	}

	metrics.ObserveFetch(time.Since(start), metrics.OutcomeSuccess)
	if !c.store.CompleteFetch(seq, records, time.Now()) {
		logger.Debug("discarding superseded fetch", zap.Int("records", len(records)))
		return nil
	}
	logger.Info("records loaded", zap.Int("records", len(records)), zap.Int("attempts", attempt), zap.Duration("took", time.Since(start)))
	return nil
}

func findDashboard(dashboards []models.Dashboard, key string) (models.Dashboard, bool) {
	for _, d := range dashboards {
		if d.Slug == key || d.ID == key {
			return d, true
		}
	}
	return models.Dashboard{}, false
}
