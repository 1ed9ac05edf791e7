package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mtlprog/vaultstat/internal/domain"
	"github.com/mtlprog/vaultstat/internal/vault"
)

// DefaultInterval is used when no positive refresh interval is configured.
const DefaultInterval = 10 * time.Second

// Cycle outcomes reported to the CycleRecorder.
const (
	CycleSuccess   = "success"
	CycleFailure   = "failure"
	CycleStale     = "stale"
	CycleDiscarded = "discarded"
)

var (
	// ErrDisposed is returned by a poller that has been stopped.
	ErrDisposed = errors.New("poller disposed")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("poller already started")
)

// Collector runs one collection cycle over the configured vaults.
type Collector interface {
	Collect(ctx context.Context, vaults []domain.VaultConfig) (vault.Report, error)
}

// CycleRecorder observes finished cycles.
type CycleRecorder interface {
	ObserveCycle(result string, d time.Duration)
}

// State is the published view of the vaults. Error is nil unless the last cycle failed.
type State struct {
	Vaults    []domain.VaultSnapshot `json:"vaults"`
	Loading   bool                   `json:"loading"`
	Error     *string                `json:"error"`
	UpdatedAt *time.Time             `json:"updatedAt"`
}

// VaultPoller refreshes vault snapshots on a fixed interval and on demand.
type VaultPoller struct {
	collector Collector
	vaults    []domain.VaultConfig
	interval  time.Duration
	logger    *slog.Logger
	recorder  CycleRecorder
	now       func() time.Time

	seq atomic.Uint64

	mu        sync.Mutex
	state     State
	published uint64
	started   bool
	disposed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// PollerOption configures a VaultPoller.
type PollerOption func(*VaultPoller)

// WithLogger sets the poller logger.
func WithLogger(logger *slog.Logger) PollerOption {
	return func(p *VaultPoller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCycleRecorder sets the recorder notified after each cycle.
func WithCycleRecorder(r CycleRecorder) PollerOption {
	return func(p *VaultPoller) { p.recorder = r }
}

// WithPollerClock overrides the clock used for UpdatedAt.
func WithPollerClock(now func() time.Time) PollerOption {
	return func(p *VaultPoller) { p.now = now }
}

// NewVaultPoller creates a new VaultPoller. A non-positive interval falls back to DefaultInterval.
func NewVaultPoller(collector Collector, vaults []domain.VaultConfig, interval time.Duration, opts ...PollerOption) *VaultPoller {
	if collector == nil {
		panic("worker.NewVaultPoller: collector is nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &VaultPoller{
		collector: collector,
		vaults:    slices.Clone(vaults),
		interval:  interval,
		logger:    slog.Default(),
		now:       time.Now,
		state: State{
			Vaults:  []domain.VaultSnapshot{},
			Loading: true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the refresh loop. The first cycle runs immediately.
func (p *VaultPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return ErrDisposed
	}
	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("VaultPoller: started", "interval", p.interval, "vaults", len(p.vaults))
	return nil
}

// Stop disposes the poller: the loop is cancelled, in-flight results are discarded
// and no further state is published. It waits for the loop to exit or ctx to end.
func (p *VaultPoller) Stop(ctx context.Context) error {
	p.mu.Lock()
	p.disposed = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("VaultPoller: stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh runs one cycle synchronously and returns the resulting state.
// It may overlap a scheduled cycle; whichever started later wins.
func (p *VaultPoller) Refresh(ctx context.Context) (State, error) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return State{}, ErrDisposed
	}
	owned := p.ctx
	p.mu.Unlock()

	if owned != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(owned, cancel)
		defer stop()
	}
	return p.runCycle(ctx, "manual")
}

// State returns a copy of the last published state.
func (p *VaultPoller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *VaultPoller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(p.ctx, "initial")

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Info("VaultPoller: shutting down")
			return
		case <-ticker.C:
			if p.ctx.Err() != nil {
				return
			}
			p.runCycle(p.ctx, "tick")
		}
	}
}

// runCycle collects, then publishes unless the cycle was cancelled, the poller was
// disposed or a later cycle has already published.
func (p *VaultPoller) runCycle(ctx context.Context, trigger string) (State, error) {
	seq := p.seq.Add(1)
	cycleID := uuid.NewString()
	start := time.Now()

	report, err := p.collect(ctx)
	duration := time.Since(start)
	logger := p.logger.With("cycle", cycleID, "trigger", trigger)

	if ctxErr := ctx.Err(); ctxErr != nil {
		p.observe(CycleDiscarded, duration)
		logger.Debug("VaultPoller: cycle discarded", "reason", ctxErr)
		return State{}, ctxErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		p.observe(CycleDiscarded, duration)
		return State{}, ErrDisposed
	}
	if seq < p.published {
		p.observe(CycleStale, duration)
		logger.Debug("VaultPoller: stale cycle dropped", "seq", seq, "published", p.published)
		return p.snapshotLocked(), nil
	}
	p.published = seq
	p.state.Loading = false

	if err != nil {
		msg := err.Error()
		p.state.Error = &msg
		p.observe(CycleFailure, duration)
		logger.Error("VaultPoller: cycle failed, keeping previous vaults", "error", err, "duration", duration)
		return p.snapshotLocked(), nil
	}

	now := p.now().UTC()
	p.state.Vaults = report.Vaults
	p.state.Error = nil
	p.state.UpdatedAt = &now
	p.observe(CycleSuccess, duration)

	level := slog.LevelInfo
	attrs := []any{
		"published", len(report.Vaults),
		"dropped", report.Dropped,
		"failures", len(multierr.Errors(report.Failures)),
		"duration", duration,
	}
	if report.Failures != nil {
		level = slog.LevelWarn
		attrs = append(attrs, "errors", report.Failures)
	}
	logger.Log(ctx, level, "VaultPoller: cycle completed", attrs...)
	return p.snapshotLocked(), nil
}

// collect calls the collector, converting a panic into a cycle error.
func (p *VaultPoller) collect(ctx context.Context) (report vault.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("refresh cycle panicked: %v", r)
		}
	}()
	return p.collector.Collect(ctx, p.vaults)
}

func (p *VaultPoller) observe(result string, d time.Duration) {
	if p.recorder != nil {
		p.recorder.ObserveCycle(result, d)
	}
}

func (p *VaultPoller) snapshotLocked() State {
	s := p.state
	s.Vaults = slices.Clone(p.state.Vaults)
	if s.Vaults == nil {
		s.Vaults = []domain.VaultSnapshot{}
	}
	if p.state.Error != nil {
		msg := *p.state.Error
		s.Error = &msg
	}
	if p.state.UpdatedAt != nil {
		t := *p.state.UpdatedAt
		s.UpdatedAt = &t
	}
	return s
}
