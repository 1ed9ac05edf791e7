package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/mtlprog/vaultstat/internal/domain"
)

// Fetch stages reported to the failure recorder.
const (
	StageFollower   = "follower"
	StageLeader     = "leader"
	StageDepositors = "depositors"
)

// AccountService defines the account snapshot interface.
type AccountService interface {
	Snapshot(ctx context.Context, address string) (domain.AccountSnapshot, error)
}

// DepositorService defines the depositor aggregation interface.
type DepositorService interface {
	Aggregate(ctx context.Context, vaultAddress string) (domain.DepositorAggregationResult, error)
}

// FailureRecorder is notified of every failed upstream fetch.
type FailureRecorder interface {
	VaultFailed(vaultID, stage string)
}

// Report is the outcome of one collection cycle.
// Failures combines every per-vault fetch error; it never prevents Vaults from being used.
type Report struct {
	Vaults   []domain.VaultSnapshot
	Failures error
	Dropped  int
}

// Service fetches and merges snapshots for the configured vaults.
type Service struct {
	accounts   AccountService
	depositors DepositorService
	recorder   FailureRecorder
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder sets the recorder notified of per-vault failures.
func WithRecorder(r FailureRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithClock overrides the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new vault Service. Accounts and depositors are required.
func NewService(accounts AccountService, depositors DepositorService, opts ...Option) *Service {
	if accounts == nil {
		panic("vault.NewService: accounts is nil")
	}
	if depositors == nil {
		panic("vault.NewService: depositors is nil")
	}
	s := &Service{
		accounts:   accounts,
		depositors: depositors,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetchResult holds the three independent fetches of one vault.
type fetchResult struct {
	follower     domain.AccountSnapshot
	followerErr  error
	leader       domain.AccountSnapshot
	leaderErr    error
	depositors   domain.DepositorAggregationResult
	depositorErr error
	fault        error
}

// Collect runs one cycle over the vaults that are not marked coming soon.
// All vaults are fetched concurrently and the output keeps input order.
// Vaults whose follower account cannot be fetched are dropped.
// An error is returned when ctx ends before the cycle completes or when a fetch panics;
// a panic fails the whole cycle instead of dropping one vault.
func (s *Service) Collect(ctx context.Context, vaults []domain.VaultConfig) (Report, error) {
	active := lo.Filter(vaults, func(v domain.VaultConfig, _ int) bool {
		return !v.ComingSoon
	})

	results := make([]fetchResult, len(active))
	var wg sync.WaitGroup
	for i, cfg := range active {
		i, cfg := i, cfg
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := recoverPanic(func() { results[i] = s.fetch(ctx, cfg) }); err != nil {
				results[i].fault = err
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	var faults error
	for i, r := range results {
		if r.fault != nil {
			faults = multierr.Append(faults, fmt.Errorf("vault %s: %w", active[i].ID, r.fault))
		}
	}
	if faults != nil {
		return Report{}, fmt.Errorf("collecting vaults: %w", faults)
	}

	updatedAt := s.now().UTC()
	report := Report{Vaults: make([]domain.VaultSnapshot, 0, len(active))}
	for i, cfg := range active {
		r := results[i]
		s.recordFailures(cfg, r, &report)
		if r.followerErr != nil {
			report.Dropped++
			continue
		}
		report.Vaults = append(report.Vaults, mergeVault(cfg, r, updatedAt))
	}
	return report, nil
}

// fetch issues the follower, leader and depositor requests of one vault in parallel.
func (s *Service) fetch(ctx context.Context, cfg domain.VaultConfig) fetchResult {
	var r fetchResult
	var faults [3]error
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		faults[0] = recoverPanic(func() {
			r.follower, r.followerErr = s.accounts.Snapshot(ctx, cfg.VaultAddress)
		})
	}()
	go func() {
		defer wg.Done()
		faults[1] = recoverPanic(func() {
			r.leader, r.leaderErr = s.accounts.Snapshot(ctx, cfg.LeaderAddress)
		})
	}()
	go func() {
		defer wg.Done()
		faults[2] = recoverPanic(func() {
			r.depositors, r.depositorErr = s.depositors.Aggregate(ctx, cfg.VaultAddress)
		})
	}()
	wg.Wait()
	r.fault = multierr.Combine(faults[:]...)
	return r
}

// recoverPanic runs fn and converts a panic into an error.
func recoverPanic(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	fn()
	return nil
}

func (s *Service) recordFailures(cfg domain.VaultConfig, r fetchResult, report *Report) {
	for _, f := range []struct {
		stage string
		err   error
	}{
		{StageFollower, r.followerErr},
		{StageLeader, r.leaderErr},
		{StageDepositors, r.depositorErr},
	} {
		if f.err == nil {
			continue
		}
		report.Failures = multierr.Append(report.Failures, fmt.Errorf("vault %s %s: %w", cfg.ID, f.stage, f.err))
		if s.recorder != nil {
			s.recorder.VaultFailed(cfg.ID, f.stage)
		}
	}
}
