package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/vaultstat/internal/domain"
	"github.com/mtlprog/vaultstat/internal/hyperliquid"
)

// HyperliquidClient defines the subset of the Hyperliquid info API used by Service.
type HyperliquidClient interface {
	FetchClearinghouseState(ctx context.Context, user string) (hyperliquid.ClearinghouseState, error)
	FetchPortfolio(ctx context.Context, user string) (hyperliquid.Portfolio, error)
}

// Service builds account snapshots from clearinghouse state and portfolio history.
type Service struct {
	client HyperliquidClient
}

// NewService creates a new account Service.
func NewService(client HyperliquidClient) *Service {
	if client == nil {
		panic("account.NewService: client is nil")
	}
	return &Service{client: client}
}

// Snapshot returns the current state of a vault or wallet account.
// Both upstream requests run concurrently; either failing fails the snapshot.
func (s *Service) Snapshot(ctx context.Context, address string) (domain.AccountSnapshot, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.AccountSnapshot{}, fmt.Errorf("account address is required: %w", domain.ErrInvalidRequest)
	}

	var (
		state     hyperliquid.ClearinghouseState
		portfolio hyperliquid.Portfolio
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = s.client.FetchClearinghouseState(gctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		portfolio, err = s.client.FetchPortfolio(gctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AccountSnapshot{}, fmt.Errorf("snapshot of %s: %w", address, err)
	}

	summary := convertMarginSummary(state.MarginSummary)
	return domain.AccountSnapshot{
		VaultAddress:  address,
		Equity:        summary.AccountValue,
		AccountValue:  summary.AccountValue,
		Withdrawable:  domain.SafeFloat(state.Withdrawable),
		TotalPnl:      portfolio.LatestPnl(hyperliquid.PeriodAllTime),
		Positions:     convertPositions(state.AssetPositions),
		MarginSummary: summary,
	}, nil
}

func convertMarginSummary(m hyperliquid.MarginSummary) domain.MarginSummary {
	return domain.MarginSummary{
		AccountValue:    domain.SafeFloat(m.AccountValue),
		TotalMarginUsed: domain.SafeFloat(m.TotalMarginUsed),
		TotalNtlPos:     domain.SafeFloat(m.TotalNtlPos),
		TotalRawUsd:     domain.SafeFloat(m.TotalRawUsd),
	}
}

// convertPositions drops entries without a coin and keeps upstream order.
func convertPositions(positions []hyperliquid.AssetPosition) []domain.Position {
	return lo.FilterMap(positions, func(ap hyperliquid.AssetPosition, _ int) (domain.Position, bool) {
		p := ap.Position
		if p.Coin == "" {
			return domain.Position{}, false
		}
		return domain.Position{
			Coin:           p.Coin,
			Size:           domain.SafeFloat(p.Szi),
			EntryPrice:     domain.SafeFloat(p.EntryPx),
			PositionValue:  domain.SafeFloat(p.PositionValue),
			UnrealizedPnl:  domain.SafeFloat(p.UnrealizedPnl),
			ReturnOnEquity: domain.SafeFloat(p.ReturnOnEquity),
			Leverage:       p.Leverage.Value,
			LeverageType:   p.Leverage.Type,
			LiquidationPx:  domain.SafeFloat(p.LiquidationPx),
			MarginUsed:     domain.SafeFloat(p.MarginUsed),
		}, true
	})
}
