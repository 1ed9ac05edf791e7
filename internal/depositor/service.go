package depositor

import (
	"context"
	"fmt"
	"strings"

	"github.com/mtlprog/vaultstat/internal/domain"
	"github.com/mtlprog/vaultstat/internal/hyperliquid"
)

// HyperliquidClient defines the subset of the Hyperliquid API used by the aggregator.
type HyperliquidClient interface {
	FetchVaultDetails(ctx context.Context, vaultAddress string) (hyperliquid.VaultDetails, bool, error)
}

// Service derives per-depositor equity, PnL and ROI for a vault.
type Service struct {
	hyperliquid HyperliquidClient
}

// NewService creates a new depositor Service.
func NewService(client HyperliquidClient) *Service {
	return &Service{hyperliquid: client}
}

// Aggregate fetches the depositor list of a vault and derives ROI for every row.
// An empty upstream answer is a valid, empty vault. Malformed rows never fail the call.
func (s *Service) Aggregate(ctx context.Context, vaultAddress string) (domain.DepositorAggregationResult, error) {
	vaultAddress = strings.TrimSpace(vaultAddress)
	if vaultAddress == "" {
		return domain.DepositorAggregationResult{}, fmt.Errorf("vault address is required: %w", domain.ErrInvalidRequest)
	}

	details, found, err := s.hyperliquid.FetchVaultDetails(ctx, vaultAddress)
	if err != nil {
		return domain.DepositorAggregationResult{}, err
	}
	if !found {
		return domain.DepositorAggregationResult{Followers: []domain.DepositorRecord{}}, nil
	}

	return domain.DepositorAggregationResult{
		VaultAddress:  stringOr(details["vaultAddress"], vaultAddress),
		VaultName:     stringOr(details["name"], ""),
		LeaderAddress: stringOr(details["leader"], ""),
		Followers:     parseFollowers(details["followers"]),
		Found:         true,
	}, nil
}
