package vault

import (
	"maps"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/vaultstat/internal/domain"
)

// leaderFigures are the leader-side values used for the all-time ROI.
type leaderFigures struct {
	equity     float64
	pnl        float64
	allTimePnl float64
}

// resolveLeader picks the leader's figures. The depositor row tagged "Leader" is preferred
// because it reflects the creator's capital inside the vault. Without it only the leader
// wallet's equity is known and the all-time figures stay absent. The bool reports whether
// the row was found. A failed leader fetch contributes zeros.
func resolveLeader(r fetchResult) (leaderFigures, bool) {
	var fallback leaderFigures
	if r.leaderErr == nil {
		fallback.equity = r.leader.Equity
	}

	if r.depositorErr != nil {
		return fallback, false
	}

	row, ok := lo.Find(r.depositors.Followers, func(d domain.DepositorRecord) bool {
		return d.IsLeader()
	})
	if !ok {
		return fallback, false
	}
	return leaderFigures{equity: row.Equity, pnl: row.Pnl, allTimePnl: row.AllTimePnl}, true
}

// mergeVault builds the snapshot of one vault whose follower fetch succeeded.
func mergeVault(cfg domain.VaultConfig, r fetchResult, updatedAt time.Time) domain.VaultSnapshot {
	leader, haveRow := resolveLeader(r)

	var leaderROI float64
	if haveRow {
		leaderROI = domain.ROIPercent(leader.equity, leader.allTimePnl)
	}

	depositorCount := lo.CountBy(r.depositors.Followers, func(d domain.DepositorRecord) bool {
		return !d.IsLeader()
	})

	return domain.VaultSnapshot{
		ModelID:                 cfg.ID,
		Name:                    cfg.Name,
		Model:                   cfg.Model,
		VaultAddress:            cfg.VaultAddress,
		FollowerEquityUSD:       r.follower.Equity,
		FollowerPnlUSD:          r.follower.TotalPnl,
		LeaderEquityUSD:         leader.equity,
		LeaderPnlUSD:            leader.pnl,
		LeaderAllTimePnlUSD:     leader.allTimePnl,
		ROIPercent:              domain.ROIPercent(r.follower.Equity, r.follower.TotalPnl),
		LeaderAllTimeROIPercent: leaderROI,
		DepositorCount:          depositorCount,
		LogsURL:                 cfg.LogsURL,
		DashboardURL:            cfg.DashboardURL,
		RiskSnapshot:            maps.Clone(cfg.RiskSnapshot),
		UpdatedAt:               updatedAt,
	}
}
