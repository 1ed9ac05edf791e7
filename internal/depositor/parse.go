package depositor

import (
	"github.com/samber/lo"

	"github.com/mtlprog/vaultstat/internal/domain"
)

// parseFollowers converts the raw followers field into records. Anything that is not
// an array yields no rows; rows that are not objects are read as empty objects.
func parseFollowers(raw any) []domain.DepositorRecord {
	entries, ok := raw.([]any)
	if !ok {
		return []domain.DepositorRecord{}
	}
	return lo.Map(entries, func(entry any, _ int) domain.DepositorRecord {
		fields, _ := entry.(map[string]any)
		return parseFollower(fields)
	})
}

func parseFollower(fields map[string]any) domain.DepositorRecord {
	equity := domain.SafeNumber(fields["vaultEquity"])
	pnl := domain.SafeNumber(fields["pnl"])

	return domain.DepositorRecord{
		User:          stringOr(fields["user"], domain.LeaderUser),
		Equity:        equity,
		Pnl:           pnl,
		AllTimePnl:    domain.SafeNumber(fields["allTimePnl"]),
		DaysFollowing: domain.WholeDays(fields["daysFollowing"]),
		ROIPct:        domain.ROIPercent(equity, pnl),
	}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}
