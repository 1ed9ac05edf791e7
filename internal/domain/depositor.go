package domain

// LeaderUser is the display name the upstream uses for the vault creator's own row.
const LeaderUser = "Leader"

// DepositorRecord is one row of a vault's depositor table with derived ROI.
type DepositorRecord struct {
	User          string  `json:"user"`
	Equity        float64 `json:"equity"`
	Pnl           float64 `json:"pnl"`
	AllTimePnl    float64 `json:"allTimePnl"`
	DaysFollowing int     `json:"daysFollowing"`
	ROIPct        float64 `json:"roiPct"`
}

// IsLeader reports whether the row belongs to the vault creator.
func (r DepositorRecord) IsLeader() bool {
	return r.User == LeaderUser
}

// DepositorAggregationResult holds a vault's depositors in upstream order.
// Found is false when the upstream returned no vault details at all.
type DepositorAggregationResult struct {
	VaultAddress  string            `json:"vault"`
	VaultName     string            `json:"name"`
	LeaderAddress string            `json:"leader"`
	Followers     []DepositorRecord `json:"followers"`
	Found         bool              `json:"-"`
}
