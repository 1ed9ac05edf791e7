package hyperliquid

import "github.com/mtlprog/vaultstat/internal/domain"

// VaultDetails is the raw vaultDetails response. The upstream shape is not trusted,
// so fields stay untyped until the depositor package coerces them.
type VaultDetails map[string]any

// CumFunding holds cumulative funding paid on a position.
type CumFunding struct {
	AllTime     string `json:"allTime"`
	SinceChange string `json:"sinceChange"`
	SinceOpen   string `json:"sinceOpen"`
}

// Leverage describes the leverage mode of a position.
type Leverage struct {
	RawUsd string `json:"rawUsd"`
	Type   string `json:"type"`
	Value  int    `json:"value"`
}

// Position is a perpetual position as returned by clearinghouseState.
type Position struct {
	Coin           string     `json:"coin"`
	CumFunding     CumFunding `json:"cumFunding"`
	EntryPx        string     `json:"entryPx"`
	Leverage       Leverage   `json:"leverage"`
	LiquidationPx  string     `json:"liquidationPx"`
	MarginUsed     string     `json:"marginUsed"`
	MaxLeverage    int        `json:"maxLeverage"`
	PositionValue  string     `json:"positionValue"`
	ReturnOnEquity string     `json:"returnOnEquity"`
	Szi            string     `json:"szi"`
	UnrealizedPnl  string     `json:"unrealizedPnl"`
}

// AssetPosition wraps a Position.
type AssetPosition struct {
	Position Position `json:"position"`
	Type     string   `json:"type"`
}

// MarginSummary is the account-level margin summary.
type MarginSummary struct {
	AccountValue    string `json:"accountValue"`
	TotalMarginUsed string `json:"totalMarginUsed"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalRawUsd     string `json:"totalRawUsd"`
}

// ClearinghouseState is the response of the clearinghouseState request.
type ClearinghouseState struct {
	AssetPositions             []AssetPosition `json:"assetPositions"`
	CrossMaintenanceMarginUsed string          `json:"crossMaintenanceMarginUsed"`
	CrossMarginSummary         MarginSummary   `json:"crossMarginSummary"`
	MarginSummary              MarginSummary   `json:"marginSummary"`
	Time                       int64           `json:"time"`
	Withdrawable               string          `json:"withdrawable"`
}

// PortfolioPeriod is the history of one portfolio window ("day", "allTime", "perpWeek", ...).
// History points are [timestampMillis, "value"] pairs.
type PortfolioPeriod struct {
	AccountValueHistory [][]any `json:"accountValueHistory"`
	PnlHistory          [][]any `json:"pnlHistory"`
	Vlm                 string  `json:"vlm"`
}

// Portfolio maps window names to their history.
type Portfolio map[string]PortfolioPeriod

// PeriodAllTime is the portfolio window covering the whole account history.
const PeriodAllTime = "allTime"

// LatestPnl returns the last PnL point of the window, or 0 when the window is missing or empty.
func (p Portfolio) LatestPnl(period string) float64 {
	history := p[period].PnlHistory
	if len(history) == 0 {
		return 0
	}
	last := history[len(history)-1]
	if len(last) != 2 {
		return 0
	}
	return domain.SafeNumber(last[1])
}
