package domain

// MarginSummary mirrors the upstream margin summary with parsed numbers.
type MarginSummary struct {
	AccountValue    float64 `json:"accountValue"`
	TotalMarginUsed float64 `json:"totalMarginUsed"`
	TotalNtlPos     float64 `json:"totalNtlPos"`
	TotalRawUsd     float64 `json:"totalRawUsd"`
}

// Position is an open perpetual position on an account.
type Position struct {
	Coin           string  `json:"coin"`
	Size           float64 `json:"size"`
	EntryPrice     float64 `json:"entryPrice"`
	PositionValue  float64 `json:"positionValue"`
	UnrealizedPnl  float64 `json:"unrealizedPnl"`
	ReturnOnEquity float64 `json:"returnOnEquity"`
	Leverage       int     `json:"leverage"`
	LeverageType   string  `json:"leverageType"`
	LiquidationPx  float64 `json:"liquidationPx"`
	MarginUsed     float64 `json:"marginUsed"`
}

// AccountSnapshot is the current state of a vault or wallet account.
type AccountSnapshot struct {
	VaultAddress  string        `json:"vaultAddress"`
	Equity        float64       `json:"equity"`
	AccountValue  float64       `json:"accountValue"`
	Withdrawable  float64       `json:"withdrawable"`
	TotalPnl      float64       `json:"totalPnl"`
	Positions     []Position    `json:"positions"`
	MarginSummary MarginSummary `json:"marginSummary"`
}
