package hyperliquid

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// FetchClearinghouseState retrieves margin, withdrawable balance and open positions of an account.
func (c *Client) FetchClearinghouseState(ctx context.Context, user string) (ClearinghouseState, error) {
	var state ClearinghouseState
	if _, err := c.postInfo(ctx, map[string]any{"type": "clearinghouseState", "user": user}, &state); err != nil {
		return ClearinghouseState{}, fmt.Errorf("fetching clearinghouse state %s: %w", user, err)
	}
	return state, nil
}

// FetchPortfolio retrieves account value and PnL history of an account for every window.
// Malformed windows are skipped.
func (c *Client) FetchPortfolio(ctx context.Context, user string) (Portfolio, error) {
	var raw [][]json.RawMessage
	if _, err := c.postInfo(ctx, map[string]any{"type": "portfolio", "user": user}, &raw); err != nil {
		return nil, fmt.Errorf("fetching portfolio %s: %w", user, err)
	}

	portfolio := make(Portfolio, len(raw))
	for _, entry := range raw {
		if len(entry) != 2 {
			continue
		}
		var period string
		if err := json.Unmarshal(entry[0], &period); err != nil {
			continue
		}
		var data PortfolioPeriod
		if err := decodeJSON(entry[1], &data); err != nil {
			continue
		}
		portfolio[period] = data
	}
	return portfolio, nil
}
