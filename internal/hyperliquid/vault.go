package hyperliquid

import (
	"context"
	"fmt"
)

// FetchVaultDetails requests details of a vault, including its depositor list.
// found is false when the upstream answered with an empty or null body.
func (c *Client) FetchVaultDetails(ctx context.Context, vaultAddress string) (details VaultDetails, found bool, err error) {
	var raw any
	found, err = c.postInfo(ctx, map[string]any{
		"type":         "vaultDetails",
		"vaultAddress": vaultAddress,
	}, &raw)
	if err != nil {
		return nil, false, fmt.Errorf("fetching vault details %s: %w", vaultAddress, err)
	}
	if !found {
		return nil, false, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return VaultDetails{}, true, nil
	}
	return VaultDetails(obj), true, nil
}
