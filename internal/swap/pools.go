package swap

import "github.com/lemx/swapd/internal/config"

// PoolInfo describes one known pool integration. The catalog is
// assembled from configuration; listing it never touches the chain.
type PoolInfo struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	Endpoint string `json:"endpoint"`
}

// AvailablePools returns the static catalog of configured pools.
func AvailablePools(cfg config.Swap) []PoolInfo {
	return []PoolInfo{
		{
			Name:     "Curve 3pool",
			Kind:     "curve",
			Address:  cfg.CurvePoolAddress,
			TokenIn:  cfg.InputTokenAddress,
			TokenOut: cfg.OutputTokenAddress,
			Endpoint: "/api/pool-withdrawer/withdraw-from-curve",
		},
		{
			Name:     "Uniswap V3",
			Kind:     "uniswap-v3",
			Address:  cfg.UniswapRouterAddress,
			TokenIn:  cfg.InputTokenAddress,
			TokenOut: cfg.OutputTokenAddress,
			Endpoint: "/api/pool-withdrawer/bridge-uniswap",
		},
	}
}
