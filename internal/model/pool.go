package model

// Token is the subgraph view of an ERC20 token. Numeric fields arrive as
// decimal strings and are kept that way; parsing is the consumer's concern.
type Token struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals string `json:"decimals"`
}

// Pool is an immutable snapshot of a V3 pool as returned by the subgraph.
// It is fetched fresh per call and never cached or mutated.
type Pool struct {
	ID                  string `json:"id"`
	Token0              Token  `json:"token0"`
	Token1              Token  `json:"token1"`
	FeeTier             string `json:"feeTier"`
	Liquidity           string `json:"liquidity"`
	VolumeUSD           string `json:"volumeUSD"`
	TotalValueLockedUSD string `json:"totalValueLockedUSD"`
}
