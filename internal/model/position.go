package model

// OnchainPosition is the normalized record for a single V3 liquidity position,
// built from one authoritative positions() read plus auxiliary metadata calls.
//
// Ticks are int24 in the protocol; they are decoded range-checked into int32.
// TickLower <= TickUpper is assumed but not enforced by the fetch path, so an
// inverted range must be treated by consumers as a data anomaly.
type OnchainPosition struct {
	TokenID      string `json:"tokenId"`
	Operator     string `json:"operator"`
	Token0       string `json:"token0"`
	Token1       string `json:"token1"`
	Token0Symbol string `json:"token0Symbol"`
	Token1Symbol string `json:"token1Symbol"`
	Fee          uint32 `json:"fee"`
	TickLower    int32  `json:"tickLower"`
	TickUpper    int32  `json:"tickUpper"`
	Liquidity    string `json:"liquidity"`
	TokensOwed0  string `json:"tokensOwed0"`
	TokensOwed1  string `json:"tokensOwed1"`

	// Prices are quoted as token1 per token0, rendered to 2 decimal places.
	PriceLower string `json:"priceLower"`
	PriceUpper string `json:"priceUpper"`
	MidPrice   string `json:"midPrice"`
}
