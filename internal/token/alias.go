package token

import "strings"

// addressAliases canonicalizes known wrapped/bridged assets by address
// (Arbitrum canonical set). Keys are lowercase.
var addressAliases = map[string]string{
	"0x82af49447d8a07e3bd95bd0d56f35241523fbab1": "ETH",  // WETH
	"0xaf88d065e77c8cc2239327c5edb3a432268e5831": "USDC", // native USDC
	"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8": "USDC", // USDC.e (bridged)
	"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9": "USDT",
	"0xda10009cbd5d07dd0cecc66161fc93d7c9000da1": "DAI",
	"0x2f2a2543b76a4166549f7aab2e75bef0aefc5b0f": "BTC", // WBTC
	"0x912ce59144191c1204e64559fe8253a0e49e6548": "ARB",
}

// symbolAliases collapses common wrapped/bridged symbol forms.
var symbolAliases = map[string]string{
	"WETH":   "ETH",
	"WETH9":  "ETH",
	"WBTC":   "BTC",
	"USDC.E": "USDC",
}

// AliasSymbol canonicalizes a raw on-chain symbol. The address override table
// takes precedence (case-insensitive), then the symbol table; otherwise the
// raw symbol is upper-cased and passed through.
func AliasSymbol(address, raw string) string {
	if symbol, ok := addressAliases[strings.ToLower(address)]; ok {
		return symbol
	}
	upper := strings.ToUpper(raw)
	if symbol, ok := symbolAliases[upper]; ok {
		return symbol
	}
	return upper
}
