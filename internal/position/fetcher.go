// Package position assembles a normalized on-chain position record from a
// NonfungiblePositionManager read plus auxiliary token metadata lookups.
package position

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"positionScope/internal/abicodec"
	"positionScope/internal/ethrpc"
	"positionScope/internal/model"
	"positionScope/internal/price"
	"positionScope/internal/token"
)

// ManagerAddress is the canonical Uniswap V3 NonfungiblePositionManager.
const ManagerAddress = "0xC36442b4a4522E871399CD717aBDD847Ab11FE88"

// positionsSchema mirrors the return tuple of positions(uint256).
var positionsSchema = []abicodec.Type{
	abicodec.Uint(96),  // nonce
	abicodec.Address,   // operator
	abicodec.Address,   // token0
	abicodec.Address,   // token1
	abicodec.Uint(24),  // fee
	abicodec.Int(24),   // tickLower
	abicodec.Int(24),   // tickUpper
	abicodec.Uint(128), // liquidity
	abicodec.Uint(256), // feeGrowthInside0LastX128
	abicodec.Uint(256), // feeGrowthInside1LastX128
	abicodec.Uint(128), // tokensOwed0
	abicodec.Uint(128), // tokensOwed1
}

// Fetcher builds OnchainPosition records. Immutable after construction, safe
// for concurrent use.
type Fetcher struct {
	caller  *ethrpc.Caller
	tokens  *token.Resolver
	manager common.Address
	logger  *zap.Logger
}

// NewFetcher wires a Fetcher against the canonical position manager.
func NewFetcher(caller *ethrpc.Caller, tokens *token.Resolver, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		caller:  caller,
		tokens:  tokens,
		manager: common.HexToAddress(ManagerAddress),
		logger:  logger,
	}
}

// Fetch resolves one position NFT by its decimal token id. The manager read
// and its tuple decode are fatal on failure; symbol and decimals lookups
// degrade to fallback values without aborting the pipeline.
func (f *Fetcher) Fetch(ctx context.Context, tokenID string) (model.OnchainPosition, error) {
	id, ok := new(big.Int).SetString(tokenID, 10)
	if !ok || id.Sign() < 0 {
		return model.OnchainPosition{}, fmt.Errorf("invalid token id %q", tokenID)
	}

	calldata, err := abicodec.EncodeCall("positions(uint256)", id)
	if err != nil {
		return model.OnchainPosition{}, fmt.Errorf("encode positions call: %w", err)
	}

	f.logger.Info("fetching on-chain position", zap.String("token_id", tokenID))

	raw, err := f.caller.Call(ctx, f.manager, calldata)
	if err != nil {
		return model.OnchainPosition{}, fmt.Errorf("positions call: %w", err)
	}

	values, err := abicodec.Decode(raw, positionsSchema)
	if err != nil {
		return model.OnchainPosition{}, fmt.Errorf("decode positions tuple: %w", err)
	}

	operator := values[1].(common.Address)
	token0 := values[2].(common.Address)
	token1 := values[3].(common.Address)
	fee := uint32(values[4].(*big.Int).Uint64())
	tickLower := int32(values[5].(*big.Int).Int64())
	tickUpper := int32(values[6].(*big.Int).Int64())
	liquidity := values[7].(*big.Int)
	owed0 := values[10].(*big.Int)
	owed1 := values[11].(*big.Int)

	token0Hex := strings.ToLower(token0.Hex())
	token1Hex := strings.ToLower(token1.Hex())

	sym0 := token.AliasSymbol(token0Hex, f.tokens.Symbol(ctx, token0))
	sym1 := token.AliasSymbol(token1Hex, f.tokens.Symbol(ctx, token1))

	dec0 := f.tokens.Decimals(ctx, token0)
	dec1 := f.tokens.Decimals(ctx, token1)

	lower, upper, mid := price.Range(tickLower, tickUpper, dec0, dec1)

	pos := model.OnchainPosition{
		TokenID:      tokenID,
		Operator:     strings.ToLower(operator.Hex()),
		Token0:       token0Hex,
		Token1:       token1Hex,
		Token0Symbol: sym0,
		Token1Symbol: sym1,
		Fee:          fee,
		TickLower:    tickLower,
		TickUpper:    tickUpper,
		Liquidity:    liquidity.String(),
		TokensOwed0:  owed0.String(),
		TokensOwed1:  owed1.String(),
		PriceLower:   price.Format(lower),
		PriceUpper:   price.Format(upper),
		MidPrice:     price.Format(mid),
	}

	f.logger.Info("fetched on-chain position",
		zap.String("token_id", tokenID),
		zap.String("pair", sym0+"-"+sym1),
		zap.Uint32("fee", fee),
		zap.String("liquidity", pos.Liquidity),
	)
	return pos, nil
}
