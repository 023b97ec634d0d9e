// Package token resolves ERC20 metadata through on-chain calls with
// fallback paths. Resolution failures never escalate: symbol falls back to
// the token address, decimals to the conventional ERC20 default of 18.
package token

import (
	"bytes"
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"positionScope/internal/abicodec"
	"positionScope/internal/ethrpc"
)

// DefaultDecimals is assumed when decimals() cannot be resolved.
const DefaultDecimals uint8 = 18

var (
	symbolCalldata, _   = abicodec.EncodeCall("symbol()")
	decimalsCalldata, _ = abicodec.EncodeCall("decimals()")
)

// symbolDecoders are tried in order against the raw symbol() return bytes;
// the first usable result wins. Some older tokens (MKR among them) declare
// symbol() returning bytes32 instead of string.
var symbolDecoders = []func([]byte) (string, bool){
	decodeSymbolString,
	decodeSymbolBytes32,
}

// Resolver looks up token metadata via an RPC caller. Immutable after
// construction, safe for concurrent use.
type Resolver struct {
	caller *ethrpc.Caller
	logger *zap.Logger
}

func NewResolver(caller *ethrpc.Caller, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{caller: caller, logger: logger}
}

// Symbol resolves symbol() for a token. On any failure it returns the token
// address itself so that a position fetch can always complete.
func (r *Resolver) Symbol(ctx context.Context, token common.Address) string {
	fallback := strings.ToLower(token.Hex())

	raw, err := r.caller.Call(ctx, token, symbolCalldata)
	if err != nil {
		r.logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
		return fallback
	}
	for _, decode := range symbolDecoders {
		if symbol, ok := decode(raw); ok {
			return symbol
		}
	}
	r.logger.Debug("symbol bytes undecodable", zap.String("token", token.Hex()))
	return fallback
}

// Decimals resolves decimals() for a token, defaulting to 18 on any failure.
func (r *Resolver) Decimals(ctx context.Context, token common.Address) uint8 {
	raw, err := r.caller.Call(ctx, token, decimalsCalldata)
	if err != nil {
		r.logger.Debug("decimals call failed", zap.String("token", token.Hex()), zap.Error(err))
		return DefaultDecimals
	}
	values, err := abicodec.Decode(raw, []abicodec.Type{abicodec.Uint(8)})
	if err != nil {
		r.logger.Debug("decimals decode failed", zap.String("token", token.Hex()), zap.Error(err))
		return DefaultDecimals
	}
	return uint8(values[0].(*big.Int).Uint64())
}

func decodeSymbolString(raw []byte) (string, bool) {
	values, err := abicodec.Decode(raw, []abicodec.Type{abicodec.String})
	if err != nil {
		return "", false
	}
	symbol := values[0].(string)
	return symbol, symbol != ""
}

func decodeSymbolBytes32(raw []byte) (string, bool) {
	values, err := abicodec.Decode(raw, []abicodec.Type{abicodec.Bytes32})
	if err != nil {
		return "", false
	}
	fixed := values[0].([32]byte)
	symbol := string(bytes.TrimRight(fixed[:], "\x00"))
	return symbol, symbol != ""
}
