package abicodec

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func slot(b []byte) []byte {
	out := make([]byte, slotSize)
	copy(out[slotSize-len(b):], b)
	return out
}

func TestSelectorWellKnown(t *testing.T) {
	require.Equal(t, [4]byte{0xa9, 0x05, 0x9c, 0xbb}, Selector("transfer(address,uint256)"))
	require.Equal(t, [4]byte{0x95, 0xd8, 0x9b, 0x41}, Selector("symbol()"))
	require.Equal(t, [4]byte{0x31, 0x3c, 0xe5, 0x67}, Selector("decimals()"))
}

func TestEncodeCall(t *testing.T) {
	data, err := EncodeCall("positions(uint256)", big.NewInt(42))
	require.NoError(t, err)
	require.Len(t, data, 4+slotSize)

	sel := Selector("positions(uint256)")
	require.Equal(t, sel[:], data[:4])
	require.Equal(t, byte(42), data[4+slotSize-1])

	_, err = EncodeCall("positions(uint256)", big.NewInt(-1))
	require.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestDecodeStaticTuple(t *testing.T) {
	addr := common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")

	var buf []byte
	buf = append(buf, slot(addr.Bytes())...)
	buf = append(buf, slot(big.NewInt(3000).Bytes())...)
	negTick := twosComplementBytes(big.NewInt(-887220))
	buf = append(buf, negTick...)
	buf = append(buf, slot(big.NewInt(887220).Bytes())...)

	values, err := Decode(buf, []Type{Address, Uint(24), Int(24), Int(24)})
	require.NoError(t, err)

	require.Equal(t, addr, values[0])
	require.Equal(t, int64(3000), values[1].(*big.Int).Int64())
	require.Equal(t, int64(-887220), values[2].(*big.Int).Int64())
	require.Equal(t, int64(887220), values[3].(*big.Int).Int64())
}

func TestDecodeString(t *testing.T) {
	var buf []byte
	buf = append(buf, slot(big.NewInt(32).Bytes())...)
	buf = append(buf, slot(big.NewInt(4).Bytes())...)
	tail := make([]byte, slotSize)
	copy(tail, "WETH")
	buf = append(buf, tail...)

	values, err := Decode(buf, []Type{String})
	require.NoError(t, err)
	require.Equal(t, "WETH", values[0])
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := Decode(make([]byte, slotSize), []Type{Uint(256), Uint(256)})
	require.ErrorIs(t, err, ErrShortBuffer)

	// String head points past the buffer.
	_, err = Decode(slot(big.NewInt(64).Bytes()), []Type{String})
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeTruncatedStringTail(t *testing.T) {
	var buf []byte
	buf = append(buf, slot(big.NewInt(32).Bytes())...)
	buf = append(buf, slot(big.NewInt(100).Bytes())...) // claims 100 bytes, none follow

	_, err := Decode(buf, []Type{String})
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestDecodeValueOutOfRange(t *testing.T) {
	_, err := Decode(slot(big.NewInt(300).Bytes()), []Type{Uint(8)})
	require.ErrorIs(t, err, ErrValueOutOfRange)

	// int24 overflow
	_, err = Decode(slot(big.NewInt(1<<23).Bytes()), []Type{Int(24)})
	require.ErrorIs(t, err, ErrValueOutOfRange)

	// dirty upper bytes in an address slot
	dirty := slot(common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1").Bytes())
	dirty[0] = 0xff
	_, err = Decode(dirty, []Type{Address})
	require.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestDecodeBytes32(t *testing.T) {
	raw := make([]byte, slotSize)
	copy(raw, "MKR")
	values, err := Decode(raw, []Type{Bytes32})
	require.NoError(t, err)

	b, ok := values[0].([32]byte)
	require.True(t, ok)
	require.Equal(t, "MKR", string(b[:3]))
}

func twosComplementBytes(v *big.Int) []byte {
	out := new(big.Int).Set(v)
	if out.Sign() < 0 {
		out.Add(out, new(big.Int).Lsh(big.NewInt(1), slotSize*8))
	}
	buf := make([]byte, slotSize)
	out.FillBytes(buf)
	return buf
}
