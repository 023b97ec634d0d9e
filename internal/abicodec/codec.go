package abicodec

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const slotSize = 32

var (
	// ErrShortBuffer means the return buffer is shorter than the declared schema requires.
	ErrShortBuffer = errors.New("buffer shorter than schema")
	// ErrValueOutOfRange means a decoded value does not fit its declared type.
	ErrValueOutOfRange = errors.New("value does not fit declared type")
)

// Kind enumerates the value kinds the decoder understands.
type Kind int

const (
	KindAddress Kind = iota
	KindUint
	KindInt
	KindBytes32
	KindString
)

// Type declares one slot of a return tuple. Bits is the declared width for
// integer kinds (e.g. 24 for int24) and ignored otherwise.
type Type struct {
	Kind Kind
	Bits int
}

var (
	Address = Type{Kind: KindAddress}
	Bytes32 = Type{Kind: KindBytes32}
	String  = Type{Kind: KindString}
)

// Uint declares an unsigned integer of the given bit width.
func Uint(bits int) Type { return Type{Kind: KindUint, Bits: bits} }

// Int declares a signed integer of the given bit width.
func Int(bits int) Type { return Type{Kind: KindInt, Bits: bits} }

func (t Type) String() string {
	switch t.Kind {
	case KindAddress:
		return "address"
	case KindUint:
		return fmt.Sprintf("uint%d", t.Bits)
	case KindInt:
		return fmt.Sprintf("int%d", t.Bits)
	case KindBytes32:
		return "bytes32"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Selector derives the 4-byte function selector from a canonical Solidity
// signature, e.g. Selector("positions(uint256)").
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// EncodeCall builds selector + ABI-encoded arguments. Only unsigned integer
// arguments are supported; each occupies one left-padded 32-byte slot.
func EncodeCall(signature string, args ...*big.Int) ([]byte, error) {
	sel := Selector(signature)
	data := make([]byte, 4, 4+slotSize*len(args))
	copy(data, sel[:])
	for i, arg := range args {
		if arg == nil || arg.Sign() < 0 || arg.BitLen() > 256 {
			return nil, fmt.Errorf("encode arg %d: %w", i, ErrValueOutOfRange)
		}
		slot := make([]byte, slotSize)
		arg.FillBytes(slot)
		data = append(data, slot...)
	}
	return data, nil
}

// Decode walks the buffer against an ordered schema, consuming one 32-byte
// head slot per declared type. It validates buffer length before any
// indexing and fails hard with no partial result; a decode failure is always
// fatal for the caller and never retried.
//
// Value types by kind: address -> common.Address, uint/int -> *big.Int,
// bytes32 -> [32]byte, string -> string.
func Decode(data []byte, schema []Type) ([]interface{}, error) {
	if len(data) < slotSize*len(schema) {
		return nil, fmt.Errorf("decode: have %d bytes, schema needs %d: %w",
			len(data), slotSize*len(schema), ErrShortBuffer)
	}

	values := make([]interface{}, 0, len(schema))
	for i, typ := range schema {
		slot := data[i*slotSize : (i+1)*slotSize]
		value, err := decodeSlot(data, slot, typ)
		if err != nil {
			return nil, fmt.Errorf("decode field %d (%s): %w", i, typ, err)
		}
		values = append(values, value)
	}
	return values, nil
}

func decodeSlot(data, slot []byte, typ Type) (interface{}, error) {
	switch typ.Kind {
	case KindAddress:
		for _, b := range slot[:slotSize-common.AddressLength] {
			if b != 0 {
				return nil, ErrValueOutOfRange
			}
		}
		return common.BytesToAddress(slot), nil

	case KindUint:
		v := new(big.Int).SetBytes(slot)
		if v.BitLen() > typ.Bits {
			return nil, fmt.Errorf("%s: %w", v, ErrValueOutOfRange)
		}
		return v, nil

	case KindInt:
		v := twosComplement(slot)
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Bits-1))
		upper := new(big.Int).Sub(limit, big.NewInt(1))
		lower := new(big.Int).Neg(limit)
		if v.Cmp(lower) < 0 || v.Cmp(upper) > 0 {
			return nil, fmt.Errorf("%s: %w", v, ErrValueOutOfRange)
		}
		return v, nil

	case KindBytes32:
		var out [32]byte
		copy(out[:], slot)
		return out, nil

	case KindString:
		return decodeString(data, slot)

	default:
		return nil, fmt.Errorf("unsupported kind %d", typ.Kind)
	}
}

// decodeString resolves a dynamic string: the head slot holds an offset into
// the buffer, the tail starts with a 32-byte length followed by the bytes.
func decodeString(data, slot []byte) (string, error) {
	offsetInt := new(big.Int).SetBytes(slot)
	if !offsetInt.IsUint64() || offsetInt.Uint64() > uint64(len(data)) {
		return "", fmt.Errorf("string offset %s: %w", offsetInt, ErrValueOutOfRange)
	}
	offset := int(offsetInt.Uint64())
	if offset+slotSize > len(data) {
		return "", fmt.Errorf("string length slot at %d: %w", offset, ErrShortBuffer)
	}

	lengthInt := new(big.Int).SetBytes(data[offset : offset+slotSize])
	if !lengthInt.IsUint64() || lengthInt.Uint64() > uint64(len(data)) {
		return "", fmt.Errorf("string length %s: %w", lengthInt, ErrValueOutOfRange)
	}
	length := int(lengthInt.Uint64())

	start := offset + slotSize
	if start+length > len(data) {
		return "", fmt.Errorf("string tail at %d len %d: %w", start, length, ErrShortBuffer)
	}
	return string(data[start : start+length]), nil
}

// twosComplement interprets a 32-byte slot as a signed 256-bit integer.
func twosComplement(slot []byte) *big.Int {
	v := new(big.Int).SetBytes(slot)
	if slot[0]&0x80 != 0 {
		shift := new(big.Int).Lsh(big.NewInt(1), uint(slotSize*8))
		v.Sub(v, shift)
	}
	return v
}
