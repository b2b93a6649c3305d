// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package identity

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/aviate-labs/leb128"

	"github.com/robbelouwet/NFT-game-items/internal/numbers"
)

const (
	// TotalBits defines the fixed width of a packed identity.
	TotalBits uint = 96
	// TierBits defines the width of the lowest, width independent, tier segment.
	TierBits uint = 32
	// MaxBufferWidth defines the widest blueprint segment a tier may reserve.
	MaxBufferWidth = TotalBits - TierBits
)

// ErrEncodingOverflow defines that a field does not fit the width allotted to it.
var ErrEncodingOverflow = errors.New("encoding overflow")

// ErrInvalidWidth defines a blueprint buffer width the identity layout cannot hold.
var ErrInvalidWidth = errors.New("invalid buffer width")

// tierMask selects the tier segment.
var tierMask = new(big.Int).Sub(numbers.Pow2(TierBits), numbers.OneBigInt)

// Identity is a minted item identity packed as [instance][blueprint][tier],
// most-significant segment first.
type Identity struct {
	value *big.Int
}

// InstanceBits returns how many bits are left for the instance segment when
// the blueprint segment is width bits wide.
func InstanceBits(width uint) uint {
	if width > MaxBufferWidth {
		return 0
	}

	return MaxBufferWidth - width
}

// Encode packs tier, blueprint and instance using width bits for the blueprint segment.
func Encode(tierID uint32, blueprint, instance uint64, width uint) (*Identity, error) {
	if width > MaxBufferWidth {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidWidth, width, MaxBufferWidth)
	}
	if !numbers.FitsUint64Bits(blueprint, width) {
		return nil, fmt.Errorf("%w: blueprint %d needs more than %d bits", ErrEncodingOverflow, blueprint, width)
	}
	instanceBits := InstanceBits(width)
	if !numbers.FitsUint64Bits(instance, instanceBits) {
		return nil, fmt.Errorf("%w: instance %d needs more than %d bits", ErrEncodingOverflow, instance, instanceBits)
	}

	value := new(big.Int).SetUint64(instance)
	value.Lsh(value, width)
	value.Or(value, new(big.Int).SetUint64(blueprint))
	value.Lsh(value, TierBits)
	value.Or(value, new(big.Int).SetUint64(uint64(tierID)))

	return &Identity{value: value}, nil
}

// Decode unpacks an identity that was encoded with width bits for the blueprint segment.
func Decode(id *Identity, width uint) (tierID uint32, blueprint, instance uint64, err error) {
	if width > MaxBufferWidth {
		return 0, 0, 0, fmt.Errorf("%w: %d > %d", ErrInvalidWidth, width, MaxBufferWidth)
	}

	rest := new(big.Int).Rsh(id.value, TierBits)
	blueprintMask := new(big.Int).Sub(numbers.Pow2(width), numbers.OneBigInt)

	tierID = id.Tier()
	blueprint = new(big.Int).And(rest, blueprintMask).Uint64()
	instance = rest.Rsh(rest, width).Uint64()

	return tierID, blueprint, instance, nil
}

// NewFromNumber creates Identity from its packed numeric value.
func NewFromNumber(number *big.Int) (*Identity, error) {
	if number == nil || !numbers.FitsBits(number, TotalBits) {
		return nil, fmt.Errorf("%w: identity must be within [0;2^%d)", ErrEncodingOverflow, TotalBits)
	}

	return &Identity{value: new(big.Int).Set(number)}, nil
}

// NewFromString parses decimal Identity.
func NewFromString(s string) (*Identity, error) {
	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid identity format: %s", s)
	}

	return NewFromNumber(value)
}

// NewFromBytes decodes Identity from its LEB128 form.
func NewFromBytes(data []byte) (*Identity, error) {
	reader := bytes.NewReader(data)
	value, err := leb128.DecodeUnsigned(reader)
	if err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after identity")
	}

	return NewFromNumber(value)
}

// Tier returns the tier segment. It does not depend on the buffer width the
// identity was encoded with.
func (id *Identity) Tier() uint32 {
	return uint32(new(big.Int).And(id.value, tierMask).Uint64())
}

// Value returns a copy of the packed value.
func (id *Identity) Value() *big.Int {
	return new(big.Int).Set(id.value)
}

// Bytes returns Identity encoded as LEB128.
func (id *Identity) Bytes() ([]byte, error) {
	return leb128.EncodeUnsigned(id.value)
}

// Equal returns true if identities hold the same value.
func (id *Identity) Equal(other *Identity) bool {
	return other != nil && numbers.IsEqual(id.value, other.value)
}

// Key returns a compact string usable as a map key.
func (id *Identity) Key() string {
	return id.value.Text(16)
}

// String returns Identity as decimal string.
func (id *Identity) String() string {
	return id.value.String()
}
