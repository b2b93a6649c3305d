// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package challenge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/aviate-labs/leb128"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/robbelouwet/NFT-game-items/internal/numbers"
)

const (
	// SegmentBits defines the width of every probe segment.
	SegmentBits uint = 32
	// Bits defines the full challenge width.
	Bits = 3 * SegmentBits
	// Size defines the challenge size in bytes.
	Size = int(Bits / 8)

	// separator divides probes in the string form.
	separator = ":"
)

// ErrInvalidChallenge defines a challenge outside of the [0;2^96) range.
var ErrInvalidChallenge = errors.New("invalid challenge")

// Probes defines the decomposed challenge.
type Probes struct {
	Tier      uint32
	Blueprint uint32
	Instance  uint32
}

// Challenge is the player supplied number driving tier, blueprint and
// instance selection: instance<<64 | blueprint<<32 | tier.
type Challenge struct {
	value *big.Int
}

// New builds a challenge targeting the given probes.
func New(tierProbe, blueprintProbe, instanceProbe uint32) *Challenge {
	value := new(big.Int).SetUint64(uint64(instanceProbe))
	value.Lsh(value, SegmentBits)
	value.Or(value, new(big.Int).SetUint64(uint64(blueprintProbe)))
	value.Lsh(value, SegmentBits)
	value.Or(value, new(big.Int).SetUint64(uint64(tierProbe)))

	return &Challenge{value: value}
}

// NewFromNumber creates Challenge from number.
func NewFromNumber(number *big.Int) (*Challenge, error) {
	if number == nil || !numbers.FitsBits(number, Bits) {
		return nil, fmt.Errorf("%w: must be within [0;2^%d)", ErrInvalidChallenge, Bits)
	}

	return &Challenge{value: new(big.Int).Set(number)}, nil
}

// NewFromBytes creates Challenge from its big-endian form.
func NewFromBytes(data []byte) (*Challenge, error) {
	if len(data) > Size {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidChallenge, len(data))
	}

	return &Challenge{value: new(big.Int).SetBytes(data)}, nil
}

// NewFromString parses Challenge either as "tier:blueprint:instance" probes or as a decimal number.
func NewFromString(s string) (*Challenge, error) {
	if !strings.Contains(s, separator) {
		value, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidChallenge, s)
		}

		return NewFromNumber(value)
	}

	data := strings.Split(s, separator)
	if len(data) != 3 {
		return nil, fmt.Errorf("invalid challenge format: %s", s)
	}

	var probes [3]uint32
	for i, part := range data {
		probe, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}

		probes[i] = uint32(probe)
	}

	return New(probes[0], probes[1], probes[2]), nil
}

// Derive builds a challenge from the double-SHA256 of length prefixed parts.
func Derive(parts ...[]byte) (*Challenge, error) {
	preimage := make([]byte, 0)
	for _, part := range parts {
		prefix, err := leb128.EncodeUnsigned(big.NewInt(int64(len(part))))
		if err != nil {
			return nil, err
		}

		preimage = append(preimage, prefix...)
		preimage = append(preimage, part...)
	}

	hash := chainhash.DoubleHashB(preimage)

	return NewFromBytes(hash[:Size])
}

// Probes decomposes the challenge into its probe segments.
func (c *Challenge) Probes() Probes {
	data := c.Bytes()

	return Probes{
		Instance:  binary.BigEndian.Uint32(data[0:4]),
		Blueprint: binary.BigEndian.Uint32(data[4:8]),
		Tier:      binary.BigEndian.Uint32(data[8:12]),
	}
}

// Value returns a copy of the challenge number.
func (c *Challenge) Value() *big.Int {
	return new(big.Int).Set(c.value)
}

// Bytes returns Challenge as fixed size big-endian bytes.
func (c *Challenge) Bytes() []byte {
	data := make([]byte, Size)
	c.value.FillBytes(data)

	return data
}

// String returns Challenge as "tier:blueprint:instance".
func (c *Challenge) String() string {
	p := c.Probes()

	return fmt.Sprintf("%d%s%d%s%d", p.Tier, separator, p.Blueprint, separator, p.Instance)
}
