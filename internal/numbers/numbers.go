// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package numbers

import (
	"math/big"
)

// Zero defines 0 number.
const Zero = 0

// OneBigInt defies 1 as *big.Int type.
var OneBigInt = big.NewInt(1)

// IsNegative returns true if the number is less than zero.
func IsNegative(num *big.Int) bool {
	return num.Sign() < Zero
}

// IsPositive returns true if the number is grater than zero.
func IsPositive(num *big.Int) bool {
	return num.Sign() > Zero
}

// IsZero returns true if the number is zero.
func IsZero(num *big.Int) bool {
	return num.Sign() == Zero
}

// IsGreater returns true is a > b.
func IsGreater(a, b *big.Int) bool {
	return a.Cmp(b) > Zero
}

// IsEqual returns true is a = b.
func IsEqual(a, b *big.Int) bool {
	return a.Cmp(b) == Zero
}

// IsLess returns true is a < b.
func IsLess(a, b *big.Int) bool {
	return a.Cmp(b) < Zero
}

// Pow2 returns 2^bits.
func Pow2(bits uint) *big.Int {
	return new(big.Int).Lsh(OneBigInt, bits)
}

// FitsBits returns true if non-negative num can be written with the given amount of bits.
func FitsBits(num *big.Int, bits uint) bool {
	return !IsNegative(num) && uint(num.BitLen()) <= bits
}

// FitsUint64Bits is FitsBits for plain unsigned values.
func FitsUint64Bits(num uint64, bits uint) bool {
	if bits >= 64 {
		return true
	}

	return num < uint64(1)<<bits
}

// CapacityFits returns true if count values can be addressed by the given amount of bits (count <= 2^bits).
func CapacityFits(count uint64, bits uint) bool {
	if bits >= 64 {
		return true
	}

	return count <= uint64(1)<<bits
}

// MulUint64 returns a * n as a new number.
func MulUint64(a *big.Int, n uint64) *big.Int {
	return new(big.Int).Mul(a, new(big.Int).SetUint64(n))
}
