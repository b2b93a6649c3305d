// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package identity_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robbelouwet/NFT-game-items/collectible/identity"
)

func TestIdentity(t *testing.T) {
	t.Run("Encode layout", func(t *testing.T) {
		id, err := identity.Encode(3, 2, 5, 2)
		require.NoError(t, err)

		// 5<<(2+32) | 2<<32 | 3.
		expected := new(big.Int).Lsh(big.NewInt(5), 34)
		expected.Or(expected, new(big.Int).Lsh(big.NewInt(2), 32))
		expected.Or(expected, big.NewInt(3))
		require.Equal(t, expected.String(), id.String())
		require.EqualValues(t, 3, id.Tier())
	})

	t.Run("Decode", func(t *testing.T) {
		tests := []struct {
			tier      uint32
			blueprint uint64
			instance  uint64
			width     uint
		}{
			{0, 0, 0, 0},
			{1, 1, 4, 1},
			{2, 3, 9, 2},
			{math.MaxUint32, 7, 1 << 40, 3},
			{17, 1<<20 - 1, 1<<44 - 1, 20},
			{4, math.MaxUint64, 0, identity.MaxBufferWidth},
			{4, 0, math.MaxUint64, 0},
		}
		for _, test := range tests {
			id, err := identity.Encode(test.tier, test.blueprint, test.instance, test.width)
			require.NoError(t, err)

			tier, blueprint, instance, err := identity.Decode(id, test.width)
			require.NoError(t, err)
			require.Equal(t, test.tier, tier)
			require.Equal(t, test.blueprint, blueprint)
			require.Equal(t, test.instance, instance)
		}
	})

	t.Run("Encode overflow", func(t *testing.T) {
		_, err := identity.Encode(1, 4, 0, 2)
		require.ErrorIs(t, err, identity.ErrEncodingOverflow)

		_, err = identity.Encode(1, 0, 1<<62, 2)
		require.ErrorIs(t, err, identity.ErrEncodingOverflow)

		_, err = identity.Encode(1, 1, 0, 0)
		require.ErrorIs(t, err, identity.ErrEncodingOverflow)

		_, err = identity.Encode(1, 0, 0, identity.MaxBufferWidth+1)
		require.ErrorIs(t, err, identity.ErrInvalidWidth)
	})

	t.Run("Tier does not depend on width", func(t *testing.T) {
		narrow, err := identity.Encode(9, 1, 3, 1)
		require.NoError(t, err)
		wide, err := identity.Encode(9, 1, 3, 4)
		require.NoError(t, err)

		require.False(t, narrow.Equal(wide))
		require.Equal(t, narrow.Tier(), wide.Tier())
	})

	t.Run("InstanceBits", func(t *testing.T) {
		require.EqualValues(t, 64, identity.InstanceBits(0))
		require.EqualValues(t, 61, identity.InstanceBits(3))
		require.EqualValues(t, 0, identity.InstanceBits(identity.MaxBufferWidth))
		require.EqualValues(t, 0, identity.InstanceBits(identity.MaxBufferWidth+5))
	})

	t.Run("Bytes", func(t *testing.T) {
		id, err := identity.Encode(2, 1, 300, 3)
		require.NoError(t, err)

		data, err := id.Bytes()
		require.NoError(t, err)

		parsed, err := identity.NewFromBytes(data)
		require.NoError(t, err)
		require.True(t, id.Equal(parsed))
		require.Equal(t, id.Key(), parsed.Key())

		_, err = identity.NewFromBytes(append(data, 0x01))
		require.Error(t, err)
	})

	t.Run("NewFromString", func(t *testing.T) {
		id, err := identity.Encode(2, 1, 300, 3)
		require.NoError(t, err)

		parsed, err := identity.NewFromString(id.String())
		require.NoError(t, err)
		require.True(t, id.Equal(parsed))

		_, err = identity.NewFromString("12ab")
		require.Error(t, err)

		_, err = identity.NewFromString("-1")
		require.ErrorIs(t, err, identity.ErrEncodingOverflow)

		tooBig := new(big.Int).Lsh(big.NewInt(1), identity.TotalBits)
		_, err = identity.NewFromString(tooBig.String())
		require.ErrorIs(t, err, identity.ErrEncodingOverflow)
	})

	t.Run("Value is a copy", func(t *testing.T) {
		id, err := identity.Encode(1, 0, 0, 0)
		require.NoError(t, err)

		id.Value().SetInt64(42)
		require.Equal(t, "1", id.String())
	})
}

func FuzzIdentity(f *testing.F) {
	f.Add(uint32(1), uint64(2), uint64(3), uint8(2))
	f.Add(uint32(math.MaxUint32), uint64(0), uint64(math.MaxUint64), uint8(0))

	f.Fuzz(func(t *testing.T, tier uint32, blueprint, instance uint64, w uint8) {
		width := uint(w) % (identity.MaxBufferWidth + 1)
		if width < 64 {
			blueprint &= 1<<width - 1
		}
		if bits := identity.InstanceBits(width); bits < 64 {
			instance &= 1<<bits - 1
		}

		id, err := identity.Encode(tier, blueprint, instance, width)
		if err != nil {
			t.Fatalf("encode (%d, %d, %d, %d): %v", tier, blueprint, instance, width, err)
		}

		gotTier, gotBlueprint, gotInstance, err := identity.Decode(id, width)
		if err != nil {
			t.Fatalf("decode %s: %v", id, err)
		}
		if gotTier != tier || gotBlueprint != blueprint || gotInstance != instance {
			t.Errorf("round trip mismatch: (%d, %d, %d) != (%d, %d, %d)", gotTier, gotBlueprint, gotInstance, tier, blueprint, instance)
		}
	})
}
