// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package registry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robbelouwet/NFT-game-items/collectible/registry"
)

func TestTiers(t *testing.T) {
	r := registry.New()

	t.Run("CreateTier assigns sequential ids", func(t *testing.T) {
		for i, rarity := range []uint64{2, 5, 20, 50, 100} {
			id, err := r.CreateTier([]string{"normal", "common", "uncommon", "Legendary", "Exotic"}[i], rarity, 2)
			require.NoError(t, err)
			require.EqualValues(t, i, id)
		}

		tier, err := r.Tier(3)
		require.NoError(t, err)
		require.Equal(t, registry.Tier{ID: 3, Name: "Legendary", Selector: 50, BufferWidth: 2}, tier)
		require.Len(t, r.Tiers(), 5)
	})

	t.Run("selector 0 fails", func(t *testing.T) {
		_, err := r.CreateTier("Impossible", 0, 3)
		require.ErrorIs(t, err, registry.ErrInvalidSelector)
	})

	t.Run("duplicate selector fails", func(t *testing.T) {
		_, err := r.CreateTier("rare", 2, 3)
		require.ErrorIs(t, err, registry.ErrDuplicateSelector)
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		_, err := r.CreateTier("normal", 9, 3)
		require.ErrorIs(t, err, registry.ErrDuplicateName)

		// names are case-sensitive.
		_, err = r.CreateTier("Normal", 9, 3)
		require.NoError(t, err)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := r.CreateTier("", 11, 3)
		require.ErrorIs(t, err, registry.ErrEmptyName)

		_, err = r.CreateTier("wide", 11, 65)
		require.ErrorIs(t, err, registry.ErrInvalidBufferWidth)

		_, err = r.CreateTier("offset", 11, 3, registry.WithTarget(11))
		require.ErrorIs(t, err, registry.ErrInvalidTarget)
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := r.Tier(25000)
		require.ErrorIs(t, err, registry.ErrUnknownTier)

		_, err = r.GrowBufferIfNeeded(25000)
		require.ErrorIs(t, err, registry.ErrUnknownTier)
	})

	t.Run("Qualifying picks the rarest tier", func(t *testing.T) {
		tests := []struct {
			probe uint64
			name  string
			ok    bool
		}{
			{probe: 51},
			{probe: 4, name: "normal", ok: true},
			{probe: 15, name: "common", ok: true},
			{probe: 50, name: "Legendary", ok: true},
			{probe: 100, name: "Exotic", ok: true},
			{probe: 0, name: "Exotic", ok: true},
		}
		for _, test := range tests {
			tier, ok := r.Qualifying(test.probe)
			require.Equal(t, test.ok, ok, test.probe)
			require.Equal(t, test.name, tier.Name, test.probe)
		}
	})
}

func TestMaskSelector(t *testing.T) {
	selector, err := registry.MaskSelector(3)
	require.NoError(t, err)
	require.EqualValues(t, 7, selector)

	selector, err = registry.MaskSelector(64)
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), selector)

	_, err = registry.MaskSelector(0)
	require.ErrorIs(t, err, registry.ErrInvalidSelector)

	_, err = registry.MaskSelector(65)
	require.ErrorIs(t, err, registry.ErrInvalidSelector)
}

func TestTierTarget(t *testing.T) {
	r := registry.New()
	id, err := r.CreateTier("odd", 2, 1, registry.WithTarget(1))
	require.NoError(t, err)

	tier, err := r.Tier(id)
	require.NoError(t, err)
	require.True(t, tier.Qualifies(7))
	require.False(t, tier.Qualifies(8))
}

func TestBlueprints(t *testing.T) {
	t.Run("buffer overflow increments buffer size", func(t *testing.T) {
		r := registry.New()
		id, err := r.CreateTier("Impossible", 1, 1)
		require.NoError(t, err)

		for i, name := range []string{"Sword", "Pickaxe", "Axe"} {
			index, err := r.AddBlueprint(id, name, 5)
			require.NoError(t, err)
			require.EqualValues(t, i, index)
		}

		tier, err := r.Tier(id)
		require.NoError(t, err)
		require.EqualValues(t, 2, tier.BufferWidth)
		require.EqualValues(t, 3, tier.BlueprintCount)

		// capacity of 4 holds a 4th blueprint without growing.
		_, err = r.AddBlueprint(id, "Shovel", 5)
		require.NoError(t, err)
		tier, _ = r.Tier(id)
		require.EqualValues(t, 2, tier.BufferWidth)

		_, err = r.AddBlueprint(id, "Hoe", 5)
		require.NoError(t, err)
		tier, _ = r.Tier(id)
		require.EqualValues(t, 3, tier.BufferWidth)
	})

	t.Run("zero width grows from the second blueprint", func(t *testing.T) {
		r := registry.New()
		id, err := r.CreateTier("flat", 3, 0)
		require.NoError(t, err)

		_, err = r.AddBlueprint(id, "Sword", 1)
		require.NoError(t, err)
		tier, _ := r.Tier(id)
		require.EqualValues(t, 0, tier.BufferWidth)

		_, err = r.AddBlueprint(id, "Axe", 1)
		require.NoError(t, err)
		tier, _ = r.Tier(id)
		require.EqualValues(t, 1, tier.BufferWidth)
	})

	t.Run("GrowBufferIfNeeded", func(t *testing.T) {
		r := registry.New()
		id, err := r.CreateTier("grow", 3, 0)
		require.NoError(t, err)

		width, err := r.GrowBufferIfNeeded(id)
		require.NoError(t, err)
		require.EqualValues(t, 0, width)

		_, err = r.AddBlueprint(id, "Sword", 1)
		require.NoError(t, err)

		width, err = r.GrowBufferIfNeeded(id)
		require.NoError(t, err)
		require.EqualValues(t, 1, width)
	})

	t.Run("add blueprint failures", func(t *testing.T) {
		r := registry.New()
		id, err := r.CreateTier("normal", 2, 40)
		require.NoError(t, err)

		_, err = r.AddBlueprint(25000, "Sword", 5)
		require.ErrorIs(t, err, registry.ErrUnknownTier)

		_, err = r.AddBlueprint(id, "Sword", 0)
		require.ErrorIs(t, err, registry.ErrInvalidMaxSupply)

		_, err = r.AddBlueprint(id, "", 5)
		require.ErrorIs(t, err, registry.ErrEmptyName)

		// 24 instance bits are left.
		_, err = r.AddBlueprint(id, "Dagger", 1<<24+1)
		require.ErrorIs(t, err, registry.ErrSupplyExceedsAddressSpace)

		_, err = r.AddBlueprint(id, "Dagger", 1<<24)
		require.NoError(t, err)

		_, err = r.AddBlueprint(id, "Dagger", 5)
		require.ErrorIs(t, err, registry.ErrDuplicateBlueprintName)

		tier, err := r.Tier(id)
		require.NoError(t, err)
		require.EqualValues(t, 1, tier.BlueprintCount)
	})

	t.Run("rejected blueprint does not grow the buffer", func(t *testing.T) {
		r := registry.New()
		id, err := r.CreateTier("tight", 2, 0)
		require.NoError(t, err)
		_, err = r.AddBlueprint(id, "Sword", 1<<63)
		require.NoError(t, err)

		// a second blueprint needs 1 more bit, leaving 63 instance bits.
		_, err = r.AddBlueprint(id, "Axe", math.MaxUint64)
		require.ErrorIs(t, err, registry.ErrSupplyExceedsAddressSpace)

		tier, err := r.Tier(id)
		require.NoError(t, err)
		require.EqualValues(t, 0, tier.BufferWidth)
		require.EqualValues(t, 1, tier.BlueprintCount)
	})

	t.Run("growth keeps existing supplies addressable", func(t *testing.T) {
		r := registry.New()
		id, err := r.CreateTier("wide", 2, 0)
		require.NoError(t, err)
		_, err = r.AddBlueprint(id, "Sword", math.MaxUint64)
		require.NoError(t, err)

		// Sword needs all 64 instance bits, so the buffer cannot grow.
		_, err = r.AddBlueprint(id, "Axe", 1)
		require.ErrorIs(t, err, registry.ErrSupplyExceedsAddressSpace)

		tier, err := r.Tier(id)
		require.NoError(t, err)
		require.EqualValues(t, 0, tier.BufferWidth)
		require.EqualValues(t, 1, tier.BlueprintCount)

		blueprints, err := r.Blueprints(id)
		require.NoError(t, err)
		require.Len(t, blueprints, 1)

		width, err := r.GrowBufferIfNeeded(id)
		require.ErrorIs(t, err, registry.ErrSupplyExceedsAddressSpace)
		require.EqualValues(t, 0, width)
	})

	t.Run("same name in different tiers", func(t *testing.T) {
		r := registry.New()
		normal, _ := r.CreateTier("normal", 2, 2)
		common, _ := r.CreateTier("common", 5, 2)

		_, err := r.AddBlueprint(normal, "Sword", 5)
		require.NoError(t, err)
		_, err = r.AddBlueprint(common, "Sword", 5)
		require.NoError(t, err)
	})

	t.Run("lookups", func(t *testing.T) {
		r := registry.New()
		id, _ := r.CreateTier("normal", 2, 2)
		_, err := r.AddBlueprint(id, "Sword", 5)
		require.NoError(t, err)

		blueprint, err := r.Blueprint(id, 0)
		require.NoError(t, err)
		require.Equal(t, registry.Blueprint{TierID: id, Index: 0, Name: "Sword", MaxSupply: 5}, blueprint)

		_, err = r.Blueprint(25000, 0)
		require.ErrorIs(t, err, registry.ErrUnknownTier)

		_, err = r.Blueprint(id, 2500)
		require.ErrorIs(t, err, registry.ErrUnknownBlueprint)

		blueprints, err := r.Blueprints(id)
		require.NoError(t, err)
		require.Len(t, blueprints, 1)

		_, err = r.Blueprints(7)
		require.ErrorIs(t, err, registry.ErrUnknownTier)
	})
}

func TestReserveInstance(t *testing.T) {
	r := registry.New()
	id, _ := r.CreateTier("normal", 2, 2)
	index, err := r.AddBlueprint(id, "Sword", 3)
	require.NoError(t, err)

	for expected := uint64(0); expected < 3; expected++ {
		serial, err := r.ReserveInstance(id, index)
		require.NoError(t, err)
		require.Equal(t, expected, serial)
	}

	_, err = r.ReserveInstance(id, index)
	require.ErrorIs(t, err, registry.ErrSupplyExhausted)

	blueprint, err := r.Blueprint(id, index)
	require.NoError(t, err)
	require.EqualValues(t, 3, blueprint.Minted)
	require.EqualValues(t, 0, blueprint.Remaining())

	_, err = r.ReserveInstance(id, 9)
	require.ErrorIs(t, err, registry.ErrUnknownBlueprint)
}

func TestState(t *testing.T) {
	r := registry.New()
	normal, _ := r.CreateTier("normal", 2, 1)
	odd, _ := r.CreateTier("odd", 7, 4, registry.WithTarget(3))
	for _, name := range []string{"Sword", "Pickaxe", "Axe"} {
		_, err := r.AddBlueprint(normal, name, 5)
		require.NoError(t, err)
	}
	_, err := r.AddBlueprint(odd, "Nexus", 10)
	require.NoError(t, err)
	_, err = r.ReserveInstance(normal, 1)
	require.NoError(t, err)

	restored, err := registry.NewFromState(r.Export())
	require.NoError(t, err)
	require.Equal(t, r.Export(), restored.Export())

	t.Run("restored registry keeps uniqueness", func(t *testing.T) {
		_, err := restored.CreateTier("normal", 3, 1)
		require.ErrorIs(t, err, registry.ErrDuplicateName)

		_, err = restored.AddBlueprint(normal, "Axe", 5)
		require.ErrorIs(t, err, registry.ErrDuplicateBlueprintName)
	})

	t.Run("inconsistent state is rejected", func(t *testing.T) {
		state := r.Export()
		state.Tiers[0].BufferWidth = 0
		_, err := registry.NewFromState(state)
		require.ErrorIs(t, err, registry.ErrInvalidBufferWidth)

		state = r.Export()
		state.Blueprints[0].Minted = 6
		_, err = registry.NewFromState(state)
		require.ErrorIs(t, err, registry.ErrSupplyExhausted)

		state = r.Export()
		state.Tiers[1].BlueprintCount = 2
		_, err = registry.NewFromState(state)
		require.Error(t, err)

		state = r.Export()
		state.Tiers[1].BufferWidth = 61
		_, err = registry.NewFromState(state)
		require.ErrorIs(t, err, registry.ErrSupplyExceedsAddressSpace)
	})
}
