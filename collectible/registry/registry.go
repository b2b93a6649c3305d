// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package registry

import (
	"fmt"
)

// Registry stores tiers and their blueprints.
// It is not safe for concurrent use: callers serialize every mutation.
type Registry struct {
	tiers          []*Tier
	tierByName     map[string]uint32
	tierBySelector map[uint64]uint32

	blueprints      map[uint32][]*Blueprint
	blueprintByName map[uint32]map[string]uint64
}

// New is a constructor for Registry.
func New() *Registry {
	return &Registry{
		tierByName:      make(map[string]uint32),
		tierBySelector:  make(map[uint64]uint32),
		blueprints:      make(map[uint32][]*Blueprint),
		blueprintByName: make(map[uint32]map[string]uint64),
	}
}

// State is the exported registry content.
type State struct {
	Tiers      []Tier      `cbor:"tiers"`
	Blueprints []Blueprint `cbor:"blueprints"`
}

// Export returns registry content ordered by tier id, then blueprint index.
func (r *Registry) Export() State {
	state := State{Tiers: r.Tiers()}
	for _, tier := range r.tiers {
		for _, blueprint := range r.blueprints[tier.ID] {
			state.Blueprints = append(state.Blueprints, *blueprint)
		}
	}

	return state
}

// NewFromState rebuilds a registry from exported content, checking every invariant on the way.
func NewFromState(state State) (*Registry, error) {
	r := New()
	for i, tier := range state.Tiers {
		if tier.ID != uint32(i) {
			return nil, fmt.Errorf("tier %q has id %d at position %d", tier.Name, tier.ID, i)
		}

		id, err := r.CreateTier(tier.Name, tier.Selector, tier.BufferWidth, WithTarget(tier.Target))
		if err != nil {
			return nil, err
		}
		if id != tier.ID {
			return nil, fmt.Errorf("tier %q restored as %d instead of %d", tier.Name, id, tier.ID)
		}
	}

	for _, blueprint := range state.Blueprints {
		tier, err := r.tier(blueprint.TierID)
		if err != nil {
			return nil, err
		}
		if blueprint.Index != tier.BlueprintCount {
			return nil, fmt.Errorf("%w: blueprint %d of tier %d is out of order", ErrUnknownBlueprint, blueprint.Index, tier.ID)
		}
		if blueprint.Minted > blueprint.MaxSupply {
			return nil, fmt.Errorf("%w: blueprint %d of tier %d minted %d of %d", ErrSupplyExhausted, blueprint.Index, tier.ID, blueprint.Minted, blueprint.MaxSupply)
		}
		if err = r.validateBlueprint(tier, blueprint.Name, blueprint.MaxSupply, tier.requiredWidth(tier.BlueprintCount+1)); err != nil {
			return nil, err
		}

		stored := blueprint
		r.insertBlueprint(tier, &stored)
	}

	// stored widths may exceed what the blueprints alone require.
	for _, tier := range state.Tiers {
		stored := r.tiers[tier.ID]
		if tier.BlueprintCount != stored.BlueprintCount {
			return nil, fmt.Errorf("tier %d declares %d blueprints, found %d", tier.ID, tier.BlueprintCount, stored.BlueprintCount)
		}
		if tier.BufferWidth < stored.BufferWidth {
			return nil, fmt.Errorf("%w: tier %d width %d cannot hold %d blueprints", ErrInvalidBufferWidth, tier.ID, tier.BufferWidth, stored.BlueprintCount)
		}
		if err := r.checkSupplies(stored, tier.BufferWidth); err != nil {
			return nil, err
		}
		stored.BufferWidth = tier.BufferWidth
	}

	return r, nil
}
