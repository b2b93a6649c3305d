// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package registry

import (
	"fmt"

	"github.com/robbelouwet/NFT-game-items/collectible/identity"
	"github.com/robbelouwet/NFT-game-items/internal/numbers"
)

// Blueprint defines a named item template within a tier.
type Blueprint struct {
	TierID    uint32
	Index     uint64
	Name      string
	MaxSupply uint64
	Minted    uint64
}

// Remaining returns how many instances can still be minted.
func (b *Blueprint) Remaining() uint64 {
	return b.MaxSupply - b.Minted
}

// AddBlueprint registers a blueprint under the tier, growing the tier's
// buffer when needed, and returns the blueprint index.
func (r *Registry) AddBlueprint(tierID uint32, name string, maxSupply uint64) (uint64, error) {
	tier, err := r.tier(tierID)
	if err != nil {
		return 0, err
	}

	width := tier.requiredWidth(tier.BlueprintCount + 1)
	if err = r.validateBlueprint(tier, name, maxSupply, width); err != nil {
		return 0, err
	}

	if _, err = r.GrowBufferIfNeeded(tierID); err != nil {
		return 0, err
	}

	blueprint := &Blueprint{
		TierID:    tierID,
		Index:     tier.BlueprintCount,
		Name:      name,
		MaxSupply: maxSupply,
	}
	r.insertBlueprint(tier, blueprint)

	return blueprint.Index, nil
}

// Blueprint returns a copy of the blueprint.
func (r *Registry) Blueprint(tierID uint32, index uint64) (Blueprint, error) {
	blueprint, err := r.blueprint(tierID, index)
	if err != nil {
		return Blueprint{}, err
	}

	return *blueprint, nil
}

// Blueprints returns copies of the tier's blueprints ordered by index.
func (r *Registry) Blueprints(tierID uint32) ([]Blueprint, error) {
	if _, err := r.tier(tierID); err != nil {
		return nil, err
	}

	blueprints := make([]Blueprint, 0, len(r.blueprints[tierID]))
	for _, blueprint := range r.blueprints[tierID] {
		blueprints = append(blueprints, *blueprint)
	}

	return blueprints, nil
}

// ReserveInstance takes one unit of the blueprint's supply and returns its
// serial number. Serials are dense over [0;maxSupply).
func (r *Registry) ReserveInstance(tierID uint32, index uint64) (uint64, error) {
	blueprint, err := r.blueprint(tierID, index)
	if err != nil {
		return 0, err
	}
	if blueprint.Minted >= blueprint.MaxSupply {
		return 0, fmt.Errorf("%w: %q of tier %d", ErrSupplyExhausted, blueprint.Name, tierID)
	}

	serial := blueprint.Minted
	blueprint.Minted++

	return serial, nil
}

// blueprint returns the stored blueprint.
func (r *Registry) blueprint(tierID uint32, index uint64) (*Blueprint, error) {
	if _, err := r.tier(tierID); err != nil {
		return nil, err
	}

	blueprints := r.blueprints[tierID]
	if index >= uint64(len(blueprints)) {
		return nil, fmt.Errorf("%w: %d of tier %d", ErrUnknownBlueprint, index, tierID)
	}

	return blueprints[index], nil
}

// validateBlueprint checks a blueprint about to be stored under tier with the given buffer width.
func (r *Registry) validateBlueprint(tier *Tier, name string, maxSupply uint64, width uint) error {
	switch {
	case name == "":
		return ErrEmptyName
	case maxSupply == 0:
		return ErrInvalidMaxSupply
	case width > identity.MaxBufferWidth:
		return fmt.Errorf("%w: tier %d is full", ErrInvalidBufferWidth, tier.ID)
	}
	if _, ok := r.blueprintByName[tier.ID][name]; ok {
		return fmt.Errorf("%w: %q in tier %d", ErrDuplicateBlueprintName, name, tier.ID)
	}

	// instances are numbered [0;maxSupply), so maxSupply <= 2^instanceBits.
	instanceBits := identity.InstanceBits(width)
	if !numbers.CapacityFits(maxSupply, instanceBits) {
		return fmt.Errorf("%w: %d needs more than %d bits", ErrSupplyExceedsAddressSpace, maxSupply, instanceBits)
	}

	if width > tier.BufferWidth {
		return r.checkSupplies(tier, width)
	}

	return nil
}

// checkSupplies checks that every blueprint of tier still fits the instance field left by width.
func (r *Registry) checkSupplies(tier *Tier, width uint) error {
	instanceBits := identity.InstanceBits(width)
	for _, blueprint := range r.blueprints[tier.ID] {
		if !numbers.CapacityFits(blueprint.MaxSupply, instanceBits) {
			return fmt.Errorf("%w: blueprint %q of %d no longer fits %d bits", ErrSupplyExceedsAddressSpace, blueprint.Name, blueprint.MaxSupply, instanceBits)
		}
	}

	return nil
}

// insertBlueprint stores blueprint and indexes it, widening the tier's buffer when needed.
func (r *Registry) insertBlueprint(tier *Tier, blueprint *Blueprint) {
	tier.BufferWidth = tier.requiredWidth(tier.BlueprintCount + 1)
	r.blueprints[tier.ID] = append(r.blueprints[tier.ID], blueprint)
	r.blueprintByName[tier.ID][blueprint.Name] = blueprint.Index
	tier.BlueprintCount++
}
