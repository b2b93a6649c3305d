// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package registry

import (
	"fmt"

	"github.com/robbelouwet/NFT-game-items/collectible/identity"
	"github.com/robbelouwet/NFT-game-items/internal/numbers"
)

// Tier defines a named rarity class.
type Tier struct {
	ID   uint32
	Name string
	// Selector is the modulo divisor of the tier probe; larger means rarer.
	Selector uint64
	// Target is the remainder a probe must leave to qualify.
	Target uint64
	// BufferWidth is the amount of identity bits reserved for blueprint indexes.
	BufferWidth    uint
	BlueprintCount uint64
}

// TierOption customizes tier creation.
type TierOption func(*Tier)

// WithTarget sets the modulo target of the tier, 0 by default.
func WithTarget(target uint64) TierOption {
	return func(t *Tier) {
		t.Target = target
	}
}

// MaskSelector returns the selector of the bit-mask scheme: 2^bits - 1.
func MaskSelector(bits uint) (uint64, error) {
	if bits == 0 || bits > 64 {
		return 0, fmt.Errorf("%w: mask of %d bits", ErrInvalidSelector, bits)
	}
	if bits == 64 {
		return ^uint64(0), nil
	}

	return uint64(1)<<bits - 1, nil
}

// Qualifies returns true if probe lands in the tier.
func (t *Tier) Qualifies(probe uint64) bool {
	return probe%t.Selector == t.Target
}

// InstanceBits returns the width of the instance segment left by the tier's buffer.
func (t *Tier) InstanceBits() uint {
	return identity.InstanceBits(t.BufferWidth)
}

// requiredWidth returns the smallest width not less than the current one
// that addresses count blueprints.
func (t *Tier) requiredWidth(count uint64) uint {
	width := t.BufferWidth
	for !numbers.CapacityFits(count, width) {
		width++
	}

	return width
}

// CreateTier registers a new tier and returns its id.
func (r *Registry) CreateTier(name string, selector uint64, bufferWidth uint, opts ...TierOption) (uint32, error) {
	tier := &Tier{
		Name:        name,
		Selector:    selector,
		BufferWidth: bufferWidth,
	}
	for _, opt := range opts {
		opt(tier)
	}

	switch {
	case name == "":
		return 0, ErrEmptyName
	case selector == 0:
		return 0, ErrInvalidSelector
	case tier.Target >= selector:
		return 0, fmt.Errorf("%w: %d is not below selector %d", ErrInvalidTarget, tier.Target, selector)
	case bufferWidth > identity.MaxBufferWidth:
		return 0, fmt.Errorf("%w: %d > %d", ErrInvalidBufferWidth, bufferWidth, identity.MaxBufferWidth)
	}
	if _, ok := r.tierByName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if _, ok := r.tierBySelector[selector]; ok {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateSelector, selector)
	}
	if uint64(len(r.tiers)) > uint64(^uint32(0)) {
		return 0, ErrTierLimit
	}

	tier.ID = uint32(len(r.tiers))
	r.insertTier(tier)

	return tier.ID, nil
}

// Tier returns a copy of the tier.
func (r *Registry) Tier(id uint32) (Tier, error) {
	tier, err := r.tier(id)
	if err != nil {
		return Tier{}, err
	}

	return *tier, nil
}

// Tiers returns copies of all tiers ordered by id.
func (r *Registry) Tiers() []Tier {
	tiers := make([]Tier, 0, len(r.tiers))
	for _, tier := range r.tiers {
		tiers = append(tiers, *tier)
	}

	return tiers
}

// GrowBufferIfNeeded widens the tier's buffer when the next blueprint would not fit.
// Returns the resulting width.
func (r *Registry) GrowBufferIfNeeded(id uint32) (uint, error) {
	tier, err := r.tier(id)
	if err != nil {
		return 0, err
	}

	width := tier.requiredWidth(tier.BlueprintCount + 1)
	if width > identity.MaxBufferWidth {
		return tier.BufferWidth, fmt.Errorf("%w: tier %d is full", ErrInvalidBufferWidth, id)
	}
	if err = r.checkSupplies(tier, width); err != nil {
		return tier.BufferWidth, err
	}
	tier.BufferWidth = width

	return width, nil
}

// Qualifying returns the rarest tier (largest selector) the probe qualifies for.
func (r *Registry) Qualifying(probe uint64) (Tier, bool) {
	var best *Tier
	for _, tier := range r.tiers {
		if !tier.Qualifies(probe) {
			continue
		}
		if best == nil || tier.Selector > best.Selector {
			best = tier
		}
	}

	if best == nil {
		return Tier{}, false
	}

	return *best, true
}

// tier returns the stored tier.
func (r *Registry) tier(id uint32) (*Tier, error) {
	if uint64(id) >= uint64(len(r.tiers)) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, id)
	}

	return r.tiers[id], nil
}

// insertTier stores tier and indexes it.
func (r *Registry) insertTier(tier *Tier) {
	r.tiers = append(r.tiers, tier)
	r.tierByName[tier.Name] = tier.ID
	r.tierBySelector[tier.Selector] = tier.ID
	r.blueprints[tier.ID] = nil
	r.blueprintByName[tier.ID] = make(map[string]uint64)
}
