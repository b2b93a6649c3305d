// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package registry

import (
	"errors"
)

var (
	// ErrEmptyName defines a tier or blueprint registered without a name.
	ErrEmptyName = errors.New("empty name")
	// ErrInvalidSelector defines a zero tier selector.
	ErrInvalidSelector = errors.New("invalid selector")
	// ErrInvalidTarget defines a modulo target that can never be reached by its selector.
	ErrInvalidTarget = errors.New("invalid modulo target")
	// ErrInvalidBufferWidth defines a blueprint buffer wider than the identity layout allows.
	ErrInvalidBufferWidth = errors.New("invalid buffer width")
	// ErrDuplicateName defines a tier name that is already taken.
	ErrDuplicateName = errors.New("duplicate tier name")
	// ErrDuplicateSelector defines a tier selector that is already taken.
	ErrDuplicateSelector = errors.New("duplicate tier selector")
	// ErrTierLimit defines that no more tier ids are available.
	ErrTierLimit = errors.New("tier limit reached")
	// ErrUnknownTier defines a lookup of a tier that does not exist.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrInvalidMaxSupply defines a blueprint with zero max supply.
	ErrInvalidMaxSupply = errors.New("invalid max supply")
	// ErrDuplicateBlueprintName defines a blueprint name already used within the tier.
	ErrDuplicateBlueprintName = errors.New("duplicate blueprint name")
	// ErrSupplyExceedsAddressSpace defines a max supply the instance segment cannot address.
	ErrSupplyExceedsAddressSpace = errors.New("supply exceeds address space")
	// ErrUnknownBlueprint defines a lookup of a blueprint that does not exist.
	ErrUnknownBlueprint = errors.New("unknown blueprint")
	// ErrSupplyExhausted defines a blueprint that minted its whole supply.
	ErrSupplyExhausted = errors.New("supply exhausted")
)
