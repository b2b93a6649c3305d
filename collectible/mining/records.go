// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package mining

import (
	"fmt"

	"github.com/robbelouwet/NFT-game-items/collectible/identity"
)

// Record is the stored form of a minted item.
type Record struct {
	// Identity is the LEB128 form of the item identity.
	Identity []byte `cbor:"identity"`
	Width    uint   `cbor:"width"`
	Serial   uint64 `cbor:"serial"`
	Owner    string `cbor:"owner"`
}

// Export returns records of all minted items ordered by identity.
func (e *Engine) Export() ([]Record, error) {
	items := e.Items()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		data, err := item.Identity.Bytes()
		if err != nil {
			return nil, err
		}

		records = append(records, Record{
			Identity: data,
			Width:    item.Width,
			Serial:   item.Serial,
			Owner:    item.Owner,
		})
	}

	return records, nil
}

// Import loads records into an engine that has not minted anything yet.
// Records must account for exactly the minted count of every blueprint.
func (e *Engine) Import(records []Record) error {
	if len(e.minted) != 0 {
		return fmt.Errorf("%w: engine already holds %d items", ErrInvalidRecord, len(e.minted))
	}

	type slot struct {
		tierID    uint32
		blueprint uint64
	}
	minted := make(map[string]*Item, len(records))
	serials := make(map[slot]map[uint64]struct{})

	for _, record := range records {
		item, err := e.itemFromRecord(record)
		if err != nil {
			return err
		}

		key := item.Identity.Key()
		if _, ok := minted[key]; ok {
			return fmt.Errorf("%w: duplicate identity %s", ErrInvalidRecord, item.Identity)
		}

		s := slot{tierID: item.TierID, blueprint: item.Blueprint}
		if serials[s] == nil {
			serials[s] = make(map[uint64]struct{})
		}
		if _, ok := serials[s][item.Serial]; ok {
			return fmt.Errorf("%w: duplicate serial %d of blueprint %d in tier %d", ErrInvalidRecord, item.Serial, item.Blueprint, item.TierID)
		}

		serials[s][item.Serial] = struct{}{}
		minted[key] = item
	}

	for _, tier := range e.registry.Tiers() {
		blueprints, err := e.registry.Blueprints(tier.ID)
		if err != nil {
			return err
		}

		for _, blueprint := range blueprints {
			found := uint64(len(serials[slot{tierID: tier.ID, blueprint: blueprint.Index}]))
			if found != blueprint.Minted {
				return fmt.Errorf("%w: blueprint %d of tier %d minted %d, found %d", ErrInvalidRecord, blueprint.Index, tier.ID, blueprint.Minted, found)
			}
		}
	}

	e.minted = minted

	return nil
}

// itemFromRecord decodes record and checks it against the registry.
func (e *Engine) itemFromRecord(record Record) (*Item, error) {
	id, err := identity.NewFromBytes(record.Identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	tierID, index, instance, err := identity.Decode(id, record.Width)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	tier, err := e.registry.Tier(tierID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if record.Width > tier.BufferWidth {
		return nil, fmt.Errorf("%w: width %d exceeds tier %d width %d", ErrInvalidRecord, record.Width, tierID, tier.BufferWidth)
	}

	blueprint, err := e.registry.Blueprint(tierID, index)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if instance >= blueprint.MaxSupply || record.Serial >= blueprint.Minted {
		return nil, fmt.Errorf("%w: item %s is outside blueprint %d supply", ErrInvalidRecord, id, index)
	}

	return &Item{
		Identity:  id,
		TierID:    tierID,
		Blueprint: index,
		Instance:  instance,
		Serial:    record.Serial,
		Width:     record.Width,
		Owner:     record.Owner,
	}, nil
}
