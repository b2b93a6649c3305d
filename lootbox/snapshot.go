// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package lootbox

import (
	"errors"
	"fmt"

	"github.com/robbelouwet/NFT-game-items/collectible/mining"
	"github.com/robbelouwet/NFT-game-items/collectible/registry"
	"github.com/robbelouwet/NFT-game-items/collectible/tickets"
	"github.com/robbelouwet/NFT-game-items/internal/codec"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

var (
	// ErrSnapshotVersion defines a snapshot written by an unsupported version.
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
	// ErrNetworkMismatch defines a snapshot taken on another network.
	ErrNetworkMismatch = errors.New("snapshot network mismatch")
)

// state is the encoded LootBox content.
type state struct {
	Version  uint                `cbor:"version"`
	Network  string              `cbor:"network"`
	Registry registry.State      `cbor:"registry"`
	Items    []mining.Record     `cbor:"items"`
	Tickets  tickets.LedgerState `cbor:"tickets"`
}

// Snapshot returns the whole LootBox state as deterministic CBOR.
func (box *LootBox) Snapshot() ([]byte, error) {
	box.mu.RLock()
	defer box.mu.RUnlock()

	items, err := box.engine.Export()
	if err != nil {
		return nil, err
	}

	return codec.Marshal(state{
		Version:  snapshotVersion,
		Network:  box.network.Name,
		Registry: box.registry.Export(),
		Items:    items,
		Tickets:  box.ledger.Export(),
	})
}

// Restore creates a LootBox from a snapshot. Options must select the network
// the snapshot was taken on; the ticket price comes from the snapshot.
func Restore(data []byte, opts ...Option) (*LootBox, error) {
	var s state
	if err := codec.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("could not decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, s.Version)
	}

	o := newOptions(opts)
	if o.network == nil || o.network.Name != s.Network {
		return nil, fmt.Errorf("%w: snapshot of %q", ErrNetworkMismatch, s.Network)
	}

	reg, err := registry.NewFromState(s.Registry)
	if err != nil {
		return nil, fmt.Errorf("could not restore registry: %w", err)
	}
	ledger, err := tickets.NewLedgerFromState(s.Tickets)
	if err != nil {
		return nil, fmt.Errorf("could not restore tickets: %w", err)
	}

	box, err := newLootBox(o, reg, ledger)
	if err != nil {
		return nil, err
	}
	if err = box.engine.Import(s.Items); err != nil {
		return nil, fmt.Errorf("could not restore items: %w", err)
	}

	box.log.Info("lootbox restored",
		"tiers", len(s.Registry.Tiers),
		"blueprints", len(s.Registry.Blueprints),
		"items", len(s.Items),
	)

	return box, nil
}
