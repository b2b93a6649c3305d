// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package lootbox

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/robbelouwet/NFT-game-items/collectible/account"
	"github.com/robbelouwet/NFT-game-items/collectible/challenge"
	"github.com/robbelouwet/NFT-game-items/collectible/identity"
	"github.com/robbelouwet/NFT-game-items/collectible/mining"
	"github.com/robbelouwet/NFT-game-items/collectible/registry"
	"github.com/robbelouwet/NFT-game-items/collectible/tickets"
	"github.com/robbelouwet/NFT-game-items/internal/config"
)

// LootBox sells tickets and mints tiered items from challenges.
// Every mutation runs under one exclusive lock; queries share a read lock.
type LootBox struct {
	mu sync.RWMutex

	log     *slog.Logger
	network *chaincfg.Params

	registry *registry.Registry
	engine   *mining.Engine
	ledger   *tickets.Ledger
}

// New is a constructor for LootBox with an empty catalog.
func New(opts ...Option) (*LootBox, error) {
	return newLootBox(newOptions(opts), registry.New(), nil)
}

// NewFromConfig creates a LootBox and seeds the catalog of cfg in file order.
// Options override configured values.
func NewFromConfig(cfg *config.Config, opts ...Option) (*LootBox, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	network, err := cfg.NetworkParams()
	if err != nil {
		return nil, err
	}
	mode, err := mining.ParseMode(cfg.Mining.Mode)
	if err != nil {
		return nil, err
	}

	configured := []Option{
		WithNetwork(network),
		WithTicketPrice(new(big.Int).SetUint64(cfg.Tickets.Price)),
		WithMiningMode(mode),
	}
	if cfg.Mining.Entropy != "" {
		entropy, err := mining.NewFixedEntropy(cfg.Mining.Entropy)
		if err != nil {
			return nil, err
		}

		configured = append(configured, WithEntropy(entropy))
	}

	box, err := New(append(configured, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, tierCfg := range cfg.Tiers {
		selector, err := tierCfg.ResolveSelector()
		if err != nil {
			return nil, err
		}

		tierID, err := box.CreateTier(tierCfg.Name, selector, tierCfg.BufferWidth, registry.WithTarget(tierCfg.Target))
		if err != nil {
			return nil, fmt.Errorf("could not seed tier %q: %w", tierCfg.Name, err)
		}

		for _, blueprintCfg := range tierCfg.Blueprints {
			if _, err = box.AddBlueprint(tierID, blueprintCfg.Name, blueprintCfg.MaxSupply); err != nil {
				return nil, fmt.Errorf("could not seed blueprint %q of tier %q: %w", blueprintCfg.Name, tierCfg.Name, err)
			}
		}
	}

	return box, nil
}

// newLootBox wires the components around reg.
func newLootBox(o *options, reg *registry.Registry, ledger *tickets.Ledger) (*LootBox, error) {
	if o.network == nil {
		return nil, fmt.Errorf("%w: network is not set", config.ErrInvalidConfig)
	}

	engine, err := mining.NewEngine(reg, o.mining...)
	if err != nil {
		return nil, err
	}

	if ledger == nil {
		if ledger, err = tickets.NewLedger(o.price); err != nil {
			return nil, err
		}
	}

	return &LootBox{
		log:      o.logger,
		network:  o.network,
		registry: reg,
		engine:   engine,
		ledger:   ledger,
	}, nil
}

// CreateTier registers a tier and returns its id.
func (box *LootBox) CreateTier(name string, selector uint64, bufferWidth uint, opts ...registry.TierOption) (uint32, error) {
	box.mu.Lock()
	defer box.mu.Unlock()

	id, err := box.registry.CreateTier(name, selector, bufferWidth, opts...)
	if err != nil {
		return 0, err
	}

	box.log.Info("tier created", "tier", id, "name", name, "selector", selector, "buffer_width", bufferWidth)

	return id, nil
}

// AddBlueprint registers a blueprint under the tier and returns its index.
func (box *LootBox) AddBlueprint(tierID uint32, name string, maxSupply uint64) (uint64, error) {
	box.mu.Lock()
	defer box.mu.Unlock()

	index, err := box.registry.AddBlueprint(tierID, name, maxSupply)
	if err != nil {
		return 0, err
	}

	tier, err := box.registry.Tier(tierID)
	if err != nil {
		return 0, err
	}

	box.log.Info("blueprint added",
		"tier", tierID,
		"blueprint", index,
		"name", name,
		"max_supply", maxSupply,
		"buffer_width", tier.BufferWidth,
	)

	return index, nil
}

// Mine runs the challenge for the owner address without spending a ticket.
func (box *LootBox) Mine(owner string, c *challenge.Challenge) (mining.Outcome, error) {
	if c == nil {
		return mining.Outcome{}, mining.ErrNilChallenge
	}

	acc, err := account.Parse(owner, box.network)
	if err != nil {
		return mining.Outcome{}, err
	}

	box.mu.Lock()
	defer box.mu.Unlock()

	return box.mine(acc, c)
}

// BuyTicket sells quantity tickets labelled label to the buyer. The returned
// purchase carries the refund of any overpayment.
func (box *LootBox) BuyTicket(buyer, label string, quantity uint64, payment *big.Int) (tickets.Purchase, error) {
	acc, err := account.Parse(buyer, box.network)
	if err != nil {
		return tickets.Purchase{}, err
	}

	box.mu.Lock()
	defer box.mu.Unlock()

	purchase, err := box.ledger.BuyTicket(acc, label, quantity, payment)
	if err != nil {
		return tickets.Purchase{}, err
	}

	box.log.Info("tickets bought",
		"account", purchase.Account,
		"label", label,
		"quantity", quantity,
		"cost", purchase.Cost.String(),
		"refund", purchase.Refund.Amount.String(),
	)

	return purchase, nil
}

// PopTicket discards the oldest ticket of the account without mining.
func (box *LootBox) PopTicket(address string) (tickets.Ticket, error) {
	acc, err := account.Parse(address, box.network)
	if err != nil {
		return tickets.Ticket{}, err
	}

	box.mu.Lock()
	defer box.mu.Unlock()

	ticket, err := box.ledger.PopTicket(acc)
	if err != nil {
		return tickets.Ticket{}, err
	}

	box.log.Info("ticket consumed", "account", acc.String(), "label", ticket.Label, "seq", ticket.Seq)

	return ticket, nil
}

// Loot spends the oldest ticket of the account on a challenge derived from
// the account, the ticket label and the ticket sequence number. The ticket
// stays queued when mining returns an error.
func (box *LootBox) Loot(address string) (mining.Outcome, error) {
	acc, err := account.Parse(address, box.network)
	if err != nil {
		return mining.Outcome{}, err
	}

	box.mu.Lock()
	defer box.mu.Unlock()

	ticket, err := box.ledger.PeekTicket(acc)
	if err != nil {
		return mining.Outcome{}, err
	}

	c, err := TicketChallenge(acc, ticket)
	if err != nil {
		return mining.Outcome{}, err
	}

	outcome, err := box.mine(acc, c)
	if err != nil {
		return mining.Outcome{}, err
	}

	// the peeked ticket is still the head of the queue.
	if _, err = box.ledger.PopTicket(acc); err != nil {
		return mining.Outcome{}, err
	}

	box.log.Info("ticket consumed", "account", acc.String(), "label", ticket.Label, "seq", ticket.Seq)

	return outcome, nil
}

// TicketChallenge returns the challenge a loot with ticket mines.
func TicketChallenge(acc account.Account, ticket tickets.Ticket) (*challenge.Challenge, error) {
	seq := make([]byte, 8)
	binary.BigEndian.PutUint64(seq, ticket.Seq)

	return challenge.Derive(acc.Script(), []byte(ticket.Label), seq)
}

// mine runs the engine and logs the outcome. Caller holds the write lock.
func (box *LootBox) mine(acc account.Account, c *challenge.Challenge) (mining.Outcome, error) {
	outcome, err := box.engine.Mine(acc.String(), c)
	if err != nil {
		box.log.Warn("mining aborted", "account", acc.String(), "error", err)
		return mining.Outcome{}, err
	}

	if !outcome.Minted {
		box.log.Info("challenge failed",
			"account", acc.String(),
			"challenge", c.String(),
			"reason", outcome.Reason.String(),
			"stage", outcome.Stage.String(),
		)

		return outcome, nil
	}

	box.log.Info("item minted",
		"account", acc.String(),
		"identity", outcome.Item.Identity.String(),
		"tier", outcome.Item.TierID,
		"blueprint", outcome.Item.Blueprint,
		"instance", outcome.Item.Instance,
		"serial", outcome.Item.Serial,
	)

	return outcome, nil
}

// TierBufferSize returns the current buffer width of the tier.
func (box *LootBox) TierBufferSize(tierID uint32) (uint, error) {
	box.mu.RLock()
	defer box.mu.RUnlock()

	tier, err := box.registry.Tier(tierID)
	if err != nil {
		return 0, err
	}

	return tier.BufferWidth, nil
}

// TierBlueprintCount returns how many blueprints the tier holds.
func (box *LootBox) TierBlueprintCount(tierID uint32) (uint64, error) {
	box.mu.RLock()
	defer box.mu.RUnlock()

	tier, err := box.registry.Tier(tierID)
	if err != nil {
		return 0, err
	}

	return tier.BlueprintCount, nil
}

// BlueprintMaxSupply returns the maximum supply of the blueprint.
func (box *LootBox) BlueprintMaxSupply(tierID uint32, index uint64) (uint64, error) {
	box.mu.RLock()
	defer box.mu.RUnlock()

	blueprint, err := box.registry.Blueprint(tierID, index)
	if err != nil {
		return 0, err
	}

	return blueprint.MaxSupply, nil
}

// Tiers returns all tiers ordered by id.
func (box *LootBox) Tiers() []registry.Tier {
	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.registry.Tiers()
}

// Blueprints returns the blueprints of the tier ordered by index.
func (box *LootBox) Blueprints(tierID uint32) ([]registry.Blueprint, error) {
	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.registry.Blueprints(tierID)
}

// Item returns a minted item.
func (box *LootBox) Item(id *identity.Identity) (mining.Item, bool) {
	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.engine.Item(id)
}

// Items returns all minted items ordered by identity.
func (box *LootBox) Items() []mining.Item {
	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.engine.Items()
}

// TicketPrice returns the current unit price in satoshi.
func (box *LootBox) TicketPrice() *big.Int {
	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.ledger.TicketPrice()
}

// SetTicketPrice changes the price of later purchases.
func (box *LootBox) SetTicketPrice(price *big.Int) error {
	box.mu.Lock()
	defer box.mu.Unlock()

	if err := box.ledger.SetTicketPrice(price); err != nil {
		return err
	}

	box.log.Info("ticket price changed", "price", price.String())

	return nil
}

// Tickets returns how many tickets the account holds.
func (box *LootBox) Tickets(address string) (uint64, error) {
	acc, err := account.Parse(address, box.network)
	if err != nil {
		return 0, err
	}

	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.ledger.Tickets(acc), nil
}

// Revenue returns the total value kept from ticket sales.
func (box *LootBox) Revenue() *big.Int {
	box.mu.RLock()
	defer box.mu.RUnlock()

	return box.ledger.Revenue()
}
