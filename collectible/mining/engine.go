// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package mining

import (
	"errors"
	"fmt"
	"sort"

	"github.com/robbelouwet/NFT-game-items/collectible/challenge"
	"github.com/robbelouwet/NFT-game-items/collectible/identity"
	"github.com/robbelouwet/NFT-game-items/collectible/registry"
)

var (
	// ErrNilChallenge defines a missing challenge.
	ErrNilChallenge = errors.New("nil challenge")
	// ErrMissingEntropy defines hashed mode without an entropy source.
	ErrMissingEntropy = errors.New("hashed mode requires an entropy source")
	// ErrInvalidRecord defines a stored item inconsistent with the registry.
	ErrInvalidRecord = errors.New("invalid item record")
)

// Option customizes the engine.
type Option func(*Engine)

// WithMode sets how probes are read from challenges, ModeDirect by default.
func WithMode(mode Mode) Option {
	return func(e *Engine) {
		e.mode = mode
	}
}

// WithEntropy sets the entropy source of ModeHashed.
func WithEntropy(source EntropySource) Option {
	return func(e *Engine) {
		e.entropy = source
	}
}

// WithCustodian sets the asset-ownership layer.
func WithCustodian(custodian Custodian) Option {
	return func(e *Engine) {
		e.custodian = custodian
	}
}

// WithListener adds an outcome listener.
func WithListener(listener Listener) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, listener)
	}
}

// Engine turns challenges into minted items.
// It is not safe for concurrent use.
type Engine struct {
	registry  *registry.Registry
	mode      Mode
	entropy   EntropySource
	custodian Custodian
	listeners []Listener

	minted map[string]*Item
}

// NewEngine is a constructor for Engine.
func NewEngine(reg *registry.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		registry: reg,
		mode:     ModeDirect,
		minted:   make(map[string]*Item),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch e.mode {
	case ModeDirect:
	case ModeHashed:
		if e.entropy == nil {
			return nil, ErrMissingEntropy
		}
	default:
		return nil, fmt.Errorf("unknown mining mode %d", int(e.mode))
	}

	return e, nil
}

// Mode returns the engine mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Mine runs the challenge through tier, blueprint and identity selection and
// mints the item for owner when every step passes. A failed challenge is a
// regular outcome; the error is only set when the custodian rejects the item,
// in which case nothing is committed.
func (e *Engine) Mine(owner string, c *challenge.Challenge) (Outcome, error) {
	if c == nil {
		return Outcome{}, ErrNilChallenge
	}

	probes, err := e.probes(c)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Challenge: c, Stage: StageChallengeReceived}

	tier, ok := e.registry.Qualifying(uint64(probes.Tier))
	if !ok {
		return e.fail(owner, outcome, ReasonNoTier), nil
	}
	outcome.Stage = StageTierSelected
	if tier.BlueprintCount == 0 {
		return e.fail(owner, outcome, ReasonEmptyTier), nil
	}

	index := uint64(probes.Blueprint) % tier.BlueprintCount
	blueprint, err := e.registry.Blueprint(tier.ID, index)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Stage = StageBlueprintSelected
	if blueprint.Remaining() == 0 {
		return e.fail(owner, outcome, ReasonSupplyExhausted), nil
	}

	instance := uint64(probes.Instance) % blueprint.MaxSupply
	id, err := identity.Encode(tier.ID, index, instance, tier.BufferWidth)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Stage = StageIdentityComputed
	if _, ok := e.minted[id.Key()]; ok {
		return e.fail(owner, outcome, ReasonDuplicateIdentity), nil
	}

	item := Item{
		Identity:  id,
		TierID:    tier.ID,
		Blueprint: index,
		Instance:  instance,
		Serial:    blueprint.Minted,
		Width:     tier.BufferWidth,
		Owner:     owner,
	}
	if e.custodian != nil {
		if err = e.custodian.Assign(owner, item); err != nil {
			return Outcome{}, fmt.Errorf("could not assign item %s to %q: %w", id, owner, err)
		}
	}

	// supply was checked above, so the reservation returns item.Serial.
	if item.Serial, err = e.registry.ReserveInstance(tier.ID, index); err != nil {
		return Outcome{}, err
	}
	e.minted[id.Key()] = &item

	outcome.Minted = true
	outcome.Stage = StageMinted
	outcome.Item = &item
	e.emit(Event{Kind: EventMinedSuccessfully, Owner: owner, Challenge: c, Item: &item})

	return outcome, nil
}

// Item returns a minted item by its identity.
func (e *Engine) Item(id *identity.Identity) (Item, bool) {
	if id == nil {
		return Item{}, false
	}

	item, ok := e.minted[id.Key()]
	if !ok {
		return Item{}, false
	}

	return *item, true
}

// Items returns all minted items ordered by identity.
func (e *Engine) Items() []Item {
	items := make([]Item, 0, len(e.minted))
	for _, item := range e.minted {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Identity.Value().Cmp(items[j].Identity.Value()) < 0
	})

	return items
}

// Minted returns how many items were minted.
func (e *Engine) Minted() int {
	return len(e.minted)
}

// fail finishes outcome as a failed challenge.
func (e *Engine) fail(owner string, outcome Outcome, reason Reason) Outcome {
	outcome.Reason = reason
	e.emit(Event{Kind: EventChallengeFailed, Owner: owner, Challenge: outcome.Challenge, Reason: reason})

	return outcome
}

// emit notifies listeners in registration order.
func (e *Engine) emit(event Event) {
	for _, listener := range e.listeners {
		listener.OnEvent(event)
	}
}
