// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package mining

import (
	"github.com/robbelouwet/NFT-game-items/collectible/challenge"
	"github.com/robbelouwet/NFT-game-items/collectible/identity"
)

// Stage defines how far a mine attempt went through the pipeline.
type Stage int

const (
	// StageChallengeReceived defines a decomposed challenge.
	StageChallengeReceived Stage = iota
	// StageTierSelected defines a challenge that qualified for a tier.
	StageTierSelected
	// StageBlueprintSelected defines a chosen blueprint.
	StageBlueprintSelected
	// StageIdentityComputed defines an encoded candidate identity.
	StageIdentityComputed
	// StageMinted defines a committed item.
	StageMinted
)

var stageNames = [...]string{
	StageChallengeReceived: "challenge_received",
	StageTierSelected:      "tier_selected",
	StageBlueprintSelected: "blueprint_selected",
	StageIdentityComputed:  "identity_computed",
	StageMinted:            "minted",
}

// String returns stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}

// Reason explains a failed challenge. It is informational only: callers see
// a single challenge failed outcome.
type Reason int

const (
	// ReasonNone is set on minted outcomes.
	ReasonNone Reason = iota
	// ReasonNoTier defines a tier probe that matches no tier.
	ReasonNoTier
	// ReasonEmptyTier defines a qualifying tier without blueprints.
	ReasonEmptyTier
	// ReasonSupplyExhausted defines a blueprint without remaining supply.
	ReasonSupplyExhausted
	// ReasonDuplicateIdentity defines an identity that was minted before.
	ReasonDuplicateIdentity
)

var reasonNames = [...]string{
	ReasonNone:              "none",
	ReasonNoTier:            "no_tier",
	ReasonEmptyTier:         "empty_tier",
	ReasonSupplyExhausted:   "supply_exhausted",
	ReasonDuplicateIdentity: "duplicate_identity",
}

// String returns reason name.
func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}

	return reasonNames[r]
}

// Item is a minted item.
type Item struct {
	Identity  *identity.Identity
	TierID    uint32
	Blueprint uint64
	// Instance is the instance segment of the identity.
	Instance uint64
	// Serial is the dense mint number of the item within its blueprint.
	Serial uint64
	// Width is the tier buffer width the identity was encoded with.
	Width uint
	Owner string
}

// Outcome is the result of a mine attempt.
type Outcome struct {
	Minted    bool
	Item      *Item
	Challenge *challenge.Challenge
	Stage     Stage
	Reason    Reason
}

// EventKind defines the outcome notification type.
type EventKind int

const (
	// EventMinedSuccessfully is emitted after an item is committed.
	EventMinedSuccessfully EventKind = iota + 1
	// EventChallengeFailed is emitted when a challenge mints nothing.
	EventChallengeFailed
)

// String returns event name.
func (k EventKind) String() string {
	switch k {
	case EventMinedSuccessfully:
		return "minedSuccessfully"
	case EventChallengeFailed:
		return "challengeFailed"
	default:
		return "unknown"
	}
}

// Event is an outcome notification.
type Event struct {
	Kind      EventKind
	Owner     string
	Challenge *challenge.Challenge
	// Item is nil unless Kind is EventMinedSuccessfully.
	Item   *Item
	Reason Reason
}

// Listener receives outcome notifications.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// Custodian is the asset-ownership layer new items are handed to.
type Custodian interface {
	// Assign attributes item to owner. An error aborts the mine.
	Assign(owner string, item Item) error
}
