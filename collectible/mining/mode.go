// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package mining

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/robbelouwet/NFT-game-items/collectible/challenge"
)

// Mode defines how probes are read from a challenge.
type Mode int

const (
	// ModeDirect reads probes straight from the challenge segments.
	// Mining is reproducible from the challenge alone.
	ModeDirect Mode = iota
	// ModeHashed reads probes from DoubleHash(challenge || entropy), so the same
	// challenge targets different items once the entropy changes.
	ModeHashed
)

// ParseMode parses the mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "direct":
		return ModeDirect, nil
	case "hashed":
		return ModeHashed, nil
	default:
		return 0, fmt.Errorf("unknown mining mode %q", s)
	}
}

// String returns mode name.
func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeHashed:
		return "hashed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// EntropySource provides the ambient value mixed into hashed challenges,
// usually the hash of the latest block.
type EntropySource interface {
	Entropy() chainhash.Hash
}

// FixedEntropy is an EntropySource that never changes.
type FixedEntropy chainhash.Hash

// Entropy implements EntropySource.
func (e FixedEntropy) Entropy() chainhash.Hash {
	return chainhash.Hash(e)
}

// NewFixedEntropy parses a block hash in its usual byte-reversed hex form.
func NewFixedEntropy(hash string) (FixedEntropy, error) {
	h, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return FixedEntropy{}, err
	}

	return FixedEntropy(*h), nil
}

// probes returns probes of the challenge for the engine mode.
func (e *Engine) probes(c *challenge.Challenge) (challenge.Probes, error) {
	if e.mode != ModeHashed {
		return c.Probes(), nil
	}

	entropy := e.entropy.Entropy()
	preimage := append(c.Bytes(), entropy[:]...)
	hashed, err := challenge.NewFromBytes(chainhash.DoubleHashB(preimage)[:challenge.Size])
	if err != nil {
		return challenge.Probes{}, err
	}

	return hashed.Probes(), nil
}
