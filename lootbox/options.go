// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package lootbox

import (
	"io"
	"log/slog"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/robbelouwet/NFT-game-items/collectible/mining"
)

// DefaultTicketPrice is the ticket price in satoshi used when none is set.
const DefaultTicketPrice = 10000

// Option customizes a LootBox.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	network *chaincfg.Params
	price   *big.Int
	mining  []mining.Option
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		network: &chaincfg.RegressionNetParams,
		price:   big.NewInt(DefaultTicketPrice),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithLogger sets the structured logger. Logs are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNetwork sets the network accounts are decoded for, regtest by default.
func WithNetwork(params *chaincfg.Params) Option {
	return func(o *options) {
		o.network = params
	}
}

// WithTicketPrice sets the initial ticket price in satoshi.
func WithTicketPrice(price *big.Int) Option {
	return func(o *options) {
		o.price = price
	}
}

// WithMiningMode sets how probes are read from challenges.
func WithMiningMode(mode mining.Mode) Option {
	return func(o *options) {
		o.mining = append(o.mining, mining.WithMode(mode))
	}
}

// WithEntropy sets the entropy source of hashed mining.
func WithEntropy(source mining.EntropySource) Option {
	return func(o *options) {
		o.mining = append(o.mining, mining.WithEntropy(source))
	}
}

// WithCustodian sets the asset-ownership layer minted items are handed to.
func WithCustodian(custodian mining.Custodian) Option {
	return func(o *options) {
		o.mining = append(o.mining, mining.WithCustodian(custodian))
	}
}

// WithListener adds a mining outcome listener. Listeners are called while
// the lootbox is locked and must not call back into it.
func WithListener(listener mining.Listener) Option {
	return func(o *options) {
		o.mining = append(o.mining, mining.WithListener(listener))
	}
}
