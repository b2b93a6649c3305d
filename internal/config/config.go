// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gopkg.in/yaml.v3"

	"github.com/robbelouwet/NFT-game-items/collectible/mining"
	"github.com/robbelouwet/NFT-game-items/collectible/registry"
)

const (
	// DefaultNetwork is the network accounts are decoded for when none is set.
	DefaultNetwork = "regtest"
	// DefaultTicketPrice is the ticket price in satoshi when none is set.
	DefaultTicketPrice uint64 = 10000
)

// ErrInvalidConfig defines a configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid config")

var networks = map[string]*chaincfg.Params{
	"mainnet":  &chaincfg.MainNetParams,
	"testnet3": &chaincfg.TestNet3Params,
	"regtest":  &chaincfg.RegressionNetParams,
	"signet":   &chaincfg.SigNetParams,
	"simnet":   &chaincfg.SimNetParams,
}

// Config holds lootbox configuration.
type Config struct {
	Network string        `yaml:"network"`
	Tickets TicketsConfig `yaml:"tickets"`
	Mining  MiningConfig  `yaml:"mining"`
	Tiers   []TierConfig  `yaml:"tiers"`
}

// TicketsConfig holds ticket sale settings.
type TicketsConfig struct {
	Price uint64 `yaml:"price"` // satoshi
}

// MiningConfig holds challenge handling settings.
type MiningConfig struct {
	Mode    string `yaml:"mode"`    // direct or hashed
	Entropy string `yaml:"entropy"` // block hash, hashed mode only
}

// TierConfig describes a tier seeded at startup.
type TierConfig struct {
	Name string `yaml:"name"`
	// Either Selector or MaskBits is set.
	Selector    uint64            `yaml:"selector"`
	MaskBits    uint              `yaml:"mask_bits"`
	Target      uint64            `yaml:"target"`
	BufferWidth uint              `yaml:"buffer_width"`
	Blueprints  []BlueprintConfig `yaml:"blueprints"`
}

// BlueprintConfig describes a blueprint seeded at startup.
type BlueprintConfig struct {
	Name      string `yaml:"name"`
	MaxSupply uint64 `yaml:"max_supply"`
}

// Default returns configuration with every default applied and an empty catalog.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()

	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration.
func (cfg *Config) Validate() error {
	if _, err := cfg.NetworkParams(); err != nil {
		return err
	}
	if cfg.Tickets.Price == 0 {
		return fmt.Errorf("%w: ticket price must be positive", ErrInvalidConfig)
	}

	mode, err := mining.ParseMode(cfg.Mining.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if mode == mining.ModeHashed && cfg.Mining.Entropy == "" {
		return fmt.Errorf("%w: hashed mining needs entropy", ErrInvalidConfig)
	}
	if cfg.Mining.Entropy != "" {
		if _, err = chainhash.NewHashFromStr(cfg.Mining.Entropy); err != nil {
			return fmt.Errorf("%w: entropy: %v", ErrInvalidConfig, err)
		}
	}

	for i, tier := range cfg.Tiers {
		if _, err = tier.ResolveSelector(); err != nil {
			return fmt.Errorf("%w: tier %d %q: %v", ErrInvalidConfig, i, tier.Name, err)
		}
	}

	return nil
}

// NetworkParams returns chain parameters of the configured network.
func (cfg *Config) NetworkParams() (*chaincfg.Params, error) {
	params, ok := networks[cfg.Network]
	if !ok {
		return nil, fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, cfg.Network)
	}

	return params, nil
}

// ResolveSelector returns the tier selector, computing it from MaskBits when set.
func (t TierConfig) ResolveSelector() (uint64, error) {
	switch {
	case t.Selector != 0 && t.MaskBits != 0:
		return 0, errors.New("selector and mask_bits are mutually exclusive")
	case t.MaskBits != 0:
		return registry.MaskSelector(t.MaskBits)
	case t.Selector == 0:
		return 0, registry.ErrInvalidSelector
	default:
		return t.Selector, nil
	}
}

// setDefaults fills unset values.
func (cfg *Config) setDefaults() {
	if cfg.Network == "" {
		cfg.Network = DefaultNetwork
	}
	if cfg.Tickets.Price == 0 {
		cfg.Tickets.Price = DefaultTicketPrice
	}
	if cfg.Mining.Mode == "" {
		cfg.Mining.Mode = mining.ModeDirect.String()
	}
}
