// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package account

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ErrInvalidAccount defines an account that is not a valid address of the network.
var ErrInvalidAccount = errors.New("invalid account")

// Account identifies a player by a Bitcoin address.
type Account struct {
	address btcutil.Address
	script  []byte
}

// Parse decodes account address for the given network.
func Parse(address string, chainParams *chaincfg.Params) (Account, error) {
	decoded, err := btcutil.DecodeAddress(address, chainParams)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %s: %v", ErrInvalidAccount, address, err)
	}
	if !decoded.IsForNet(chainParams) {
		return Account{}, fmt.Errorf("%w: %s is not a %s address", ErrInvalidAccount, address, chainParams.Name)
	}

	return FromAddress(decoded)
}

// FromAddress creates Account from already decoded address.
func FromAddress(address btcutil.Address) (Account, error) {
	script, err := txscript.PayToAddrScript(address)
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}

	return Account{address: address, script: script}, nil
}

// Address returns the account address.
func (a Account) Address() btcutil.Address {
	return a.address
}

// Script returns a copy of the account's locking script (ScriptPubKey).
func (a Account) Script() []byte {
	return append([]byte(nil), a.script...)
}

// String returns the encoded address.
func (a Account) String() string {
	if a.address == nil {
		return ""
	}

	return a.address.EncodeAddress()
}
