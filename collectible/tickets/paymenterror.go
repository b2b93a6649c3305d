// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package tickets

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrInsufficientPayment defines a purchase paid below quantity * price.
var ErrInsufficientPayment = errors.New("insufficient payment")

// PaymentError describes insufficient payment with details.
type PaymentError struct {
	Need *big.Int
	Have *big.Int
}

// NewPaymentError is a constructor for PaymentError.
func NewPaymentError(need, have *big.Int) *PaymentError {
	return &PaymentError{Need: need, Have: have}
}

// Error returns error description.
func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: Need - %s, Have - %s", ErrInsufficientPayment, e.Need, e.Have)
}

// Is implements comparator method for [errors] package.
func (e *PaymentError) Is(target error) bool {
	return target == ErrInsufficientPayment
}
