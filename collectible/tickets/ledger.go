// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package tickets

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/wire"

	"github.com/robbelouwet/NFT-game-items/collectible/account"
	"github.com/robbelouwet/NFT-game-items/internal/fifo"
	"github.com/robbelouwet/NFT-game-items/internal/numbers"
)

var (
	// ErrNoTicketsAvailable defines an account without pending tickets.
	ErrNoTicketsAvailable = errors.New("no tickets available")
	// ErrInvalidQuantity defines a purchase of zero tickets.
	ErrInvalidQuantity = errors.New("invalid ticket quantity")
	// ErrInvalidPrice defines a non-positive ticket price.
	ErrInvalidPrice = errors.New("invalid ticket price")
	// ErrInvalidPayment defines a missing or negative payment.
	ErrInvalidPayment = errors.New("invalid payment")
	// ErrRefundOverflow defines change that does not fit a transaction output value.
	ErrRefundOverflow = errors.New("refund overflows output value")
)

// Ticket is a prepaid right to one loot attempt.
type Ticket struct {
	Label string
	// Seq is the per-account purchase sequence number of the ticket.
	Seq uint64
}

// Refund is the change returned to the buyer.
type Refund struct {
	Amount *big.Int
	// Output pays Amount to the buyer's script, nil when there is no change.
	Output *wire.TxOut
}

// Purchase describes a completed ticket purchase.
type Purchase struct {
	Account  string
	Label    string
	Quantity uint64
	Cost     *big.Int
	Refund   Refund
	// FirstSeq is the sequence number of the first purchased ticket.
	FirstSeq uint64
}

// Batch is a run of tickets bought in one purchase that are still pending.
type Batch struct {
	Label     string `cbor:"label"`
	NextSeq   uint64 `cbor:"next_seq"`
	Remaining uint64 `cbor:"remaining"`
}

// Ledger keeps ticket price, per-account ticket queues and collected revenue.
// It is not safe for concurrent use.
type Ledger struct {
	price   *big.Int
	revenue *big.Int
	queues  map[string]*fifo.Queue[*Batch]
	counts  map[string]uint64
	nextSeq map[string]uint64
}

// NewLedger is a constructor for Ledger.
func NewLedger(price *big.Int) (*Ledger, error) {
	if price == nil || !numbers.IsPositive(price) {
		return nil, ErrInvalidPrice
	}

	return &Ledger{
		price:   new(big.Int).Set(price),
		revenue: big.NewInt(0),
		queues:  make(map[string]*fifo.Queue[*Batch]),
		counts:  make(map[string]uint64),
		nextSeq: make(map[string]uint64),
	}, nil
}

// TicketPrice returns the unit price.
func (l *Ledger) TicketPrice() *big.Int {
	return new(big.Int).Set(l.price)
}

// SetTicketPrice changes the unit price of future purchases.
func (l *Ledger) SetTicketPrice(price *big.Int) error {
	if price == nil || !numbers.IsPositive(price) {
		return ErrInvalidPrice
	}

	l.price = new(big.Int).Set(price)

	return nil
}

// Revenue returns the total value kept from purchases.
func (l *Ledger) Revenue() *big.Int {
	return new(big.Int).Set(l.revenue)
}

// BuyTicket adds quantity tickets to the account's queue and returns the
// overpayment as refund.
func (l *Ledger) BuyTicket(acc account.Account, label string, quantity uint64, payment *big.Int) (Purchase, error) {
	if quantity == 0 {
		return Purchase{}, ErrInvalidQuantity
	}
	if payment == nil || numbers.IsNegative(payment) {
		return Purchase{}, ErrInvalidPayment
	}

	cost := numbers.MulUint64(l.price, quantity)
	if numbers.IsLess(payment, cost) {
		return Purchase{}, NewPaymentError(cost, new(big.Int).Set(payment))
	}

	key := acc.String()
	if l.counts[key] > ^uint64(0)-quantity {
		return Purchase{}, fmt.Errorf("%w: account %s holds too many tickets", ErrInvalidQuantity, key)
	}

	change := new(big.Int).Sub(payment, cost)
	refund := Refund{Amount: change}
	if numbers.IsPositive(change) {
		if !change.IsInt64() {
			return Purchase{}, fmt.Errorf("%w: %s", ErrRefundOverflow, change)
		}

		refund.Output = wire.NewTxOut(change.Int64(), acc.Script())
	}

	firstSeq := l.nextSeq[key]
	l.queue(key).Push(&Batch{Label: label, NextSeq: firstSeq, Remaining: quantity})
	l.counts[key] += quantity
	l.nextSeq[key] = firstSeq + quantity
	l.revenue.Add(l.revenue, cost)

	return Purchase{
		Account:  key,
		Label:    label,
		Quantity: quantity,
		Cost:     cost,
		Refund:   refund,
		FirstSeq: firstSeq,
	}, nil
}

// PeekTicket returns the ticket the next pop would consume.
func (l *Ledger) PeekTicket(acc account.Account) (Ticket, error) {
	queue, ok := l.queues[acc.String()]
	if !ok {
		return Ticket{}, fmt.Errorf("%w: %s", ErrNoTicketsAvailable, acc)
	}

	head, err := queue.Peek()
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %s", ErrNoTicketsAvailable, acc)
	}

	return Ticket{Label: head.Label, Seq: head.NextSeq}, nil
}

// PopTicket consumes the oldest pending ticket of the account.
func (l *Ledger) PopTicket(acc account.Account) (Ticket, error) {
	ticket, err := l.PeekTicket(acc)
	if err != nil {
		return Ticket{}, err
	}

	key := acc.String()
	queue := l.queues[key]
	head, _ := queue.Peek() // skip error due to previous peek.
	head.NextSeq++
	head.Remaining--
	if head.Remaining == 0 {
		_, _ = queue.Next()
	}

	l.counts[key]--
	if l.counts[key] == 0 {
		delete(l.counts, key)
		delete(l.queues, key)
	}

	return ticket, nil
}

// Tickets returns how many tickets the account holds.
func (l *Ledger) Tickets(acc account.Account) uint64 {
	return l.counts[acc.String()]
}

// queue returns the account queue, creating it if needed.
func (l *Ledger) queue(key string) *fifo.Queue[*Batch] {
	queue, ok := l.queues[key]
	if !ok {
		queue = fifo.New[*Batch]()
		l.queues[key] = queue
	}

	return queue
}

// LedgerState is the exported ledger content.
type LedgerState struct {
	Price   *big.Int          `cbor:"price"`
	Revenue *big.Int          `cbor:"revenue"`
	Queues  []AccountQueue    `cbor:"queues"`
	NextSeq map[string]uint64 `cbor:"next_seq"`
}

// AccountQueue holds the pending batches of one account.
type AccountQueue struct {
	Account string  `cbor:"account"`
	Batches []Batch `cbor:"batches"`
}

// Export returns ledger content with queues ordered by account.
func (l *Ledger) Export() LedgerState {
	state := LedgerState{
		Price:   l.TicketPrice(),
		Revenue: l.Revenue(),
		NextSeq: make(map[string]uint64, len(l.nextSeq)),
	}
	for key, seq := range l.nextSeq {
		state.NextSeq[key] = seq
	}
	for key, queue := range l.queues {
		accountQueue := AccountQueue{Account: key}
		for _, batch := range queue.Items() {
			accountQueue.Batches = append(accountQueue.Batches, *batch)
		}
		state.Queues = append(state.Queues, accountQueue)
	}
	sort.Slice(state.Queues, func(i, j int) bool {
		return state.Queues[i].Account < state.Queues[j].Account
	})

	return state
}

// NewLedgerFromState rebuilds a ledger from exported content.
func NewLedgerFromState(state LedgerState) (*Ledger, error) {
	l, err := NewLedger(state.Price)
	if err != nil {
		return nil, err
	}
	if state.Revenue == nil || numbers.IsNegative(state.Revenue) {
		return nil, errors.New("invalid ledger revenue")
	}
	l.revenue.Set(state.Revenue)

	for key, seq := range state.NextSeq {
		l.nextSeq[key] = seq
	}
	for _, accountQueue := range state.Queues {
		if _, ok := l.queues[accountQueue.Account]; ok {
			return nil, fmt.Errorf("duplicate queue of %s", accountQueue.Account)
		}

		// batches hold ascending, disjoint sequence ranges.
		var end uint64
		for _, batch := range accountQueue.Batches {
			if batch.Remaining == 0 {
				return nil, fmt.Errorf("%w: empty batch of %s", ErrInvalidQuantity, accountQueue.Account)
			}
			if batch.Remaining > math.MaxUint64-batch.NextSeq {
				return nil, fmt.Errorf("%w: batch of %s overflows its sequence", ErrInvalidQuantity, accountQueue.Account)
			}
			if batch.NextSeq < end {
				return nil, fmt.Errorf("batch of %s overlaps the previous one at %d", accountQueue.Account, batch.NextSeq)
			}
			end = batch.NextSeq + batch.Remaining
			if end > l.nextSeq[accountQueue.Account] {
				return nil, fmt.Errorf("batch of %s is ahead of its sequence", accountQueue.Account)
			}

			stored := batch
			l.queue(accountQueue.Account).Push(&stored)
			l.counts[accountQueue.Account] += batch.Remaining
		}
	}

	return l, nil
}
