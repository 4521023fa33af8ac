// Package ledger implements the fungible token ledger and the execution
// environment that settlements run in.
//
// All balance movements and record writes issued inside one Update call
// commit together or not at all. Conflicting Update calls are serialized by
// the backend, so a settlement never observes another one half-applied.
package ledger

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Bucket names a record namespace.
type Bucket string

// bucketBalances holds token balances; records cannot be written to it.
const bucketBalances Bucket = "balances"

// Tx is a ledger transaction. It is valid only inside the Update or View
// callback that received it.
type Tx interface {
	// ID returns the unique identifier of this transaction.
	ID() uuid.UUID

	// Balance returns the balance of a token account (0 if never credited).
	Balance(acct TokenAccount) (uint64, error)

	// Transfer moves amount from one token account to another. authority must
	// authorize debits of from.Owner within this transaction.
	Transfer(from, to TokenAccount, authority Authority, amount uint64) error

	// Mint credits amount to a token account out of thin air. Mint authority
	// is enforced by the caller.
	Mint(to TokenAccount, amount uint64) error

	// Get returns a copy of the record stored under key, or ErrNotFound.
	Get(bucket Bucket, key []byte) ([]byte, error)

	// Put stores a record.
	Put(bucket Bucket, key, value []byte) error

	// Journal returns the balance movements applied so far.
	Journal() []Entry
}

// Ledger runs transactions against persistent state.
type Ledger interface {
	// Update runs fn in a read-write transaction. If fn returns an error,
	// every effect of the transaction is discarded.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying resources.
	Close() error
}

// balanceState is the storage surface shared by the backends.
type balanceState interface {
	ID() uuid.UUID
	Balance(acct TokenAccount) (uint64, error)
	setBalance(acct TokenAccount, v uint64) error
	record(e Entry)
}

func applyTransfer(s balanceState, from, to TokenAccount, authority Authority, amount uint64) error {
	if authority == nil || !authority.Authorizes(from.Owner, s.ID()) {
		return fmt.Errorf("%w: debit of %s", ErrUnauthorized, from)
	}
	if from.Mint != to.Mint {
		return fmt.Errorf("%w: %s -> %s", ErrMintMismatch, from, to)
	}
	if amount == 0 || from == to {
		return nil
	}

	fromBal, err := s.Balance(from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientBalance, from, fromBal, amount)
	}
	toBal, err := s.Balance(to)
	if err != nil {
		return err
	}
	if toBal > math.MaxUint64-amount {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, to)
	}

	if err := s.setBalance(from, fromBal-amount); err != nil {
		return err
	}
	if err := s.setBalance(to, toBal+amount); err != nil {
		return err
	}
	s.record(Entry{Kind: EntryTransfer, From: from, To: to, Amount: amount})
	return nil
}

func applyMint(s balanceState, to TokenAccount, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal, err := s.Balance(to)
	if err != nil {
		return err
	}
	if bal > math.MaxUint64-amount {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, to)
	}
	if err := s.setBalance(to, bal+amount); err != nil {
		return err
	}
	s.record(Entry{Kind: EntryMint, To: to, Amount: amount})
	return nil
}
