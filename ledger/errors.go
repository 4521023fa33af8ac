package ledger

import "errors"

var (
	// ErrInsufficientBalance indicates the debited account holds less than the transfer amount.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrUnauthorized indicates the authority presented for a debit does not control the account.
	ErrUnauthorized = errors.New("ledger: unauthorized")

	// ErrMintMismatch indicates source and destination accounts belong to different mints.
	ErrMintMismatch = errors.New("ledger: token account mint mismatch")

	// ErrBalanceOverflow indicates a credit would overflow the destination balance.
	ErrBalanceOverflow = errors.New("ledger: balance overflow")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("ledger: record not found")

	// ErrReadOnly indicates a write was attempted inside a read-only transaction.
	ErrReadOnly = errors.New("ledger: read-only transaction")

	// ErrReservedBucket indicates a record write targeted a bucket owned by the ledger.
	ErrReservedBucket = errors.New("ledger: reserved bucket")

	// ErrCorruptRecord indicates a stored value failed to decode.
	ErrCorruptRecord = errors.New("ledger: corrupt record")

	// ErrInvalidAddress indicates an address string is not 20 hex-encoded bytes.
	ErrInvalidAddress = errors.New("ledger: invalid address")

	// ErrClosed indicates the ledger has been closed.
	ErrClosed = errors.New("ledger: closed")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")
)
