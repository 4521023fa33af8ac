package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

// BoltLedger persists balances and records in a bbolt database. Each Update
// is a single bbolt read-write transaction; bbolt admits one writer at a time.
type BoltLedger struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Ledger = (*BoltLedger)(nil)

// OpenBoltLedger opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltLedger(dbPath string) (*BoltLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketBalances)); err != nil {
			return fmt.Errorf("boltledger: create bucket %q: %w", bucketBalances, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// Close closes the underlying database.
func (l *BoltLedger) Close() error { return l.db.Close() }

// Update runs fn inside one bbolt read-write transaction.
func (l *BoltLedger) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.mapErr(l.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{btx: btx, id: uuid.New()})
	}))
}

// View runs fn inside one bbolt read-only transaction.
func (l *BoltLedger) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.mapErr(l.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{btx: btx, id: uuid.New()})
	}))
}

func (l *BoltLedger) mapErr(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

// boltTx implements Tx over a bbolt transaction.
type boltTx struct {
	btx     *bbolt.Tx
	id      uuid.UUID
	journal []Entry
}

func (t *boltTx) ID() uuid.UUID { return t.id }

func (t *boltTx) Balance(acct TokenAccount) (uint64, error) {
	data := t.btx.Bucket([]byte(bucketBalances)).Get(acct.key())
	if data == nil {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: balance of %s is %d bytes", ErrCorruptRecord, acct, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func (t *boltTx) setBalance(acct TokenAccount, v uint64) error {
	if !t.btx.Writable() {
		return ErrReadOnly
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	if err := t.btx.Bucket([]byte(bucketBalances)).Put(acct.key(), buf); err != nil {
		return fmt.Errorf("boltledger: put balance: %w", err)
	}
	return nil
}

func (t *boltTx) record(e Entry) { t.journal = append(t.journal, e) }

func (t *boltTx) Transfer(from, to TokenAccount, authority Authority, amount uint64) error {
	if !t.btx.Writable() {
		return ErrReadOnly
	}
	return applyTransfer(t, from, to, authority, amount)
}

func (t *boltTx) Mint(to TokenAccount, amount uint64) error {
	if !t.btx.Writable() {
		return ErrReadOnly
	}
	return applyMint(t, to, amount)
}

func (t *boltTx) Get(bucket Bucket, key []byte) ([]byte, error) {
	b := t.btx.Bucket([]byte(bucket))
	if b == nil {
		return nil, ErrNotFound
	}
	data := b.Get(key)
	if data == nil {
		return nil, ErrNotFound
	}
	// bbolt memory is only valid for the life of the transaction.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *boltTx) Put(bucket Bucket, key, value []byte) error {
	if !t.btx.Writable() {
		return ErrReadOnly
	}
	if bucket == bucketBalances {
		return fmt.Errorf("%w: %q", ErrReservedBucket, bucket)
	}
	b, err := t.btx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return fmt.Errorf("boltledger: create bucket %q: %w", bucket, err)
	}
	if err := b.Put(key, value); err != nil {
		return fmt.Errorf("boltledger: put %q: %w", bucket, err)
	}
	return nil
}

func (t *boltTx) Journal() []Entry {
	out := make([]Entry, len(t.journal))
	copy(out, t.journal)
	return out
}
