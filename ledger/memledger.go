package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemLedger is an in-memory Ledger. Update keeps an undo log of every write
// and replays it in reverse when the callback fails or panics.
type MemLedger struct {
	mu       sync.RWMutex
	balances map[TokenAccount]uint64
	records  map[Bucket]map[string][]byte
	closed   bool
}

// Compile-time interface check.
var _ Ledger = (*MemLedger)(nil)

// NewMemLedger creates an empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		balances: make(map[TokenAccount]uint64),
		records:  make(map[Bucket]map[string][]byte),
	}
}

// Close marks the ledger closed; later transactions fail with ErrClosed.
func (l *MemLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Update runs fn under the write lock and rolls back on error or panic.
func (l *MemLedger) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	t := &memTx{l: l, id: uuid.New(), writable: true}
	committed := false
	defer func() {
		if !committed {
			t.rollback()
		}
	}()

	if err := fn(t); err != nil {
		return err
	}
	committed = true
	return nil
}

// View runs fn under the read lock.
func (l *MemLedger) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	return fn(&memTx{l: l, id: uuid.New()})
}

// memTx implements Tx over MemLedger maps. The caller holds the ledger lock.
type memTx struct {
	l        *MemLedger
	id       uuid.UUID
	writable bool
	undo     []func()
	journal  []Entry
}

func (t *memTx) ID() uuid.UUID { return t.id }

func (t *memTx) Balance(acct TokenAccount) (uint64, error) {
	return t.l.balances[acct], nil
}

func (t *memTx) setBalance(acct TokenAccount, v uint64) error {
	if !t.writable {
		return ErrReadOnly
	}
	prev, existed := t.l.balances[acct]
	t.undo = append(t.undo, func() {
		if existed {
			t.l.balances[acct] = prev
		} else {
			delete(t.l.balances, acct)
		}
	})
	t.l.balances[acct] = v
	return nil
}

func (t *memTx) record(e Entry) { t.journal = append(t.journal, e) }

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.journal = nil
}

func (t *memTx) Transfer(from, to TokenAccount, authority Authority, amount uint64) error {
	if !t.writable {
		return ErrReadOnly
	}
	return applyTransfer(t, from, to, authority, amount)
}

func (t *memTx) Mint(to TokenAccount, amount uint64) error {
	if !t.writable {
		return ErrReadOnly
	}
	return applyMint(t, to, amount)
}

func (t *memTx) Get(bucket Bucket, key []byte) ([]byte, error) {
	data, ok := t.l.records[bucket][string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *memTx) Put(bucket Bucket, key, value []byte) error {
	if !t.writable {
		return ErrReadOnly
	}
	if bucket == bucketBalances {
		return fmt.Errorf("%w: %q", ErrReservedBucket, bucket)
	}

	b, ok := t.l.records[bucket]
	if !ok {
		b = make(map[string][]byte)
		t.l.records[bucket] = b
	}
	k := string(key)
	prev, existed := b[k]
	t.undo = append(t.undo, func() {
		if existed {
			b[k] = prev
		} else {
			delete(b, k)
		}
	})

	v := make([]byte, len(value))
	copy(v, value)
	b[k] = v
	return nil
}

func (t *memTx) Journal() []Entry {
	out := make([]Entry, len(t.journal))
	copy(out, t.journal)
	return out
}
