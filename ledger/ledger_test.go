package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAddr(seed byte) Address {
	var a Address
	for i := range a {
		a[i] = seed
	}
	return a
}

// forEachBackend runs fn against a fresh MemLedger and a fresh BoltLedger.
func forEachBackend(t *testing.T, fn func(t *testing.T, l Ledger)) {
	t.Run("mem", func(t *testing.T) {
		l := NewMemLedger()
		defer l.Close()
		fn(t, l)
	})
	t.Run("bolt", func(t *testing.T) {
		l, err := OpenBoltLedger(filepath.Join(t.TempDir(), "sub", "ledger.db"))
		require.NoError(t, err)
		defer l.Close()
		fn(t, l)
	})
}

func balanceOf(t *testing.T, l Ledger, acct TokenAccount) uint64 {
	t.Helper()
	var bal uint64
	require.NoError(t, l.View(context.Background(), func(tx Tx) error {
		var err error
		bal, err = tx.Balance(acct)
		return err
	}))
	return bal
}

func fund(t *testing.T, l Ledger, acct TokenAccount, amount uint64) {
	t.Helper()
	require.NoError(t, l.Update(context.Background(), func(tx Tx) error {
		return tx.Mint(acct, amount)
	}))
}

// settlementAuthority authorizes one owner inside one transaction only.
type settlementAuthority struct {
	owner Address
	id    uuid.UUID
}

func (a settlementAuthority) Authorizes(owner Address, id uuid.UUID) bool {
	return owner == a.owner && id == a.id
}

func TestTransfer(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)

	forEachBackend(t, func(t *testing.T, l Ledger) {
		fund(t, l, alice, 1000)

		err := l.Update(context.Background(), func(tx Tx) error {
			return tx.Transfer(alice, bob, Signers{alice.Owner}, 400)
		})
		require.NoError(t, err)

		assert.Equal(t, uint64(600), balanceOf(t, l, alice))
		assert.Equal(t, uint64(400), balanceOf(t, l, bob))
	})
}

func TestTransferErrors(t *testing.T) {
	mint := makeAddr(0xEE)
	other := makeAddr(0xEF)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)

	tests := []struct {
		name      string
		from, to  TokenAccount
		authority Authority
		amount    uint64
		wantErr   error
	}{
		{"nil authority", alice, bob, nil, 1, ErrUnauthorized},
		{"wrong signer", alice, bob, Signers{bob.Owner}, 1, ErrUnauthorized},
		{"mint mismatch", alice, Account(bob.Owner, other), Signers{alice.Owner}, 1, ErrMintMismatch},
		{"insufficient", alice, bob, Signers{alice.Owner}, 101, ErrInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forEachBackend(t, func(t *testing.T, l Ledger) {
				fund(t, l, alice, 100)
				err := l.Update(context.Background(), func(tx Tx) error {
					return tx.Transfer(tt.from, tt.to, tt.authority, tt.amount)
				})
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, uint64(100), balanceOf(t, l, alice))
				assert.Equal(t, uint64(0), balanceOf(t, l, bob))
			})
		})
	}
}

func TestTransferZeroAndSelfAreNoOps(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)

	forEachBackend(t, func(t *testing.T, l Ledger) {
		fund(t, l, alice, 10)
		err := l.Update(context.Background(), func(tx Tx) error {
			if err := tx.Transfer(alice, bob, Signers{alice.Owner}, 0); err != nil {
				return err
			}
			if err := tx.Transfer(alice, alice, Signers{alice.Owner}, 10); err != nil {
				return err
			}
			assert.Empty(t, tx.Journal())
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(10), balanceOf(t, l, alice))
	})
}

func TestUpdateRollsBackAllEffects(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)
	carol := Account(makeAddr(0xC0), mint)

	forEachBackend(t, func(t *testing.T, l Ledger) {
		fund(t, l, alice, 100)

		err := l.Update(context.Background(), func(tx Tx) error {
			require.NoError(t, tx.Transfer(alice, bob, Signers{alice.Owner}, 60))
			require.NoError(t, tx.Put("notes", []byte("k"), []byte("v")))
			// bob has 60; asking for 61 fails and must undo the first leg.
			return tx.Transfer(bob, carol, Signers{bob.Owner}, 61)
		})
		require.ErrorIs(t, err, ErrInsufficientBalance)

		assert.Equal(t, uint64(100), balanceOf(t, l, alice))
		assert.Equal(t, uint64(0), balanceOf(t, l, bob))
		assert.Equal(t, uint64(0), balanceOf(t, l, carol))

		err = l.View(context.Background(), func(tx Tx) error {
			_, err := tx.Get("notes", []byte("k"))
			return err
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemLedgerRollsBackOnPanic(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)

	l := NewMemLedger()
	fund(t, l, alice, 5)

	assert.Panics(t, func() {
		_ = l.Update(context.Background(), func(tx Tx) error {
			_ = tx.Transfer(alice, bob, Signers{alice.Owner}, 5)
			panic("boom")
		})
	})
	assert.Equal(t, uint64(5), balanceOf(t, l, alice))
	assert.Equal(t, uint64(0), balanceOf(t, l, bob))
}

func TestAuthorityScopedToTransaction(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)

	forEachBackend(t, func(t *testing.T, l Ledger) {
		fund(t, l, alice, 10)

		var first uuid.UUID
		require.NoError(t, l.Update(context.Background(), func(tx Tx) error {
			first = tx.ID()
			return tx.Transfer(alice, bob, settlementAuthority{alice.Owner, tx.ID()}, 1)
		}))

		err := l.Update(context.Background(), func(tx Tx) error {
			assert.NotEqual(t, first, tx.ID())
			return tx.Transfer(alice, bob, settlementAuthority{alice.Owner, first}, 1)
		})
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Equal(t, uint64(9), balanceOf(t, l, alice))
	})
}

func TestViewIsReadOnly(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)

	forEachBackend(t, func(t *testing.T, l Ledger) {
		err := l.View(context.Background(), func(tx Tx) error {
			return tx.Mint(alice, 1)
		})
		assert.ErrorIs(t, err, ErrReadOnly)

		err = l.View(context.Background(), func(tx Tx) error {
			return tx.Put("x", []byte("k"), []byte("v"))
		})
		assert.ErrorIs(t, err, ErrReadOnly)
	})
}

func TestPutReservedBucket(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l Ledger) {
		err := l.Update(context.Background(), func(tx Tx) error {
			return tx.Put(bucketBalances, []byte("k"), []byte("v"))
		})
		assert.ErrorIs(t, err, ErrReservedBucket)
	})
}

func TestMintOverflow(t *testing.T) {
	acct := Account(makeAddr(0xA1), makeAddr(0xEE))
	forEachBackend(t, func(t *testing.T, l Ledger) {
		fund(t, l, acct, ^uint64(0))
		err := l.Update(context.Background(), func(tx Tx) error {
			return tx.Mint(acct, 1)
		})
		assert.ErrorIs(t, err, ErrBalanceOverflow)
	})
}

func TestJournalRecordsLegsInOrder(t *testing.T) {
	mint := makeAddr(0xEE)
	alice := Account(makeAddr(0xA1), mint)
	bob := Account(makeAddr(0xB0), mint)

	forEachBackend(t, func(t *testing.T, l Ledger) {
		require.NoError(t, l.Update(context.Background(), func(tx Tx) error {
			require.NoError(t, tx.Mint(alice, 7))
			require.NoError(t, tx.Transfer(alice, bob, Signers{alice.Owner}, 3))
			j := tx.Journal()
			require.Len(t, j, 2)
			assert.Equal(t, EntryMint, j[0].Kind)
			assert.Equal(t, Entry{Kind: EntryTransfer, From: alice, To: bob, Amount: 3}, j[1])
			return nil
		}))
	})
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	forEachBackend(t, func(t *testing.T, l Ledger) {
		called := false
		err := l.Update(ctx, func(tx Tx) error {
			called = true
			return nil
		})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, called)
	})
}

func TestClosedLedger(t *testing.T) {
	l := NewMemLedger()
	require.NoError(t, l.Close())
	err := l.Update(context.Background(), func(tx Tx) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBoltLedgerPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	acct := Account(makeAddr(0xA1), makeAddr(0xEE))

	l, err := OpenBoltLedger(path)
	require.NoError(t, err)
	fund(t, l, acct, 42)
	require.NoError(t, l.Close())

	l, err = OpenBoltLedger(path)
	require.NoError(t, err)
	defer l.Close()
	assert.Equal(t, uint64(42), balanceOf(t, l, acct))
}

func TestParseAddress(t *testing.T) {
	a := makeAddr(0xAB)
	got, err := ParseAddress(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = ParseAddress("zz")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	_, err = ParseAddress("abcd")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	assert.True(t, Address{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestAddressFromPubKey(t *testing.T) {
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	a := AddressFromPubKey(priv.PubKey())
	assert.False(t, a.IsZero())
	assert.Equal(t, a, AddressFromPubKey(priv.PubKey()))
}
