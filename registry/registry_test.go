package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

var (
	vendor   = ledger.Address{0xAA}
	stranger = ledger.Address{0x55}
)

func testMetadata() *Metadata {
	return &Metadata{Name: "Tutoring", Symbol: "TUTOR", URI: "https://example.com/t.json"}
}

func TestListingSequence(t *testing.T) {
	l := ledger.NewMemLedger()
	ctx := context.Background()

	var mint ledger.Address
	require.NoError(t, l.Update(ctx, func(tx ledger.Tx) error {
		var err error
		mint, err = CreateMint(tx, vendor)
		require.NoError(t, err)
		require.NoError(t, MintTo(tx, mint, vendor, vendor, 1))
		require.NoError(t, AttachMetadata(tx, mint, vendor, testMetadata()))
		return FinalizeEdition(tx, mint, vendor)
	}))

	require.NoError(t, l.View(ctx, func(tx ledger.Tx) error {
		rec, err := LoadMint(tx, mint)
		require.NoError(t, err)
		assert.True(t, rec.Finalized)
		assert.Equal(t, uint64(1), rec.Supply)
		assert.True(t, rec.Authority.IsZero())
		assert.Equal(t, vendor, rec.Creator, "creator survives finalization")

		md, err := LoadMetadata(tx, mint)
		require.NoError(t, err)
		assert.Equal(t, testMetadata(), md)

		bal, err := tx.Balance(ledger.Account(vendor, mint))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), bal)
		return nil
	}))

	// A finalized edition cannot be minted again.
	err := l.Update(ctx, func(tx ledger.Tx) error {
		return MintTo(tx, mint, vendor, vendor, 1)
	})
	assert.ErrorIs(t, err, ErrEditionFinalized)
}

func TestMintErrors(t *testing.T) {
	l := ledger.NewMemLedger()
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func(tx ledger.Tx, mint ledger.Address) error
		wantErr error
	}{
		{"mint by stranger", func(tx ledger.Tx, mint ledger.Address) error {
			return MintTo(tx, mint, stranger, stranger, 1)
		}, ErrMintAuthority},
		{"metadata by stranger", func(tx ledger.Tx, mint ledger.Address) error {
			return AttachMetadata(tx, mint, stranger, testMetadata())
		}, ErrMintAuthority},
		{"metadata twice", func(tx ledger.Tx, mint ledger.Address) error {
			require.NoError(t, AttachMetadata(tx, mint, vendor, testMetadata()))
			return AttachMetadata(tx, mint, vendor, testMetadata())
		}, ErrMetadataExists},
		{"finalize without metadata", func(tx ledger.Tx, mint ledger.Address) error {
			require.NoError(t, MintTo(tx, mint, vendor, vendor, 1))
			return FinalizeEdition(tx, mint, vendor)
		}, ErrMetadataMissing},
		{"finalize with supply 2", func(tx ledger.Tx, mint ledger.Address) error {
			require.NoError(t, MintTo(tx, mint, vendor, vendor, 2))
			require.NoError(t, AttachMetadata(tx, mint, vendor, testMetadata()))
			return FinalizeEdition(tx, mint, vendor)
		}, ErrEditionSupply},
		{"unknown mint", func(tx ledger.Tx, _ ledger.Address) error {
			return MintTo(tx, ledger.Address{0x01}, vendor, vendor, 1)
		}, ErrMintNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Update(ctx, func(tx ledger.Tx) error {
				mint, err := CreateMint(tx, vendor)
				require.NoError(t, err)
				return tt.run(tx, mint)
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateMint_UniquePerTransaction(t *testing.T) {
	l := ledger.NewMemLedger()
	ctx := context.Background()

	var first, second ledger.Address
	require.NoError(t, l.Update(ctx, func(tx ledger.Tx) error {
		var err error
		first, err = CreateMint(tx, vendor)
		return err
	}))
	require.NoError(t, l.Update(ctx, func(tx ledger.Tx) error {
		var err error
		second, err = CreateMint(tx, vendor)
		return err
	}))
	assert.NotEqual(t, first, second)

	err := l.Update(ctx, func(tx ledger.Tx) error {
		if _, err := CreateMint(tx, vendor); err != nil {
			return err
		}
		_, err := CreateMint(tx, vendor)
		return err
	})
	assert.ErrorIs(t, err, ErrMintExists)
}
