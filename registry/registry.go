// Package registry is the NFT registry: it creates service token mints,
// attaches descriptive metadata, and finalizes them as one-of-one editions.
// All calls run inside a caller-owned ledger transaction.
package registry

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

const (
	BucketMints    ledger.Bucket = "mints"
	BucketMetadata ledger.Bucket = "metadata"
)

// MintRecord is the state of one token mint.
type MintRecord struct {
	Authority ledger.Address // zero once the edition is finalized
	Creator   ledger.Address // authority at creation; survives finalization
	Supply    uint64
	Decimals  uint8
	Finalized bool
}

// Metadata is the descriptive data attached to a mint.
type Metadata struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
}

// MintAddress derives the address of the mint created by authority inside
// the ledger transaction txID.
func MintAddress(authority ledger.Address, txID [16]byte) ledger.Address {
	h := sha256.New()
	h.Write([]byte("mint"))
	h.Write(txID[:])
	h.Write(authority[:])
	var a ledger.Address
	copy(a[:], bsvhash.Hash160(h.Sum(nil)))
	return a
}

// CreateMint creates a zero-decimal mint controlled by authority.
func CreateMint(tx ledger.Tx, authority ledger.Address) (ledger.Address, error) {
	mint := MintAddress(authority, tx.ID())
	if _, err := tx.Get(BucketMints, mint[:]); err == nil {
		return mint, fmt.Errorf("%w: %s", ErrMintExists, mint)
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return mint, err
	}
	if err := putGob(tx, BucketMints, mint, &MintRecord{Authority: authority, Creator: authority}); err != nil {
		return mint, err
	}
	return mint, nil
}

// LoadMint reads a mint record.
func LoadMint(tx ledger.Tx, mint ledger.Address) (*MintRecord, error) {
	var rec MintRecord
	if err := getGob(tx, BucketMints, mint, &rec); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMintNotFound, mint)
		}
		return nil, err
	}
	return &rec, nil
}

// MintTo issues amount tokens of mint to owner's token account.
func MintTo(tx ledger.Tx, mint, authority, owner ledger.Address, amount uint64) error {
	rec, err := authorizedMint(tx, mint, authority)
	if err != nil {
		return err
	}
	if err := tx.Mint(ledger.Account(owner, mint), amount); err != nil {
		return err
	}
	rec.Supply += amount
	return putGob(tx, BucketMints, mint, rec)
}

// AttachMetadata attaches descriptive metadata to a mint, once.
func AttachMetadata(tx ledger.Tx, mint, authority ledger.Address, md *Metadata) error {
	if _, err := authorizedMint(tx, mint, authority); err != nil {
		return err
	}
	if _, err := tx.Get(BucketMetadata, mint[:]); err == nil {
		return fmt.Errorf("%w: %s", ErrMetadataExists, mint)
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return err
	}
	return putGob(tx, BucketMetadata, mint, md)
}

// LoadMetadata reads the metadata attached to a mint.
func LoadMetadata(tx ledger.Tx, mint ledger.Address) (*Metadata, error) {
	var md Metadata
	if err := getGob(tx, BucketMetadata, mint, &md); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMetadataMissing, mint)
		}
		return nil, err
	}
	return &md, nil
}

// FinalizeEdition freezes a one-of-one mint: metadata must be attached and
// the supply must be exactly 1. The mint authority is revoked.
func FinalizeEdition(tx ledger.Tx, mint, authority ledger.Address) error {
	rec, err := authorizedMint(tx, mint, authority)
	if err != nil {
		return err
	}
	if _, err := LoadMetadata(tx, mint); err != nil {
		return err
	}
	if rec.Supply != 1 {
		return fmt.Errorf("%w: supply is %d", ErrEditionSupply, rec.Supply)
	}
	rec.Finalized = true
	rec.Authority = ledger.Address{}
	return putGob(tx, BucketMints, mint, rec)
}

func authorizedMint(tx ledger.Tx, mint, authority ledger.Address) (*MintRecord, error) {
	rec, err := LoadMint(tx, mint)
	if err != nil {
		return nil, err
	}
	if rec.Finalized {
		return nil, fmt.Errorf("%w: %s", ErrEditionFinalized, mint)
	}
	if rec.Authority != authority {
		return nil, fmt.Errorf("%w: %s", ErrMintAuthority, mint)
	}
	return rec, nil
}

func putGob(tx ledger.Tx, bucket ledger.Bucket, key ledger.Address, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("registry: encode %s: %w", bucket, err)
	}
	return tx.Put(bucket, key[:], buf.Bytes())
}

func getGob(tx ledger.Tx, bucket ledger.Bucket, key ledger.Address, v interface{}) error {
	data, err := tx.Get(bucket, key[:])
	if err != nil {
		return err
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %w", ledger.ErrCorruptRecord, bucket, err)
	}
	return nil
}
