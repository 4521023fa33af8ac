// Package holding derives program-owned holding accounts and the short-lived
// grants that authorize debits from them.
//
// A holding account has no stored key. Its key is the BIP32 child
//
//	m/44'/236'/0'/index
//
// where index = HKDF-SHA256(seed, bump, "servicemarket-holding-account") with
// the hardened bit cleared. Because the last step is non-hardened, anyone with
// the program's account xpub can recompute the address, while only the holder
// of the program seed can sign for it.
package holding

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
	"golang.org/x/crypto/hkdf"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

const (
	// BIP44 path constants.
	PurposeBIP44   = 44
	CoinType       = 236
	ProgramAccount = 0

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000

	// VaultSeed is the fixed, public seed of the royalty holding account.
	VaultSeed = "vault"

	// HKDFInfo is the info string for child index expansion.
	HKDFInfo = "servicemarket-holding-account"

	// MaxBump is where the canonical bump search starts.
	MaxBump = 255
)

// Account is a derived holding account.
type Account struct {
	Address ledger.Address
	Bump    uint8
	Index   uint32 // non-hardened BIP32 child index
	PubKey  *ec.PublicKey
	Path    string
}

// Deriver derives holding accounts below the program account key.
type Deriver struct {
	account *bip32.ExtendedKey // m/44'/236'/0', private or public
}

// NewDeriver creates a signing Deriver from the program seed.
func NewDeriver(programSeed []byte, network string) (*Deriver, error) {
	if len(programSeed) == 0 {
		return nil, ErrInvalidSeed
	}
	net, err := chainParams(network)
	if err != nil {
		return nil, err
	}

	master, err := bip32.NewMaster(programSeed, net)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}

	// m/44'/236'/0'
	key := master
	for _, idx := range []uint32{PurposeBIP44, CoinType, ProgramAccount} {
		key, err = key.Child(idx + Hardened)
		if err != nil {
			return nil, fmt.Errorf("%w: program account: %w", ErrDerivationFailed, err)
		}
	}
	return &Deriver{account: key}, nil
}

// NewPublicDeriver creates a Deriver from a serialized account key. A public
// (xpub) key can derive addresses but cannot Authorize.
func NewPublicDeriver(xkey string) (*Deriver, error) {
	key, err := bip32.NewKeyFromString(xkey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Deriver{account: key}, nil
}

// Xpub returns the serialized public program account key.
func (d *Deriver) Xpub() (string, error) {
	pub, err := d.account.Neuter()
	if err != nil {
		return "", fmt.Errorf("%w: neuter: %w", ErrDerivationFailed, err)
	}
	return pub.String(), nil
}

// CanSign reports whether the deriver holds the private program key.
func (d *Deriver) CanSign() bool { return d.account.IsPrivate() }

// Derive finds the canonical holding account for seed: the first bump,
// searching down from 255, whose child key derives.
func (d *Deriver) Derive(seed []byte) (*Account, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	for bump := MaxBump; bump >= 0; bump-- {
		acct, err := d.deriveAt(seed, uint8(bump))
		if err == nil {
			return acct, nil
		}
	}
	return nil, ErrNoViableBump
}

func (d *Deriver) deriveAt(seed []byte, bump uint8) (*Account, error) {
	index, err := childIndex(seed, bump)
	if err != nil {
		return nil, err
	}
	child, err := d.account.Child(index)
	if err != nil {
		return nil, fmt.Errorf("%w: child %d: %w", ErrDerivationFailed, index, err)
	}
	pub, err := child.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %w", ErrDerivationFailed, err)
	}
	return &Account{
		Address: ledger.AddressFromPubKey(pub),
		Bump:    bump,
		Index:   index,
		PubKey:  pub,
		Path:    fmt.Sprintf("m/%d'/%d'/%d'/%d", PurposeBIP44, CoinType, ProgramAccount, index),
	}, nil
}

// signingKey returns the private key of a derived account.
func (d *Deriver) signingKey(acct *Account) (*ec.PrivateKey, error) {
	if !d.CanSign() {
		return nil, ErrPublicOnly
	}
	child, err := d.account.Child(acct.Index)
	if err != nil {
		return nil, fmt.Errorf("%w: child %d: %w", ErrDerivationFailed, acct.Index, err)
	}
	priv, err := child.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %w", ErrDerivationFailed, err)
	}
	if ledger.AddressFromPubKey(priv.PubKey()) != acct.Address {
		return nil, ErrAccountMismatch
	}
	return priv, nil
}

// childIndex expands (seed, bump) into a non-hardened BIP32 index.
func childIndex(seed []byte, bump uint8) (uint32, error) {
	r := hkdf.New(sha256.New, seed, []byte{bump}, []byte(HKDFInfo))
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return binary.BigEndian.Uint32(buf[:]) &^ Hardened, nil
}

func chainParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "", "mainnet":
		return &chaincfg.MainNet, nil
	case "testnet", "regtest":
		return &chaincfg.TestNet, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, network)
	}
}
