package ledger

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/google/uuid"
)

// AddressSize is the length of an account address (hash160 of a compressed public key).
const AddressSize = 20

// Address identifies an account owner or a token mint.
type Address [AddressSize]byte

// AddressFromPubKey returns hash160 of the compressed public key.
func AddressFromPubKey(pub *ec.PublicKey) Address {
	var a Address
	copy(a[:], bsvhash.Hash160(pub.Compressed()))
	return a
}

// ParseAddress decodes a 40-character hex address.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressSize {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String returns the hex encoding of the address.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// IsZero reports whether the address is unset.
func (a Address) IsZero() bool { return a == Address{} }

// TokenAccount is the balance slot an owner holds for one mint.
type TokenAccount struct {
	Owner Address
	Mint  Address
}

// Account returns the token account of owner for mint.
func Account(owner, mint Address) TokenAccount {
	return TokenAccount{Owner: owner, Mint: mint}
}

func (a TokenAccount) String() string {
	return a.Owner.String() + "/" + a.Mint.String()
}

// key encodes the account as owner(20) || mint(20).
func (a TokenAccount) key() []byte {
	k := make([]byte, 2*AddressSize)
	copy(k[:AddressSize], a.Owner[:])
	copy(k[AddressSize:], a.Mint[:])
	return k
}

// Authority proves the right to debit accounts of an owner within one settlement.
type Authority interface {
	Authorizes(owner Address, settlement uuid.UUID) bool
}

// Signers is the set of owners that signed a request. It authorizes debits of
// their own accounts in any settlement.
type Signers []Address

// Authorizes reports whether owner is among the signers.
func (s Signers) Authorizes(owner Address, _ uuid.UUID) bool {
	for _, a := range s {
		if a == owner {
			return true
		}
	}
	return false
}

// EntryKind distinguishes journal entries.
type EntryKind uint8

const (
	EntryTransfer EntryKind = iota + 1
	EntryMint
)

func (k EntryKind) String() string {
	switch k {
	case EntryTransfer:
		return "transfer"
	case EntryMint:
		return "mint"
	default:
		return fmt.Sprintf("EntryKind(%d)", uint8(k))
	}
}

// Entry is one balance movement applied inside a transaction.
// From is zero for mint entries.
type Entry struct {
	Kind   EntryKind
	From   TokenAccount
	To     TokenAccount
	Amount uint64
}
