package holding

import (
	"crypto/sha256"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/google/uuid"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

const grantDomain = "servicemarket-holding-grant"

// Grant authorizes debits of one holding account inside one settlement.
// It implements ledger.Authority and is never persisted.
type Grant struct {
	account    ledger.Address
	bump       uint8
	settlement uuid.UUID
	pub        *ec.PublicKey
	sig        *ec.Signature
}

// Compile-time interface check.
var _ ledger.Authority = (*Grant)(nil)

// Authorize signs a grant for acct scoped to the settlement id.
func (d *Deriver) Authorize(acct *Account, settlement uuid.UUID) (*Grant, error) {
	if acct == nil {
		return nil, fmt.Errorf("%w: nil account", ErrAccountMismatch)
	}
	priv, err := d.signingKey(acct)
	if err != nil {
		return nil, err
	}
	sig, err := priv.Sign(grantDigest(acct.Address, acct.Bump, settlement))
	if err != nil {
		return nil, fmt.Errorf("holding: sign grant: %w", err)
	}
	return &Grant{
		account:    acct.Address,
		bump:       acct.Bump,
		settlement: settlement,
		pub:        priv.PubKey(),
		sig:        sig,
	}, nil
}

// Account returns the holding account address the grant covers.
func (g *Grant) Account() ledger.Address { return g.account }

// Settlement returns the settlement id the grant is scoped to.
func (g *Grant) Settlement() uuid.UUID { return g.settlement }

// Authorizes reports whether the grant covers owner in this settlement and
// its signature verifies against the derived key.
func (g *Grant) Authorizes(owner ledger.Address, settlement uuid.UUID) bool {
	if g == nil || g.sig == nil || g.pub == nil {
		return false
	}
	if owner != g.account || settlement != g.settlement {
		return false
	}
	if ledger.AddressFromPubKey(g.pub) != g.account {
		return false
	}
	return g.sig.Verify(grantDigest(g.account, g.bump, g.settlement), g.pub)
}

func grantDigest(acct ledger.Address, bump uint8, settlement uuid.UUID) []byte {
	h := sha256.New()
	h.Write([]byte(grantDomain))
	h.Write(acct[:])
	h.Write([]byte{bump})
	h.Write(settlement[:])
	return h.Sum(nil)
}
