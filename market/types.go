// Package market holds the marketplace and service records consulted by a
// settlement, the royalty calculator, and the purchase eligibility guard.
package market

import (
	"fmt"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

// Registry field limits.
const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

// Marketplace is the singleton configuration of one deployment.
type Marketplace struct {
	Authority         ledger.Address // account that initialized the marketplace
	RoyaltyPercentage uint8          // basis of brokered-purchase splits, 0..100
}

// Validate checks the royalty percentage range.
func (m *Marketplace) Validate() error {
	if m.RoyaltyPercentage > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidRoyalty, m.RoyaltyPercentage)
	}
	return nil
}

// ServiceNFT is the listing record of one service token.
type ServiceNFT struct {
	Name           string
	Description    string
	Symbol         string
	URI            string
	Soulbound      bool   // permanently non-transferable
	Duration       uint64 // opaque to settlement
	TermsOfService string
	Price          uint64 // required payment, smallest token unit
}

// Validate checks the fields the NFT registry constrains.
func (s *ServiceNFT) Validate() error {
	if len(s.Name) > MaxNameLen {
		return fmt.Errorf("%w: name is %d bytes, max %d", ErrFieldTooLong, len(s.Name), MaxNameLen)
	}
	if len(s.Symbol) > MaxSymbolLen {
		return fmt.Errorf("%w: symbol is %d bytes, max %d", ErrFieldTooLong, len(s.Symbol), MaxSymbolLen)
	}
	if len(s.URI) > MaxURILen {
		return fmt.Errorf("%w: uri is %d bytes, max %d", ErrFieldTooLong, len(s.URI), MaxURILen)
	}
	return nil
}
