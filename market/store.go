package market

import (
	"errors"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

const (
	BucketMarketplace ledger.Bucket = "marketplace"
	BucketServices    ledger.Bucket = "services"
)

// marketplaceKey is the fixed seed of the singleton record.
var marketplaceKey = []byte("servicemarketplace")

// LoadMarketplace reads the marketplace singleton.
func LoadMarketplace(tx ledger.Tx) (*Marketplace, error) {
	data, err := tx.Get(BucketMarketplace, marketplaceKey)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrMarketplaceNotFound
	}
	if err != nil {
		return nil, err
	}
	return DeserializeMarketplace(data)
}

// SaveMarketplace writes the marketplace singleton.
func SaveMarketplace(tx ledger.Tx, m *Marketplace) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return tx.Put(BucketMarketplace, marketplaceKey, SerializeMarketplace(m))
}

// LoadService reads the service listed under mint.
func LoadService(tx ledger.Tx, mint ledger.Address) (*ServiceNFT, error) {
	data, err := tx.Get(BucketServices, mint[:])
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return DeserializeService(data)
}

// SaveService writes the service record for mint.
func SaveService(tx ledger.Tx, mint ledger.Address, s *ServiceNFT) error {
	data, err := SerializeService(s)
	if err != nil {
		return err
	}
	return tx.Put(BucketServices, mint[:], data)
}
