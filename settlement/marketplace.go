package settlement

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/libservicemarket-go/ledger"
	"github.com/bitfsorg/libservicemarket-go/market"
	"github.com/bitfsorg/libservicemarket-go/registry"
)

// InitializeMarketplace writes the marketplace singleton with the configured
// royalty percentage. It fails with ErrMarketplaceExists on a second call.
func (e *Engine) InitializeMarketplace(ctx context.Context, authority ledger.Address) (*market.Marketplace, error) {
	if authority.IsZero() {
		return nil, fmt.Errorf("%w: missing authority", ErrInvalidRequest)
	}
	m := &market.Marketplace{Authority: authority, RoyaltyPercentage: e.royalty}
	err := e.ledger.Update(ctx, func(tx ledger.Tx) error {
		_, err := market.LoadMarketplace(tx)
		switch {
		case err == nil:
			return ErrMarketplaceExists
		case !errors.Is(err, market.ErrMarketplaceNotFound):
			return err
		}
		return market.SaveMarketplace(tx, m)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("marketplace initialized",
		zap.Stringer("authority", authority),
		zap.Uint8("royalty_percentage", m.RoyaltyPercentage),
	)
	return m, nil
}

// Marketplace reads the marketplace singleton.
func (e *Engine) Marketplace(ctx context.Context) (*market.Marketplace, error) {
	var m *market.Marketplace
	err := e.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		m, err = market.LoadMarketplace(tx)
		return err
	})
	return m, err
}

// ListRequest lists a service on behalf of a vendor.
type ListRequest struct {
	Vendor  ledger.Address
	Service market.ServiceNFT
}

// ListService creates the service token: a new mint, one token issued to the
// vendor, its metadata, and a finalized one-of-one edition. The listing
// record is stored under the returned mint address.
func (e *Engine) ListService(ctx context.Context, req ListRequest) (ledger.Address, error) {
	var mint ledger.Address
	if req.Vendor.IsZero() {
		return mint, fmt.Errorf("%w: missing vendor", ErrInvalidRequest)
	}
	svc := req.Service
	if err := svc.Validate(); err != nil {
		return mint, err
	}

	err := e.ledger.Update(ctx, func(tx ledger.Tx) error {
		var err error
		if mint, err = registry.CreateMint(tx, req.Vendor); err != nil {
			return err
		}
		if err := registry.MintTo(tx, mint, req.Vendor, req.Vendor, 1); err != nil {
			return err
		}
		md := &registry.Metadata{Name: svc.Name, Symbol: svc.Symbol, URI: svc.URI}
		if err := registry.AttachMetadata(tx, mint, req.Vendor, md); err != nil {
			return err
		}
		if err := registry.FinalizeEdition(tx, mint, req.Vendor); err != nil {
			return err
		}
		return market.SaveService(tx, mint, &svc)
	})
	if err != nil {
		e.log.Warn("service listing aborted", zap.Stringer("vendor", req.Vendor), zap.Error(err))
		return ledger.Address{}, err
	}

	if e.services != nil {
		e.services.Add(mint, listing{Service: svc, Vendor: req.Vendor})
	}
	e.log.Info("service listed",
		zap.Stringer("mint", mint),
		zap.Stringer("vendor", req.Vendor),
		zap.String("name", svc.Name),
		zap.Uint64("price", svc.Price),
		zap.Bool("soulbound", svc.Soulbound),
	)
	return mint, nil
}

// Service reads the listing of mint.
func (e *Engine) Service(ctx context.Context, mint ledger.Address) (*market.ServiceNFT, error) {
	var svc *market.ServiceNFT
	err := e.ledger.View(ctx, func(tx ledger.Tx) error {
		l, err := e.listing(tx, mint)
		if err != nil {
			return err
		}
		svc = &l.Service
		return nil
	})
	return svc, err
}
