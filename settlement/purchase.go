package settlement

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/libservicemarket-go/ledger"
	"github.com/bitfsorg/libservicemarket-go/market"
)

// DirectPurchase buys a service straight from its vendor.
type DirectPurchase struct {
	Mint        ledger.Address // service token mint
	TokenAmount uint64         // payment presented; must equal the price
	NFTAmount   uint64         // service tokens delivered to the buyer
	Buyer       ledger.Address
	Vendor      ledger.Address // must be the vendor that listed Mint
	Signers     ledger.Signers // must include Buyer and Vendor
}

// BrokeredPurchase is a purchase mediated by a third party. The payment is
// split into a net amount and a royalty routed through the holding account.
type BrokeredPurchase struct {
	Mint        ledger.Address
	TokenAmount uint64
	NFTAmount   uint64
	Buyer       ledger.Address
	ThirdParty  ledger.Address
	Vendor      ledger.Address // must be the vendor that listed Mint; receives the royalty
	// Holding, when set, must equal the derived holding account.
	Holding ledger.Address
	Signers ledger.Signers // must include ThirdParty and Buyer
}

// PurchaseDirect settles a direct purchase:
//
//  1. the eligibility guard checks TokenAmount against the listing
//  2. TokenAmount of payment moves from buyer to vendor
//  3. NFTAmount of the service token moves from vendor to buyer
func (e *Engine) PurchaseDirect(ctx context.Context, req DirectPurchase) (*Receipt, error) {
	if req.Mint.IsZero() || req.Buyer.IsZero() || req.Vendor.IsZero() {
		return nil, e.abort(ModeDirect, req.Mint, fmt.Errorf("%w: mint, buyer and vendor are required", ErrInvalidRequest))
	}
	if err := e.checkParties(req.Buyer, req.Vendor); err != nil {
		return nil, e.abort(ModeDirect, req.Mint, err)
	}

	return e.settle(ctx, ModeDirect, req.Mint, func(tx ledger.Tx, r *Receipt) error {
		if _, err := market.LoadMarketplace(tx); err != nil {
			return err
		}
		l, err := e.listing(tx, req.Mint)
		if err != nil {
			return err
		}
		if err := market.CheckEligibility(req.TokenAmount, &l.Service); err != nil {
			return err
		}
		if req.Vendor != l.Vendor {
			return fmt.Errorf("%w: vendor %s did not list %s", ErrInvalidRequest, req.Vendor, req.Mint)
		}

		r.TokenAmount = req.TokenAmount
		r.NFTAmount = req.NFTAmount
		r.Net = req.TokenAmount

		if err := e.pay(tx, "buyer->vendor", req.Buyer, req.Vendor, req.Signers, req.TokenAmount); err != nil {
			return err
		}
		return e.deliver(tx, "vendor->buyer", req.Mint, req.Vendor, req.Buyer, req.Signers, req.NFTAmount)
	})
}

// PurchaseBrokered settles a brokered purchase. The legs run in this fixed
// order, skipping zero amounts:
//
//  1. the eligibility guard checks TokenAmount against the listing
//  2. (royalty, net) = market.Split(TokenAmount, marketplace royalty)
//  3. net payment moves from the third party to the buyer
//  4. royalty payment moves from the third party to the holding account
//  5. royalty payment moves from the holding account to the vendor,
//     authorized by a grant scoped to this settlement
//  6. NFTAmount of the service token moves from the buyer to the third party
func (e *Engine) PurchaseBrokered(ctx context.Context, req BrokeredPurchase) (*Receipt, error) {
	if req.Mint.IsZero() || req.Buyer.IsZero() || req.ThirdParty.IsZero() || req.Vendor.IsZero() {
		return nil, e.abort(ModeBrokered, req.Mint, fmt.Errorf("%w: mint, buyer, third party and vendor are required", ErrInvalidRequest))
	}
	if err := e.checkParties(req.Buyer, req.ThirdParty, req.Vendor); err != nil {
		return nil, e.abort(ModeBrokered, req.Mint, err)
	}

	return e.settle(ctx, ModeBrokered, req.Mint, func(tx ledger.Tx, r *Receipt) error {
		mkt, err := market.LoadMarketplace(tx)
		if err != nil {
			return err
		}
		l, err := e.listing(tx, req.Mint)
		if err != nil {
			return err
		}
		if err := market.CheckEligibility(req.TokenAmount, &l.Service); err != nil {
			return err
		}
		if req.Vendor != l.Vendor {
			return fmt.Errorf("%w: vendor %s did not list %s", ErrInvalidRequest, req.Vendor, req.Mint)
		}
		holdingAddr := e.vault.Address
		if !req.Holding.IsZero() && req.Holding != holdingAddr {
			return fmt.Errorf("%w: got %s, derived %s", ErrHoldingMismatch, req.Holding, holdingAddr)
		}

		royalty, net := market.Split(req.TokenAmount, mkt.RoyaltyPercentage)
		if err := market.ValidateSplit(req.TokenAmount, mkt.RoyaltyPercentage, royalty, net); err != nil {
			return err
		}
		r.TokenAmount = req.TokenAmount
		r.NFTAmount = req.NFTAmount
		r.Royalty = royalty
		r.Net = net
		r.Holding = holdingAddr

		if err := e.pay(tx, "third party->buyer", req.ThirdParty, req.Buyer, req.Signers, net); err != nil {
			return err
		}
		if err := e.pay(tx, "third party->holding", req.ThirdParty, holdingAddr, req.Signers, royalty); err != nil {
			return err
		}
		if royalty > 0 {
			grant, err := e.deriver.Authorize(e.vault, tx.ID())
			if err != nil {
				return fmt.Errorf("settlement: holding authorization: %w", err)
			}
			if err := e.pay(tx, "holding->vendor", holdingAddr, req.Vendor, grant, royalty); err != nil {
				return err
			}
		}
		return e.deliver(tx, "buyer->third party", req.Mint, req.Buyer, req.ThirdParty, req.Signers, req.NFTAmount)
	})
}

// checkParties rejects requests naming the holding account as a party. It is
// debited only under a grant.
func (e *Engine) checkParties(parties ...ledger.Address) error {
	for _, p := range parties {
		if p == e.vault.Address {
			return fmt.Errorf("%w: holding account %s cannot be a party", ErrInvalidRequest, p)
		}
	}
	return nil
}

// settle runs fn in one ledger Update and stores the receipt alongside the
// transfers. Failures are logged and counted, then returned unchanged.
func (e *Engine) settle(ctx context.Context, mode Mode, mint ledger.Address, fn func(tx ledger.Tx, r *Receipt) error) (*Receipt, error) {
	var receipt *Receipt
	err := e.ledger.Update(ctx, func(tx ledger.Tx) error {
		r := &Receipt{ID: tx.ID(), Mode: mode, Mint: mint}
		if err := fn(tx, r); err != nil {
			return err
		}
		if legs := tx.Journal(); len(legs) > 0 {
			r.Legs = legs
		}
		if err := saveReceipt(tx, r); err != nil {
			return err
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, e.abort(mode, mint, err)
	}

	e.metrics.committed(receipt)
	e.log.Info("settlement committed",
		zap.Stringer("id", receipt.ID),
		zap.String("mode", string(mode)),
		zap.Stringer("mint", mint),
		zap.Uint64("token_amount", receipt.TokenAmount),
		zap.Uint64("nft_amount", receipt.NFTAmount),
		zap.Uint64("royalty", receipt.Royalty),
		zap.Uint64("net", receipt.Net),
		zap.Int("legs", len(receipt.Legs)),
	)
	return receipt, nil
}

func (e *Engine) abort(mode Mode, mint ledger.Address, err error) error {
	e.metrics.aborted(mode, err)
	e.log.Warn("settlement aborted",
		zap.String("mode", string(mode)),
		zap.Stringer("mint", mint),
		zap.Error(err),
	)
	return err
}

// pay moves amount of the payment token between owners.
func (e *Engine) pay(tx ledger.Tx, leg string, from, to ledger.Address, auth ledger.Authority, amount uint64) error {
	return e.transfer(tx, leg, e.paymentMint, from, to, auth, amount)
}

// deliver moves amount of the service token between owners.
func (e *Engine) deliver(tx ledger.Tx, leg string, mint, from, to ledger.Address, auth ledger.Authority, amount uint64) error {
	return e.transfer(tx, leg, mint, from, to, auth, amount)
}

func (e *Engine) transfer(tx ledger.Tx, leg string, mint, from, to ledger.Address, auth ledger.Authority, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := tx.Transfer(ledger.Account(from, mint), ledger.Account(to, mint), auth, amount); err != nil {
		return fmt.Errorf("settlement: %s: %w", leg, err)
	}
	return nil
}
