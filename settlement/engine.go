// Package settlement executes service purchases against the ledger.
//
// Every operation runs inside one ledger Update: the eligibility check, each
// transfer leg, and the settlement receipt commit together or not at all.
// The engine holds no locks of its own; conflicting settlements are
// serialized by the ledger backend.
package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/bitfsorg/libservicemarket-go/config"
	"github.com/bitfsorg/libservicemarket-go/holding"
	"github.com/bitfsorg/libservicemarket-go/ledger"
	"github.com/bitfsorg/libservicemarket-go/logging"
	"github.com/bitfsorg/libservicemarket-go/market"
	"github.com/bitfsorg/libservicemarket-go/registry"
)

// Options configures an Engine.
type Options struct {
	// PaymentMint is the mint of the fungible payment token. Required.
	PaymentMint ledger.Address

	// RoyaltyPercentage is written to the marketplace record by
	// InitializeMarketplace. Purchases read the stored record.
	RoyaltyPercentage uint8

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger

	// Metrics may be nil.
	Metrics *Metrics

	// ServiceCacheSize bounds the listed-service cache; 0 disables it.
	ServiceCacheSize int
}

// Engine is the settlement executor.
type Engine struct {
	ledger      ledger.Ledger
	deriver     *holding.Deriver
	vault       *holding.Account
	paymentMint ledger.Address
	royalty     uint8
	services    *lru.Cache[ledger.Address, listing]
	log         *zap.Logger
	metrics     *Metrics
}

// New creates an Engine over l. The royalty holding account is derived from
// holding.VaultSeed once; its authorization is produced per settlement.
func New(l ledger.Ledger, d *holding.Deriver, opts Options) (*Engine, error) {
	if l == nil || d == nil {
		return nil, ErrNilParam
	}
	if opts.PaymentMint.IsZero() {
		return nil, ErrNoPaymentMint
	}
	if opts.RoyaltyPercentage > 100 {
		return nil, fmt.Errorf("%w: got %d", market.ErrInvalidRoyalty, opts.RoyaltyPercentage)
	}

	vault, err := d.Derive([]byte(holding.VaultSeed))
	if err != nil {
		return nil, fmt.Errorf("settlement: derive holding account: %w", err)
	}

	e := &Engine{
		ledger:      l,
		deriver:     d,
		vault:       vault,
		paymentMint: opts.PaymentMint,
		royalty:     opts.RoyaltyPercentage,
		log:         opts.Logger,
		metrics:     opts.Metrics,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if opts.ServiceCacheSize > 0 {
		e.services, err = lru.New[ledger.Address, listing](opts.ServiceCacheSize)
		if err != nil {
			return nil, fmt.Errorf("settlement: service cache: %w", err)
		}
	}
	return e, nil
}

// Open builds an Engine from a validated configuration: it opens the
// configured ledger backend, the logger, and a fresh metrics registry.
// Close releases the ledger.
func Open(cfg config.Config, programSeed []byte) (*Engine, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.PaymentMint == "" {
		return nil, ErrNoPaymentMint
	}
	paymentMint, err := ledger.ParseAddress(cfg.PaymentMint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidPaymentMint, err)
	}

	deriver, err := holding.NewDeriver(programSeed, cfg.Network)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	var l ledger.Ledger
	switch cfg.Ledger {
	case config.LedgerMemory:
		l = ledger.NewMemLedger()
	default:
		l, err = ledger.OpenBoltLedger(config.LedgerPath(cfg.DataDir))
		if err != nil {
			return nil, err
		}
	}

	e, err := New(l, deriver, Options{
		PaymentMint:       paymentMint,
		RoyaltyPercentage: cfg.RoyaltyPercentage,
		Logger:            logger.With(zap.String("network", cfg.Network)),
		Metrics:           NewMetrics(),
		ServiceCacheSize:  cfg.ServiceCacheSize,
	})
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	xpub, err := deriver.Xpub()
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	e.log.Info("settlement engine opened",
		zap.String("ledger", cfg.Ledger),
		zap.Stringer("payment_mint", paymentMint),
		zap.Stringer("holding", e.vault.Address),
		zap.String("program_xpub", xpub),
	)
	return e, nil
}

// Close closes the ledger and flushes the logger.
func (e *Engine) Close() error {
	_ = e.log.Sync()
	return e.ledger.Close()
}

// HoldingAddress returns the derived royalty holding account.
func (e *Engine) HoldingAddress() ledger.Address { return e.vault.Address }

// PaymentMint returns the payment token mint.
func (e *Engine) PaymentMint() ledger.Address { return e.paymentMint }

// Metrics returns the engine's collectors, or nil.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Ledger returns the underlying ledger.
func (e *Engine) Ledger() ledger.Ledger { return e.ledger }

// Receipt reads the receipt of a committed settlement.
func (e *Engine) Receipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	var r *Receipt
	err := e.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		r, err = loadReceipt(tx, id)
		return err
	})
	return r, err
}

// listing is a service record together with the vendor that listed it.
type listing struct {
	Service market.ServiceNFT
	Vendor  ledger.Address
}

// listing returns the listing of mint, through the cache. Listings are
// never rewritten, so a cached copy cannot go stale.
func (e *Engine) listing(tx ledger.Tx, mint ledger.Address) (*listing, error) {
	if e.services != nil {
		if l, ok := e.services.Get(mint); ok {
			return &l, nil
		}
	}
	svc, err := market.LoadService(tx, mint)
	if err != nil {
		return nil, err
	}
	rec, err := registry.LoadMint(tx, mint)
	if err != nil {
		return nil, err
	}
	l := listing{Service: *svc, Vendor: rec.Creator}
	if e.services != nil {
		e.services.Add(mint, l)
	}
	return &l, nil
}
