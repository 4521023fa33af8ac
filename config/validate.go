// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/libservicemarket-go/ledger"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.Ledger != LedgerBolt && cfg.Ledger != LedgerMemory {
		return ErrInvalidLedger
	}

	if cfg.RoyaltyPercentage > 100 {
		return ErrInvalidRoyalty
	}

	if cfg.ServiceCacheSize < 0 {
		return ErrInvalidCacheSize
	}

	if cfg.PaymentMint != "" {
		if _, err := ledger.ParseAddress(cfg.PaymentMint); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPaymentMint, err)
		}
	}

	return nil
}
