// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidLedger indicates the ledger backend is not recognized.
	ErrInvalidLedger = errors.New("config: invalid ledger backend (must be \"bolt\" or \"memory\")")

	// ErrInvalidRoyalty indicates the royalty percentage is not an integer in [0,100].
	ErrInvalidRoyalty = errors.New("config: royalty percentage must be an integer in [0,100]")

	// ErrInvalidPaymentMint indicates the payment mint is not a 20-byte hex address.
	ErrInvalidPaymentMint = errors.New("config: invalid payment mint address")

	// ErrInvalidCacheSize indicates the service cache size is negative or not an integer.
	ErrInvalidCacheSize = errors.New("config: invalid service cache size")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("config: invalid configuration file")

	// ErrMissingProgramSeed indicates the program seed environment variable is unset.
	ErrMissingProgramSeed = errors.New("config: program seed not set")

	// ErrInvalidProgramSeed indicates the program seed is not valid hex.
	ErrInvalidProgramSeed = errors.New("config: program seed must be hex")
)
