// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads, saves, and validates the service marketplace
// configuration. The file is a flat "key = value" list with '#' comments;
// every key can be overridden by an SVCMKT_<KEY> environment variable.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. SVCMKT_NETWORK.
	EnvPrefix = "SVCMKT"

	// EnvProgramSeed holds the hex program seed. It is never written to the file.
	EnvProgramSeed = EnvPrefix + "_PROGRAM_SEED"

	// Ledger backends.
	LedgerBolt   = "bolt"
	LedgerMemory = "memory"
)

// Config keys as they appear in the file.
const (
	keyDataDir      = "datadir"
	keyNetwork      = "network"
	keyLogLevel     = "loglevel"
	keyLogFile      = "logfile"
	keyLedger       = "ledger"
	keyPaymentMint  = "paymentmint"
	keyRoyalty      = "royalty"
	keyServiceCache = "servicecache"
)

// Config holds the service marketplace configuration.
type Config struct {
	DataDir           string
	Network           string // mainnet, testnet, regtest
	LogLevel          string // debug, info, warn, error
	LogFile           string // empty = stderr
	Ledger            string // bolt, memory
	PaymentMint       string // hex address of the payment token mint
	RoyaltyPercentage uint8  // written at marketplace initialization
	ServiceCacheSize  int
}

// DefaultDataDir returns ~/.servicemarket, or ./.servicemarket if the home
// directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".servicemarket"
	}
	return filepath.Join(home, ".servicemarket")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DataDir:           DefaultDataDir(),
		Network:           "mainnet",
		LogLevel:          "info",
		Ledger:            LedgerBolt,
		RoyaltyPercentage: 0,
		ServiceCacheSize:  256,
	}
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LedgerPath returns the bbolt ledger path inside dataDir.
func LedgerPath(dataDir string) string {
	return filepath.Join(dataDir, "ledger", "ledger.db")
}

// LoadConfig reads the file at path. Absent keys keep their defaults;
// SVCMKT_* environment variables override both.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigFile(path)
	v.SetConfigType("dotenv")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	get := func(key string) string { return strings.TrimSpace(v.GetString(key)) }
	cfg := Config{
		DataDir:     get(keyDataDir),
		Network:     get(keyNetwork),
		LogLevel:    get(keyLogLevel),
		LogFile:     get(keyLogFile),
		Ledger:      get(keyLedger),
		PaymentMint: get(keyPaymentMint),
	}

	royalty, err := strconv.ParseUint(get(keyRoyalty), 10, 8)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidRoyalty, err)
	}
	cfg.RoyaltyPercentage = uint8(royalty)

	cacheSize, err := strconv.Atoi(get(keyServiceCache))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidCacheSize, err)
	}
	cfg.ServiceCacheSize = cacheSize

	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault(keyDataDir, def.DataDir)
	v.SetDefault(keyNetwork, def.Network)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFile, def.LogFile)
	v.SetDefault(keyLedger, def.Ledger)
	v.SetDefault(keyPaymentMint, def.PaymentMint)
	v.SetDefault(keyRoyalty, strconv.Itoa(int(def.RoyaltyPercentage)))
	v.SetDefault(keyServiceCache, strconv.Itoa(def.ServiceCacheSize))
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Service Marketplace Configuration\n")
	fmt.Fprintf(&b, "%s = %s\n", keyDataDir, cfg.DataDir)
	fmt.Fprintf(&b, "%s = %s\n", keyNetwork, cfg.Network)
	fmt.Fprintf(&b, "%s = %s\n", keyLogLevel, cfg.LogLevel)
	fmt.Fprintf(&b, "%s = %s\n", keyLogFile, cfg.LogFile)
	fmt.Fprintf(&b, "%s = %s\n", keyLedger, cfg.Ledger)
	fmt.Fprintf(&b, "%s = %s\n", keyPaymentMint, cfg.PaymentMint)
	fmt.Fprintf(&b, "%s = %d\n", keyRoyalty, cfg.RoyaltyPercentage)
	fmt.Fprintf(&b, "%s = %d\n", keyServiceCache, cfg.ServiceCacheSize)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ProgramSeedFromEnv decodes the program seed from SVCMKT_PROGRAM_SEED.
func ProgramSeedFromEnv() ([]byte, error) {
	s := strings.TrimSpace(os.Getenv(EnvProgramSeed))
	if s == "" {
		return nil, ErrMissingProgramSeed
	}
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProgramSeed, err)
	}
	return seed, nil
}
