package holding

import "errors"

var (
	// ErrInvalidSeed indicates the program seed or account seed is empty.
	ErrInvalidSeed = errors.New("holding: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("holding: key derivation failed")

	// ErrNoViableBump indicates no bump in [0,255] yields a valid child key.
	ErrNoViableBump = errors.New("holding: no viable bump")


	// ErrPublicOnly indicates the deriver holds only a public key and cannot authorize.
	ErrPublicOnly = errors.New("holding: deriver cannot sign (public key only)")

	// ErrAccountMismatch indicates an account was not derived by this deriver.
	ErrAccountMismatch = errors.New("holding: account not derived by this deriver")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("holding: invalid network name")
)
