package registry

import "errors"

var (
	// ErrMintNotFound indicates no mint exists at the address.
	ErrMintNotFound = errors.New("registry: mint not found")

	// ErrMintExists indicates a mint already exists at the derived address.
	ErrMintExists = errors.New("registry: mint already exists")

	// ErrMintAuthority indicates the caller is not the mint authority.
	ErrMintAuthority = errors.New("registry: not the mint authority")

	// ErrEditionFinalized indicates the edition is finalized and the mint is frozen.
	ErrEditionFinalized = errors.New("registry: edition finalized")

	// ErrMetadataExists indicates metadata is already attached to the mint.
	ErrMetadataExists = errors.New("registry: metadata already attached")

	// ErrMetadataMissing indicates an edition was finalized before metadata was attached.
	ErrMetadataMissing = errors.New("registry: metadata missing")

	// ErrEditionSupply indicates a master edition requires a supply of exactly one.
	ErrEditionSupply = errors.New("registry: master edition requires supply of exactly 1")
)
