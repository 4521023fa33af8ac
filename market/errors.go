package market

import "errors"

var (
	// ErrInequivalentAmount indicates the presented payment does not equal the listed price.
	ErrInequivalentAmount = errors.New("market: inequivalent amount")

	// ErrSoulboundViolation indicates an attempted purchase of a non-transferable service.
	ErrSoulboundViolation = errors.New("market: soulbound tokens cannot be purchased")

	// ErrInvalidRoyalty indicates a royalty percentage above 100.
	ErrInvalidRoyalty = errors.New("market: royalty percentage must be in [0,100]")

	// ErrSplitConservation indicates royalty + net does not equal the token amount.
	ErrSplitConservation = errors.New("market: royalty split not conserved")

	// ErrInvalidMarketplaceData indicates a marketplace record is malformed.
	ErrInvalidMarketplaceData = errors.New("market: invalid marketplace data")

	// ErrInvalidServiceData indicates a service record is malformed.
	ErrInvalidServiceData = errors.New("market: invalid service data")

	// ErrFieldTooLong indicates a descriptive field exceeds its registry limit.
	ErrFieldTooLong = errors.New("market: field too long")

	// ErrMarketplaceNotFound indicates the marketplace has not been initialized.
	ErrMarketplaceNotFound = errors.New("market: marketplace not initialized")

	// ErrServiceNotFound indicates no service is listed under the mint.
	ErrServiceNotFound = errors.New("market: service not found")
)
