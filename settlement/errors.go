package settlement

import "errors"

var (
	// ErrNilParam indicates a required constructor parameter is nil.
	ErrNilParam = errors.New("settlement: required parameter is nil")

	// ErrNoPaymentMint indicates the payment token mint is unset.
	ErrNoPaymentMint = errors.New("settlement: payment mint not configured")

	// ErrMarketplaceExists indicates the marketplace was already initialized.
	ErrMarketplaceExists = errors.New("settlement: marketplace already initialized")

	// ErrHoldingMismatch indicates the request names a holding account other
	// than the derived one.
	ErrHoldingMismatch = errors.New("settlement: holding account mismatch")

	// ErrInvalidRequest indicates a request is missing a party or the mint.
	ErrInvalidRequest = errors.New("settlement: invalid request")

	// ErrReceiptNotFound indicates no settlement was committed under the id.
	ErrReceiptNotFound = errors.New("settlement: receipt not found")
)
