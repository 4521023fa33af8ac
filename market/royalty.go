package market

import (
	"fmt"
	"math/bits"
)

// Split divides tokenAmount into the royalty and the remainder:
//
//	royalty = floor(tokenAmount * pct / 100)
//	net     = tokenAmount - royalty
//
// The product is taken in 128 bits, so no amount overflows. pct above 100 is
// treated as 100.
func Split(tokenAmount uint64, pct uint8) (royalty, net uint64) {
	if pct > 100 {
		pct = 100
	}
	hi, lo := bits.Mul64(tokenAmount, uint64(pct))
	royalty, _ = bits.Div64(hi, lo, 100)
	return royalty, tokenAmount - royalty
}

// ValidateSplit checks a split without recomputing it: royalty + net must
// equal tokenAmount, and royalty*100 must lie in (tokenAmount*pct-100, tokenAmount*pct].
func ValidateSplit(tokenAmount uint64, pct uint8, royalty, net uint64) error {
	if pct > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidRoyalty, pct)
	}
	if royalty > tokenAmount || tokenAmount-royalty != net {
		return fmt.Errorf("%w: royalty %d + net %d != amount %d",
			ErrSplitConservation, royalty, net, tokenAmount)
	}

	// d = tokenAmount*pct - royalty*100 in 128 bits; floor division means 0 <= d < 100.
	ph, pl := bits.Mul64(tokenAmount, uint64(pct))
	rh, rl := bits.Mul64(royalty, 100)
	dl, borrow := bits.Sub64(pl, rl, 0)
	dh, borrow := bits.Sub64(ph, rh, borrow)
	if borrow != 0 || dh != 0 || dl >= 100 {
		return fmt.Errorf("%w: royalty %d is not floor(%d*%d/100)",
			ErrSplitConservation, royalty, tokenAmount, pct)
	}
	return nil
}
