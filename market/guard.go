package market

import "fmt"

// CheckEligibility validates a purchase of svc for amount. The amount is
// checked before the soulbound flag.
func CheckEligibility(amount uint64, svc *ServiceNFT) error {
	if svc == nil {
		return ErrServiceNotFound
	}
	if amount != svc.Price {
		return fmt.Errorf("%w: presented %d, price %d", ErrInequivalentAmount, amount, svc.Price)
	}
	if svc.Soulbound {
		return ErrSoulboundViolation
	}
	return nil
}
