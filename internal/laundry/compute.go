package laundry

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-hms/meridian-hms/internal/platform/httpx"
)

// ComputeTotal prices the order against its offering and writes the result
// into TotalPrice. Per-kilogram offerings require a positive weight,
// per-piece offerings a positive quantity; the unused field is cleared so
// stored orders never carry a stale measure.
func ComputeTotal(off Offering, o *Order) error {
	switch off.RateType {
	case RatePerKg:
		if o.Weight == nil || !o.Weight.IsPositive() {
			return fmt.Errorf("%w: weight is required for per-kilogram services", httpx.ErrValidation)
		}
		o.Quantity = nil
		o.TotalPrice = off.Rate.Mul(*o.Weight)
	case RatePerPiece:
		if o.Quantity == nil || *o.Quantity <= 0 {
			return fmt.Errorf("%w: quantity is required for per-piece services", httpx.ErrValidation)
		}
		o.Weight = nil
		o.TotalPrice = off.Rate.Mul(decimal.NewFromInt(int64(*o.Quantity)))
	default:
		return fmt.Errorf("%w: unknown rate type %q", httpx.ErrValidation, off.RateType)
	}
	return nil
}
