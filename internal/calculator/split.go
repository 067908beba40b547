package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minSharePlaces is the smallest unit shares are expressed in (cents).
const minSharePlaces = 2

// SplitEvenly divides amount into n shares that sum exactly to amount.
// Shares are expressed in cents, or in the amount's own precision if finer.
// The remainder is handed out one unit at a time to the first shares, so
// callers control who absorbs it through the order they use.
func SplitEvenly(amount decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	places := int32(minSharePlaces)
	if exp := -amount.Exponent(); exp > places {
		places = exp
	}
	unit := decimal.New(1, -places)

	count := decimal.NewFromInt(int64(n))
	base := amount.Div(count).Truncate(places)
	remainder := amount.Sub(base.Mul(count))
	extra := remainder.Div(unit).IntPart()

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < extra {
			shares[i] = shares[i].Add(unit)
		}
	}
	return shares, nil
}
