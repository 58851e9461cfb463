package engine

import (
	"github.com/shopspring/decimal"

	"github.com/venueup/kassad/internal/domain"
)

// Allocate distributes amount across items proportionally to quantity.
// An empty item list yields no allocations: the amount stays
// unattributed and only the raw ledger entry carries it. Results are
// not rounded here; rounding happens at presentation time only.
func Allocate(amount decimal.Decimal, items []domain.LineItem) []domain.Allocation {
	totalQty := 0
	for _, it := range items {
		totalQty += it.Quantity
	}
	if totalQty <= 0 {
		return nil
	}

	divisor := decimal.NewFromInt(int64(totalQty))
	allocs := make([]domain.Allocation, 0, len(items))
	for _, it := range items {
		share := amount.Mul(decimal.NewFromInt(int64(it.Quantity))).Div(divisor)
		allocs = append(allocs, domain.Allocation{Item: it, Revenue: share})
	}
	return allocs
}
