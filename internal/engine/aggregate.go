package engine

import (
	"github.com/shopspring/decimal"

	"github.com/venueup/kassad/internal/domain"
)

// ProductAggregate keeps running per-product quantity and revenue
// totals. Callers apply each transaction's allocation exactly once;
// deltas are commutative across products.
type ProductAggregate struct {
	totals map[string]*domain.ProductTotal
}

func NewProductAggregate() *ProductAggregate {
	return &ProductAggregate{totals: make(map[string]*domain.ProductTotal)}
}

// ApplyDelta adds the signed quantity and revenue deltas for a product,
// creating the entry on first sight.
func (a *ProductAggregate) ApplyDelta(name string, qtyDelta int64, revenueDelta decimal.Decimal) {
	total, ok := a.totals[name]
	if !ok {
		total = &domain.ProductTotal{Name: name, Revenue: decimal.Zero}
		a.totals[name] = total
	}
	total.Qty += qtyDelta
	total.Revenue = total.Revenue.Add(revenueDelta)
}

// ApplyAllocations folds a transaction's allocation sequence in.
func (a *ProductAggregate) ApplyAllocations(allocs []domain.Allocation) {
	for _, al := range allocs {
		a.ApplyDelta(al.Item.Product, int64(al.Item.Quantity), al.Revenue)
	}
}

// Snapshot exports a copy of the aggregate map.
func (a *ProductAggregate) Snapshot() map[string]domain.ProductTotal {
	out := make(map[string]domain.ProductTotal, len(a.totals))
	for name, total := range a.totals {
		out[name] = *total
	}
	return out
}

func (a *ProductAggregate) Len() int {
	return len(a.totals)
}

// Reset drops every entry, ahead of a recompute or a products-scope
// delete.
func (a *ProductAggregate) Reset() {
	a.totals = make(map[string]*domain.ProductTotal)
}
