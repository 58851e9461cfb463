package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueup/kassad/internal/domain"
)

func TestAllocateProportional(t *testing.T) {
	items := []domain.LineItem{
		{Product: "Pop UP", Quantity: 2},
		{Product: "Burn UP", Quantity: 1},
	}
	allocs := Allocate(decimal.NewFromInt(900), items)
	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Revenue.Equal(decimal.NewFromInt(600)), "got %s", allocs[0].Revenue)
	assert.True(t, allocs[1].Revenue.Equal(decimal.NewFromInt(300)), "got %s", allocs[1].Revenue)
}

func TestAllocateEmptyItems(t *testing.T) {
	assert.Nil(t, Allocate(decimal.NewFromInt(100), nil))
	assert.Nil(t, Allocate(decimal.NewFromInt(100), []domain.LineItem{}))
}

func TestAllocateSumMatchesAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		items  []domain.LineItem
	}{
		{"uneven thirds", decimal.NewFromFloat(10), []domain.LineItem{
			{Product: "a", Quantity: 1}, {Product: "b", Quantity: 1}, {Product: "c", Quantity: 1},
		}},
		{"cents", decimal.NewFromFloat(19.99), []domain.LineItem{
			{Product: "a", Quantity: 3}, {Product: "b", Quantity: 4},
		}},
		{"duplicate products", decimal.NewFromFloat(7.5), []domain.LineItem{
			{Product: "a", Quantity: 1}, {Product: "a", Quantity: 2},
		}},
	}
	tolerance := decimal.NewFromFloat(0.01)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs := Allocate(tt.amount, tt.items)
			sum := decimal.Zero
			for _, a := range allocs {
				sum = sum.Add(a.Revenue)
			}
			diff := sum.Sub(tt.amount).Abs()
			assert.True(t, diff.LessThanOrEqual(tolerance),
				"allocation sum %s drifts from %s by %s", sum, tt.amount, diff)
		})
	}
}
