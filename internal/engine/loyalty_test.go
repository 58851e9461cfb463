package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venueup/kassad/internal/domain"
)

func TestTierThresholds(t *testing.T) {
	tests := []struct {
		points int64
		want   domain.Tier
	}{
		{0, domain.TierBronze},
		{74, domain.TierBronze},
		{75, domain.TierSilver},
		{149, domain.TierSilver},
		{150, domain.TierGold},
		{199, domain.TierGold},
		{200, domain.TierPlatinum},
		{-10, domain.TierBronze},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.TierFor(tt.points), "points %d", tt.points)
	}
}

func TestLoyaltyListKeepsFirstEncounterOrder(t *testing.T) {
	l := NewLoyaltyLedger()
	l.AddPoints("B", 10)
	l.AddPoints("A", 20)
	l.AddPoints("B", 5)

	list := l.List()
	assert.Equal(t, "B", list[0].Name)
	assert.Equal(t, int64(15), list[0].Points)
	assert.Equal(t, "A", list[1].Name)
}

func TestLoyaltyStatsTopCustomerTie(t *testing.T) {
	l := NewLoyaltyLedger()
	l.AddPoints("B", 50)
	l.AddPoints("A", 50)

	st := l.Stats()
	assert.Equal(t, 2, st.TotalCustomers)
	assert.Equal(t, int64(100), st.TotalPoints)
	assert.Equal(t, 50.0, st.AveragePoints)
	// tie resolves to the account seen first
	assert.Equal(t, "B", st.TopCustomer)
}

func TestLoyaltyStatsEmpty(t *testing.T) {
	st := NewLoyaltyLedger().Stats()
	assert.Zero(t, st.TotalCustomers)
	assert.Zero(t, st.AveragePoints)
	assert.Empty(t, st.TopCustomer)
}

func TestLoyaltyLevelDown(t *testing.T) {
	l := NewLoyaltyLedger()
	l.AddPoints("A", 160)
	change := l.AddPoints("A", -100)
	assert.Equal(t, domain.TierGold, change.OldTier)
	assert.Equal(t, domain.TierBronze, change.NewTier)
	assert.False(t, change.LevelUp)
	assert.True(t, change.LevelDown)
}

func TestLoyaltyRemoveUnknown(t *testing.T) {
	l := NewLoyaltyLedger()
	assert.False(t, l.Remove("nobody"))
}
