package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueup/kassad/internal/domain"
)

func newBolt(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "kassad.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStoreRoundTrip(t *testing.T) {
	s := newBolt(t)

	tx := domain.Transaction{
		ID:          42,
		Day:         "2025-10-30",
		Hour:        14,
		Amount:      decimal.NewFromFloat(12.5),
		Description: "2x Cola + 1x Pommes",
		Timestamp:   time.Date(2025, 10, 30, 14, 5, 0, 0, time.UTC),
	}
	require.NoError(t, s.AppendTransaction(tx))
	require.NoError(t, s.SaveLoyalty(domain.LoyaltyAccount{Name: "A", Points: 80}))
	require.NoError(t, s.SaveBlob(domain.BlobConfig, `{"currency":"EUR"}`))

	state, err := s.Load()
	require.NoError(t, err)
	require.Len(t, state.Transactions, 1)
	got := state.Transactions[0]
	assert.Equal(t, tx.ID, got.ID)
	assert.Equal(t, tx.Day, got.Day)
	assert.True(t, got.Amount.Equal(tx.Amount))
	require.Len(t, state.Loyalty, 1)
	assert.Equal(t, int64(80), state.Loyalty[0].Points)
	assert.Equal(t, `{"currency":"EUR"}`, state.Blobs[domain.BlobConfig])
}

func TestBoltStoreDelete(t *testing.T) {
	s := newBolt(t)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, s.AppendTransaction(domain.Transaction{ID: i, Day: "2025-10-30"}))
	}
	require.NoError(t, s.DeleteTransactions([]int64{1, 3}))

	state, err := s.Load()
	require.NoError(t, err)
	require.Len(t, state.Transactions, 1)
	assert.Equal(t, int64(2), state.Transactions[0].ID)
}

func TestBoltStoreDeleteLoyalty(t *testing.T) {
	s := newBolt(t)
	require.NoError(t, s.SaveLoyalty(domain.LoyaltyAccount{Name: "A", Points: 10}))
	require.NoError(t, s.DeleteLoyalty("A"))

	state, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, state.Loyalty)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.AppendTransaction(domain.Transaction{ID: 7, Day: "2025-10-30"}))
	require.NoError(t, s.SaveLoyalty(domain.LoyaltyAccount{Name: "A", Points: 5}))
	require.NoError(t, s.SaveBlob(domain.BlobTheme, `{}`))

	state, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, state.Transactions, 1)
	assert.Len(t, state.Loyalty, 1)
	assert.Equal(t, `{}`, state.Blobs[domain.BlobTheme])
}
