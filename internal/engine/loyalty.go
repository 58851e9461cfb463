package engine

import (
	"github.com/venueup/kassad/internal/domain"
)

// LoyaltyLedger tracks lifetime point balances per customer. Listing
// order is first-encounter order, which also breaks top-customer ties.
type LoyaltyLedger struct {
	points map[string]int64
	order  []string
}

func NewLoyaltyLedger() *LoyaltyLedger {
	return &LoyaltyLedger{points: make(map[string]int64)}
}

// Load seeds balances from persisted accounts.
func (l *LoyaltyLedger) Load(accounts []domain.LoyaltyAccount) {
	for _, acc := range accounts {
		if _, ok := l.points[acc.Name]; !ok {
			l.order = append(l.order, acc.Name)
		}
		l.points[acc.Name] = acc.Points
	}
}

// AddPoints applies a signed delta and reports the tier transition.
func (l *LoyaltyLedger) AddPoints(name string, delta int64) domain.LoyaltyChange {
	old, ok := l.points[name]
	if !ok {
		l.order = append(l.order, name)
	}
	next := old + delta
	l.points[name] = next

	oldTier, newTier := domain.TierFor(old), domain.TierFor(next)
	return domain.LoyaltyChange{
		Name:      name,
		OldPoints: old,
		NewPoints: next,
		OldTier:   oldTier,
		NewTier:   newTier,
		LevelUp:   newTier != oldTier && next > old,
		LevelDown: newTier != oldTier && next < old,
	}
}

// Points returns the current balance for a customer, zero if unknown.
func (l *LoyaltyLedger) Points(name string) int64 {
	return l.points[name]
}

// Remove deletes an account; reports whether it existed.
func (l *LoyaltyLedger) Remove(name string) bool {
	if _, ok := l.points[name]; !ok {
		return false
	}
	delete(l.points, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns accounts with derived tiers in first-encounter order.
func (l *LoyaltyLedger) List() []domain.LoyaltyEntry {
	out := make([]domain.LoyaltyEntry, 0, len(l.order))
	for _, name := range l.order {
		points := l.points[name]
		out = append(out, domain.LoyaltyEntry{Name: name, Points: points, Tier: domain.TierFor(points)})
	}
	return out
}

// Snapshot exports the raw name -> points map.
func (l *LoyaltyLedger) Snapshot() map[string]int64 {
	out := make(map[string]int64, len(l.points))
	for name, points := range l.points {
		out[name] = points
	}
	return out
}

// Stats summarizes the ledger. Top customer ties go to the account
// encountered first in listing order.
func (l *LoyaltyLedger) Stats() domain.LoyaltyStats {
	st := domain.LoyaltyStats{TotalCustomers: len(l.order)}
	for _, name := range l.order {
		points := l.points[name]
		st.TotalPoints += points
		if st.TopCustomer == "" || points > st.TopPoints {
			st.TopCustomer = name
			st.TopPoints = points
		}
	}
	if st.TotalCustomers > 0 {
		st.AveragePoints = float64(st.TotalPoints) / float64(st.TotalCustomers)
	}
	return st
}
