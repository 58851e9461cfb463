package engine

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/venueup/kassad/internal/domain"
)

// Ledger is the append-only in-memory transaction log, indexed by a
// btree ordered on (timestamp, id) for chronological range scans.
// Entries are never mutated in place.
type Ledger struct {
	idx *btree.BTreeG[*domain.Transaction]
}

func txLess(a, b *domain.Transaction) bool {
	if a.Timestamp.Equal(b.Timestamp) {
		return a.ID < b.ID
	}
	return a.Timestamp.Before(b.Timestamp)
}

func NewLedger() *Ledger {
	return &Ledger{idx: btree.NewG(16, txLess)}
}

func (l *Ledger) Append(tx domain.Transaction) {
	l.idx.ReplaceOrInsert(&tx)
}

func (l *Ledger) Len() int {
	return l.idx.Len()
}

// All returns every transaction in ascending time order.
func (l *Ledger) All() []domain.Transaction {
	out := make([]domain.Transaction, 0, l.idx.Len())
	l.idx.Ascend(func(tx *domain.Transaction) bool {
		out = append(out, *tx)
		return true
	})
	return out
}

// FilterDays returns transactions whose day key falls in the inclusive
// [startDay, endDay] range. Empty bounds leave that side open. Day keys
// are YYYY-MM-DD, so plain string comparison orders them.
func (l *Ledger) FilterDays(startDay, endDay string) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	l.idx.Ascend(func(tx *domain.Transaction) bool {
		if startDay != "" && tx.Day < startDay {
			return true
		}
		if endDay != "" && tx.Day > endDay {
			return true
		}
		out = append(out, *tx)
		return true
	})
	return out
}

// DeleteIf removes every transaction matching pred and returns them.
func (l *Ledger) DeleteIf(pred func(domain.Transaction) bool) []domain.Transaction {
	victims := make([]*domain.Transaction, 0)
	l.idx.Ascend(func(tx *domain.Transaction) bool {
		if pred(*tx) {
			victims = append(victims, tx)
		}
		return true
	})
	deleted := make([]domain.Transaction, 0, len(victims))
	for _, tx := range victims {
		if removed, ok := l.idx.Delete(tx); ok {
			deleted = append(deleted, *removed)
		}
	}
	return deleted
}

// Clear drops every entry and returns the removed count.
func (l *Ledger) Clear() int {
	n := l.idx.Len()
	l.idx.Clear(false)
	return n
}

// SalesByDay folds transactions into the day-keyed dashboard view.
func SalesByDay(txs []domain.Transaction) map[string]domain.DaySales {
	days := make(map[string]domain.DaySales, 8)
	for _, tx := range txs {
		bucket, ok := days[tx.Day]
		if !ok {
			bucket = domain.DaySales{Total: decimal.Zero}
		}
		bucket.Total = bucket.Total.Add(tx.Amount)
		bucket.Entries = append(bucket.Entries, domain.SaleEntry{
			ID:          tx.ID,
			Description: tx.Description,
			Amount:      tx.Amount,
			Ts:          tx.Timestamp.UnixMilli(),
		})
		days[tx.Day] = bucket
	}
	return days
}
