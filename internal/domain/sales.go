package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayKeyLayout is the calendar-day bucket key format (venue-local).
const DayKeyLayout = "2006-01-02"

// Transaction is one raw sale record. Immutable once appended; corrections
// are new entries or scoped bulk deletions, never in-place updates.
type Transaction struct {
	ID          int64           `gorm:"primaryKey" json:"id,string"`
	Day         string          `gorm:"index;size:10" json:"day"`
	Hour        int             `json:"hour"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,4)" json:"amount"`
	Description string          `gorm:"size:512" json:"description"`
	Timestamp   time.Time       `gorm:"index" json:"ts"`
}

// TableName Specify table name
func (Transaction) TableName() string {
	return "sales_transaction"
}

// LineItem is one parsed {product, quantity} pair. Derived from a
// transaction description at parse time, never persisted on its own.
type LineItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// Allocation is a line item with its proportional share of the
// transaction amount.
type Allocation struct {
	Item    LineItem        `json:"item"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductTotal is the running per-product aggregate. Derived, never
// persisted; rebuilt from the ledger after load or scoped deletion.
type ProductTotal struct {
	Name    string          `json:"name"`
	Qty     int64           `json:"qty"`
	Revenue decimal.Decimal `json:"revenue"`
}

// SaleEntry is the per-day ledger view pushed to dashboards.
type SaleEntry struct {
	ID          int64           `json:"id,string"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Ts          int64           `json:"ts"`
}

// DaySales is one day bucket of the sales view.
type DaySales struct {
	Total   decimal.Decimal `json:"total"`
	Entries []SaleEntry     `json:"entries"`
}

// SaleResult is returned by the engine for every recorded sale and is
// forwarded verbatim to the update publisher.
type SaleResult struct {
	ID          int64           `json:"id,string"`
	Day         string          `json:"day"`
	Amount      decimal.Decimal `json:"amount"`
	Allocations []Allocation    `json:"allocations"`
	DaySales    DaySales        `json:"day_sales"`
}

// Scope names a bulk-deletion range.
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeProducts Scope = "products"
	ScopeToday    Scope = "today"
	ScopeWeek     Scope = "week"
	ScopeMonth    Scope = "month"
)

// ParseScope validates a scope name against the recognized set.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeAll, ScopeProducts, ScopeToday, ScopeWeek, ScopeMonth:
		return Scope(s), nil
	}
	return "", ErrUnknownScope
}
