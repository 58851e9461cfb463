// Package engine implements the sales parsing and aggregation core:
// free-text line-item extraction, proportional revenue allocation, the
// append-only ledger with derived per-product totals, the loyalty
// ledger and the statistics derivations.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/venueup/kassad/internal/domain"
	"github.com/venueup/kassad/internal/store"
	"github.com/venueup/kassad/pkg/common"
	"github.com/venueup/kassad/pkg/metrics"
)

// Engine owns the ledger, product aggregate and loyalty state. All
// mutations are serialized through one writer lock; the store is
// written before in-memory state so a persistence failure never leaves
// an acknowledged but unpersisted mutation. Reads take the lock shared
// and observe either the pre- or post-state of a mutation.
type Engine struct {
	mu       sync.RWMutex
	parser   LineItemParser
	ledger   *Ledger
	products *ProductAggregate
	loyalty  *LoyaltyLedger
	store    store.Store
	bus      EventBus.Bus
	now      func() time.Time
}

type Option func(*Engine)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithParser swaps the line-item extraction strategy.
func WithParser(p LineItemParser) Option {
	return func(e *Engine) { e.parser = p }
}

func NewEngine(st store.Store, bus EventBus.Bus, opts ...Option) *Engine {
	e := &Engine{
		parser:   NewPatternParser(),
		ledger:   NewLedger(),
		products: NewProductAggregate(),
		loyalty:  NewLoyaltyLedger(),
		store:    st,
		bus:      bus,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore replays persisted state: transactions into the ledger, the
// aggregate recomputed from scratch, loyalty balances as-is.
func (e *Engine) Restore(state *domain.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, tx := range state.Transactions {
		e.ledger.Append(tx)
	}
	e.recomputeAggregateLocked()
	e.loyalty.Load(state.Loyalty)
	zap.S().Infof("restored ledger with %d transactions, %d products, %d loyalty accounts",
		e.ledger.Len(), e.products.Len(), len(state.Loyalty))
}

// RecordSale parses the description, allocates the amount across the
// extracted line items, persists and appends the transaction, and
// applies the allocation deltas to the product aggregate.
func (e *Engine) RecordSale(description string, amount decimal.Decimal, ts time.Time) (*domain.SaleResult, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if ts.IsZero() {
		ts = e.now()
	}
	ts = ts.In(time.Local)

	tx := domain.Transaction{
		ID:          common.UUIDint64(),
		Day:         ts.Format(domain.DayKeyLayout),
		Hour:        ts.Hour(),
		Amount:      amount,
		Description: description,
		Timestamp:   ts,
	}

	items := e.parser.Parse(description)
	allocs := Allocate(amount, items)
	if len(allocs) == 0 && description != "" {
		// Deliberate fallback: the amount stays unattributed, the raw
		// entry still counts toward day totals.
		zap.S().Debugf("no line items parsed from %q, amount unattributed", description)
	}

	if err := e.store.AppendTransaction(tx); err != nil {
		zap.S().Errorf("append transaction failed: %s", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}

	e.ledger.Append(tx)
	e.products.ApplyAllocations(allocs)
	metrics.IncrCounter("sales_recorded", 1)

	daySales := SalesByDay(e.ledger.FilterDays(tx.Day, tx.Day))[tx.Day]
	result := &domain.SaleResult{
		ID:          tx.ID,
		Day:         tx.Day,
		Amount:      amount,
		Allocations: allocs,
		DaySales:    daySales,
	}

	e.publish(domain.TopicSalesUpdate, SalesByDay(e.ledger.All()))
	e.publish(domain.TopicProductsUpdate, e.products.Snapshot())
	return result, nil
}

// DeleteByScope bulk-deletes transactions in the given scope and
// recomputes the product aggregate from the remaining ledger. Scope
// "products" clears the aggregate only and leaves the ledger intact.
// Returns the number of removed transactions.
func (e *Engine) DeleteByScope(scope string) (int, error) {
	sc, err := domain.ParseScope(scope)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if sc == domain.ScopeProducts {
		e.products.Reset()
		e.publish(domain.TopicProductsUpdate, e.products.Snapshot())
		return 0, nil
	}

	var victims []domain.Transaction
	switch sc {
	case domain.ScopeAll:
		victims = e.ledger.All()
	case domain.ScopeToday:
		day := e.now().Format(domain.DayKeyLayout)
		victims = e.ledger.FilterDays(day, day)
	case domain.ScopeWeek:
		victims = e.ledger.FilterDays(e.now().AddDate(0, 0, -6).Format(domain.DayKeyLayout), "")
	case domain.ScopeMonth:
		victims = e.ledger.FilterDays(e.now().AddDate(0, 0, -29).Format(domain.DayKeyLayout), "")
	}

	ids := make([]int64, 0, len(victims))
	doomed := make(map[int64]struct{}, len(victims))
	for _, tx := range victims {
		ids = append(ids, tx.ID)
		doomed[tx.ID] = struct{}{}
	}

	if err := e.store.DeleteTransactions(ids); err != nil {
		zap.S().Errorf("scoped delete failed: %s", err)
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}

	deleted := e.ledger.DeleteIf(func(tx domain.Transaction) bool {
		_, ok := doomed[tx.ID]
		return ok
	})
	e.recomputeAggregateLocked()
	zap.S().Infof("deleted %d transactions, scope %s", len(deleted), sc)

	e.publish(domain.TopicSalesUpdate, SalesByDay(e.ledger.All()))
	e.publish(domain.TopicProductsUpdate, e.products.Snapshot())
	return len(deleted), nil
}

// recomputeAggregateLocked rebuilds the product aggregate from the live
// ledger. Full recompute keeps the aggregate invariant trivially intact
// after deletions.
func (e *Engine) recomputeAggregateLocked() {
	e.products.Reset()
	for _, tx := range e.ledger.All() {
		e.products.ApplyAllocations(Allocate(tx.Amount, e.parser.Parse(tx.Description)))
	}
}

// AddLoyaltyPoints applies a signed point delta and reports the tier
// transition.
func (e *Engine) AddLoyaltyPoints(name string, delta int64) (*domain.LoyaltyChange, error) {
	if common.IsEmptyOrNA(name) {
		return nil, domain.ErrMissingName
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.loyalty.Points(name) + delta
	if err := e.store.SaveLoyalty(domain.LoyaltyAccount{Name: name, Points: next}); err != nil {
		zap.S().Errorf("save loyalty failed: %s", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}
	change := e.loyalty.AddPoints(name, delta)
	if change.LevelUp {
		zap.S().Infof("loyalty level up: %s %s -> %s", name, change.OldTier, change.NewTier)
	}

	e.publish(domain.TopicLoyaltyUpdate, e.loyalty.Snapshot())
	return &change, nil
}

// RemoveLoyaltyAccount deletes a customer's balance.
func (e *Engine) RemoveLoyaltyAccount(name string) error {
	if common.IsEmptyOrNA(name) {
		return domain.ErrMissingName
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.DeleteLoyalty(name); err != nil {
		zap.S().Errorf("delete loyalty failed: %s", err)
		return fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}
	e.loyalty.Remove(name)
	e.publish(domain.TopicLoyaltyUpdate, e.loyalty.Snapshot())
	return nil
}

// --- read side ---

func (e *Engine) SalesSnapshot() map[string]domain.DaySales {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return SalesByDay(e.ledger.All())
}

func (e *Engine) ProductSnapshot() map[string]domain.ProductTotal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.products.Snapshot()
}

func (e *Engine) LoyaltySnapshot() map[string]int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loyalty.Snapshot()
}

func (e *Engine) LoyaltyList() []domain.LoyaltyEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loyalty.List()
}

func (e *Engine) LoyaltyStats() domain.LoyaltyStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loyalty.Stats()
}

func (e *Engine) TransactionCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.Len()
}

// Transactions returns a chronological copy of the filtered ledger.
func (e *Engine) Transactions(startDay, endDay string) []domain.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.FilterDays(startDay, endDay)
}

func (e *Engine) Overview(startDay, endDay string) Overview {
	return ComputeOverview(e.Transactions(startDay, endDay))
}

func (e *Engine) ProductStats(startDay, endDay string) []ProductStat {
	return ComputeProductStats(e.Transactions(startDay, endDay), e.parser)
}

func (e *Engine) Timeline(groupBy, startDay, endDay string) []TimelineBucket {
	return ComputeTimeline(e.Transactions(startDay, endDay), groupBy)
}

func (e *Engine) RushHour() RushHourReport {
	return ComputeRushHour(e.Transactions("", ""), e.now().In(time.Local))
}

// TopProducts ranks the period's products by quantity. Unknown periods
// fall back to all-time.
func (e *Engine) TopProducts(period string) []TopProduct {
	startDay, ok := periodStartDay(period, e.now().In(time.Local))
	if !ok {
		startDay = ""
	}
	return ComputeTopProducts(e.Transactions(startDay, ""), e.parser)
}

func (e *Engine) publish(topic string, payload interface{}) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(topic, payload)
}
