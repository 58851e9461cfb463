package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/venueup/kassad/internal/domain"
)

// Statistics are pure derivations over a ledger snapshot. Every
// function is total on empty input: zeroed or absent fields, never a
// division by zero.

// DayRevenue pairs a day key with its summed revenue.
type DayRevenue struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Overview is the headline summary of a filtered range.
type Overview struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	Transactions  int             `json:"transactions"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	Days          int             `json:"days"`
	AveragePerDay decimal.Decimal `json:"average_per_day"`
	BestDay       *DayRevenue     `json:"best_day,omitempty"`
	WorstDay      *DayRevenue     `json:"worst_day,omitempty"`
}

// ProductStat is one row of the per-product breakdown.
type ProductStat struct {
	Name         string          `json:"name"`
	Qty          int64           `json:"qty"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
	RevenueShare decimal.Decimal `json:"revenue_share"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// TimelineBucket is one chronological grouping bucket.
type TimelineBucket struct {
	Key          string          `json:"key"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// HourBucket is one rush-hour histogram slot.
type HourBucket struct {
	Hour         int             `json:"hour"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
}

// RushHourReport is the 24-slot histogram keyed by ingestion-time local
// hour, plus the top revenue hours and the current wall-clock hour.
type RushHourReport struct {
	Hours          []HourBucket    `json:"hours"`
	TopHours       []int           `json:"top_hours"`
	CurrentHour    int             `json:"current_hour"`
	CurrentRevenue decimal.Decimal `json:"current_revenue"`
}

// TopProduct is one row of the period ranking.
type TopProduct struct {
	Name         string          `json:"name"`
	Qty          int64           `json:"qty"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenueShare decimal.Decimal `json:"revenue_share"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeOverview summarizes the given transactions. Best and worst day
// are absent on empty input; day ties go to the earliest date.
func ComputeOverview(txs []domain.Transaction) Overview {
	ov := Overview{
		TotalRevenue:  decimal.Zero,
		AverageAmount: decimal.Zero,
		AveragePerDay: decimal.Zero,
		Transactions:  len(txs),
	}
	if len(txs) == 0 {
		return ov
	}

	amounts := make([]float64, 0, len(txs))
	perDay := make(map[string]decimal.Decimal, 8)
	for _, tx := range txs {
		ov.TotalRevenue = ov.TotalRevenue.Add(tx.Amount)
		amounts = append(amounts, tx.Amount.InexactFloat64())
		day, ok := perDay[tx.Day]
		if !ok {
			day = decimal.Zero
		}
		perDay[tx.Day] = day.Add(tx.Amount)
	}

	if mean, err := stats.Mean(amounts); err == nil {
		ov.AverageAmount = decimal.NewFromFloat(mean).Round(2)
	}

	days := make([]string, 0, len(perDay))
	dayTotals := make([]float64, 0, len(perDay))
	for day, revenue := range perDay {
		days = append(days, day)
		dayTotals = append(dayTotals, revenue.InexactFloat64())
	}
	sort.Strings(days)
	ov.Days = len(days)
	if mean, err := stats.Mean(dayTotals); err == nil {
		ov.AveragePerDay = decimal.NewFromFloat(mean).Round(2)
	}

	for _, day := range days {
		revenue := perDay[day]
		if ov.BestDay == nil || revenue.GreaterThan(ov.BestDay.Revenue) {
			ov.BestDay = &DayRevenue{Day: day, Revenue: revenue}
		}
		if ov.WorstDay == nil || revenue.LessThan(ov.WorstDay.Revenue) {
			ov.WorstDay = &DayRevenue{Day: day, Revenue: revenue}
		}
	}
	ov.TotalRevenue = ov.TotalRevenue.Round(2)
	if ov.BestDay != nil {
		ov.BestDay.Revenue = ov.BestDay.Revenue.Round(2)
		ov.WorstDay.Revenue = ov.WorstDay.Revenue.Round(2)
	}
	return ov
}

// ComputeProductStats re-derives per-product totals from the filtered
// transactions, sorted by revenue descending.
func ComputeProductStats(txs []domain.Transaction, parser LineItemParser) []ProductStat {
	type acc struct {
		qty     int64
		revenue decimal.Decimal
		txCount int
	}
	byName := make(map[string]*acc)
	order := make([]string, 0)
	totalRevenue := decimal.Zero

	for _, tx := range txs {
		totalRevenue = totalRevenue.Add(tx.Amount)
		touched := make(map[string]struct{}, 2)
		for _, al := range Allocate(tx.Amount, parser.Parse(tx.Description)) {
			a, ok := byName[al.Item.Product]
			if !ok {
				a = &acc{revenue: decimal.Zero}
				byName[al.Item.Product] = a
				order = append(order, al.Item.Product)
			}
			a.qty += int64(al.Item.Quantity)
			a.revenue = a.revenue.Add(al.Revenue)
			touched[al.Item.Product] = struct{}{}
		}
		for name := range touched {
			byName[name].txCount++
		}
	}

	out := make([]ProductStat, 0, len(order))
	for _, name := range order {
		a := byName[name]
		ps := ProductStat{
			Name:         name,
			Qty:          a.qty,
			Revenue:      a.revenue.Round(2),
			Transactions: a.txCount,
			RevenueShare: decimal.Zero,
			UnitPrice:    decimal.Zero,
		}
		if totalRevenue.IsPositive() {
			ps.RevenueShare = a.revenue.Div(totalRevenue).Mul(oneHundred).Round(1)
		}
		if a.qty > 0 {
			ps.UnitPrice = a.revenue.Div(decimal.NewFromInt(a.qty)).Round(2)
		}
		out = append(out, ps)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

// ComputeTimeline groups transactions by day, ISO week (Monday start)
// or calendar month, buckets in chronological order.
func ComputeTimeline(txs []domain.Transaction, groupBy string) []TimelineBucket {
	keyOf := func(tx domain.Transaction) string { return tx.Day }
	switch groupBy {
	case "week":
		keyOf = func(tx domain.Transaction) string {
			year, week := tx.Timestamp.ISOWeek()
			return fmt.Sprintf("%d-W%02d", year, week)
		}
	case "month":
		keyOf = func(tx domain.Transaction) string {
			if len(tx.Day) >= 7 {
				return tx.Day[:7]
			}
			return tx.Day
		}
	}

	byKey := make(map[string]*TimelineBucket)
	for _, tx := range txs {
		key := keyOf(tx)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &TimelineBucket{Key: key, Revenue: decimal.Zero}
			byKey[key] = bucket
		}
		bucket.Revenue = bucket.Revenue.Add(tx.Amount)
		bucket.Transactions++
	}

	out := make([]TimelineBucket, 0, len(byKey))
	for _, bucket := range byKey {
		bucket.Revenue = bucket.Revenue.Round(2)
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ComputeRushHour builds the 24-slot histogram from ingestion-time
// hours. Top-3 ties resolve to the lower hour number.
func ComputeRushHour(txs []domain.Transaction, now time.Time) RushHourReport {
	report := RushHourReport{
		Hours:          make([]HourBucket, 24),
		CurrentHour:    now.Hour(),
		CurrentRevenue: decimal.Zero,
	}
	for h := range report.Hours {
		report.Hours[h] = HourBucket{Hour: h, Revenue: decimal.Zero}
	}
	for _, tx := range txs {
		if tx.Hour < 0 || tx.Hour > 23 {
			continue
		}
		report.Hours[tx.Hour].Revenue = report.Hours[tx.Hour].Revenue.Add(tx.Amount)
		report.Hours[tx.Hour].Transactions++
	}
	for h := range report.Hours {
		report.Hours[h].Revenue = report.Hours[h].Revenue.Round(2)
	}

	ranked := make([]int, 24)
	for h := range ranked {
		ranked[h] = h
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return report.Hours[ranked[i]].Revenue.GreaterThan(report.Hours[ranked[j]].Revenue)
	})
	report.TopHours = ranked[:3]
	report.CurrentRevenue = report.Hours[report.CurrentHour].Revenue
	return report
}

// ComputeTopProducts ranks products of the (pre-filtered) period by
// cumulative quantity descending and returns at most ten rows, each
// with its share of the period revenue.
func ComputeTopProducts(txs []domain.Transaction, parser LineItemParser) []TopProduct {
	type acc struct {
		qty     int64
		revenue decimal.Decimal
	}
	byName := make(map[string]*acc)
	order := make([]string, 0)
	periodRevenue := decimal.Zero

	for _, tx := range txs {
		periodRevenue = periodRevenue.Add(tx.Amount)
		for _, al := range Allocate(tx.Amount, parser.Parse(tx.Description)) {
			a, ok := byName[al.Item.Product]
			if !ok {
				a = &acc{revenue: decimal.Zero}
				byName[al.Item.Product] = a
				order = append(order, al.Item.Product)
			}
			a.qty += int64(al.Item.Quantity)
			a.revenue = a.revenue.Add(al.Revenue)
		}
	}

	out := make([]TopProduct, 0, len(order))
	for _, name := range order {
		a := byName[name]
		tp := TopProduct{
			Name:         name,
			Qty:          a.qty,
			Revenue:      a.revenue.Round(2),
			RevenueShare: decimal.Zero,
		}
		if periodRevenue.IsPositive() {
			tp.RevenueShare = a.revenue.Div(periodRevenue).Mul(oneHundred).Round(1)
		}
		out = append(out, tp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Qty > out[j].Qty })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// periodStartDay maps a ranking period to its inclusive start day key.
// Empty means unbounded.
func periodStartDay(period string, now time.Time) (string, bool) {
	switch period {
	case "today":
		return now.Format(domain.DayKeyLayout), true
	case "week":
		return now.AddDate(0, 0, -6).Format(domain.DayKeyLayout), true
	case "month":
		return now.AddDate(0, 0, -29).Format(domain.DayKeyLayout), true
	case "all", "":
		return "", true
	}
	return "", false
}
