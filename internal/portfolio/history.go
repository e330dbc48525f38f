package portfolio

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotals are the snapshot figures of one category bucket.
type CategoryTotals struct {
	Value     decimal.Decimal `json:"value"`
	Invested  decimal.Decimal `json:"invested"`
	PL        decimal.Decimal `json:"pl"`
	PLPercent decimal.Decimal `json:"pl_percent"`
}

// CategoryBreakdown always carries every bucket of BreakdownCategories.
type CategoryBreakdown map[Category]CategoryTotals

// AssetMonth is the month-end state of one asset.
type AssetMonth struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Date         time.Time       `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Invested     decimal.Decimal `json:"invested"`
	Price        decimal.Decimal `json:"price"`
	HasPrice     bool            `json:"has_price"`
	Value        decimal.Decimal `json:"value"`
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
	RealizedPL   decimal.Decimal `json:"realized_pl"`
}

// ValuePoint is the month-end value of the whole portfolio.
type ValuePoint struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Date          time.Time       `json:"date"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalPL       decimal.Decimal `json:"total_pl"`
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// MonthEnd returns the last instant of the given month.
func MonthEnd(year int, month time.Month, loc *time.Location) time.Time {
	return EndOfDay(time.Date(year, month+1, 0, 0, 0, 0, 0, loc))
}

// OverviewAsOf replays the portfolio as it stood at the end of asOf's day:
// only transactions and prices dated on or before that day are considered.
func OverviewAsOf(assets []Asset, txs []Transaction, prices []PricePoint, asOf time.Time) Overview {
	cutoff := EndOfDay(asOf)

	bounded := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.After(cutoff) {
			bounded = append(bounded, tx)
		}
	}
	boundedPrices := make([]PricePoint, 0, len(prices))
	for _, p := range prices {
		if !p.Date.After(cutoff) {
			boundedPrices = append(boundedPrices, p)
		}
	}
	return ComputeHoldings(assets, bounded, boundedPrices)
}

// Breakdown splits an overview into the fixed snapshot buckets. Holdings
// outside those categories only count towards the overall totals.
func Breakdown(ov Overview) CategoryBreakdown {
	breakdown := make(CategoryBreakdown, len(BreakdownCategories))
	for _, c := range BreakdownCategories {
		breakdown[c] = CategoryTotals{}
	}
	for _, h := range ov.Holdings {
		totals, ok := breakdown[h.Asset.Category]
		if !ok {
			continue
		}
		totals.Value = totals.Value.Add(h.MarketValue)
		totals.Invested = totals.Invested.Add(h.BookValue)
		breakdown[h.Asset.Category] = totals
	}
	for c, totals := range breakdown {
		totals.PL = totals.Value.Sub(totals.Invested)
		totals.PLPercent = percent(totals.PL, totals.Invested)
		breakdown[c] = totals
	}
	return breakdown
}

// months lists every month from the month of from to the month of to.
func months(from, to time.Time) []time.Time {
	var out []time.Time
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, from.Location())
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// AssetSeries walks one asset month by month, from the month of its first
// transaction to the month of now, and reports its month-end position.
// Quantity and invested amount follow the same replay as Aggregate.
func AssetSeries(txs []Transaction, prices []PricePoint, now time.Time) []AssetMonth {
	sorted := SortTransactions(txs)
	if len(sorted) == 0 {
		return []AssetMonth{}
	}

	orderedPrices := make([]PricePoint, len(prices))
	copy(orderedPrices, prices)
	sort.SliceStable(orderedPrices, func(i, j int) bool {
		return newerPrice(orderedPrices[j], orderedPrices[i])
	})

	var (
		ledger    positionLedger
		next      int
		nextPrice int
		price     decimal.Decimal
		hasPrice  bool
	)
	series := make([]AssetMonth, 0)
	for _, m := range months(sorted[0].Date, now) {
		end := MonthEnd(m.Year(), m.Month(), m.Location())
		for next < len(sorted) && !sorted[next].Date.After(end) {
			ledger.apply(sorted[next])
			next++
		}
		for nextPrice < len(orderedPrices) && !orderedPrices[nextPrice].Date.After(end) {
			price = nonNegative(orderedPrices[nextPrice].ClosePrice)
			hasPrice = true
			nextPrice++
		}

		pos := ledger.position()
		value := decimal.Zero
		if hasPrice {
			value = pos.Quantity.Mul(price)
		}
		series = append(series, AssetMonth{
			Year:         m.Year(),
			Month:        int(m.Month()),
			Date:         end,
			Quantity:     pos.Quantity,
			Invested:     pos.BookValue,
			Price:        price,
			HasPrice:     hasPrice,
			Value:        value,
			UnrealizedPL: value.Sub(pos.BookValue),
			RealizedPL:   pos.RealizedPL,
		})
	}
	return series
}

// ValueSeries replays the whole portfolio at every month end from the
// first transaction to now.
func ValueSeries(assets []Asset, txs []Transaction, prices []PricePoint, now time.Time) []ValuePoint {
	sorted := SortTransactions(txs)
	if len(sorted) == 0 {
		return []ValuePoint{}
	}

	series := make([]ValuePoint, 0)
	for _, m := range months(sorted[0].Date, now) {
		end := MonthEnd(m.Year(), m.Month(), m.Location())
		ov := OverviewAsOf(assets, sorted, prices, end)
		series = append(series, ValuePoint{
			Year:          m.Year(),
			Month:         int(m.Month()),
			Date:          end,
			TotalValue:    ov.TotalValue,
			TotalInvested: ov.TotalInvested,
			TotalPL:       ov.TotalPL,
		})
	}
	return series
}

// YTDDividends sums the dividends received during year.
func YTDDividends(divs []Dividend, year int) decimal.Decimal {
	total := decimal.Zero
	for _, d := range divs {
		if d.Date.Year() == year {
			total = total.Add(nonNegative(d.Amount))
		}
	}
	return total
}

// CashBalance nets deposits against withdrawals.
func CashBalance(movements []CashMovement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range movements {
		amount := nonNegative(m.Amount)
		switch m.Type {
		case Deposit:
			balance = balance.Add(amount)
		case Withdrawal:
			balance = balance.Sub(amount)
		}
	}
	return balance
}
