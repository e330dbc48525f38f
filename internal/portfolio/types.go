// Package portfolio turns buy/sell transactions and price points into
// holdings, cost basis, realized/unrealized P&L, closed-position cycles and
// historical series.
//
// Every function in this package is a pure replay over its inputs: nothing
// is cached between calls and input slices are never modified, so a caller
// can feed the same rows to several views within one request.
package portfolio

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Epsilon is the quantity below which a position is considered flat.
var Epsilon = decimal.NewFromFloat(0.001)

var hundred = decimal.NewFromInt(100)

// TransactionType is the side of a trade.
type TransactionType string

const (
	Buy  TransactionType = "buy"
	Sell TransactionType = "sell"
)

// ParseTransactionType parses "buy" or "sell" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// Category is the asset class used for allocation and snapshot buckets.
type Category string

const (
	Stocks Category = "stocks"
	ETF    Category = "etf"
	Crypto Category = "crypto"
	Bonds  Category = "bonds"
)

// BreakdownCategories are the fixed buckets persisted with every snapshot.
var BreakdownCategories = []Category{Stocks, ETF, Crypto, Bonds}

// NormalizeCategory maps legacy and free-form category labels onto a
// Category. Unknown labels pass through lowercased.
func NormalizeCategory(s string) Category {
	switch c := strings.ToLower(strings.TrimSpace(s)); c {
	case "stock", "stocks":
		return Stocks
	case "fund", "funds", "bond", "bonds":
		return Bonds
	case "etf", "etfs":
		return ETF
	case "crypto", "cryptocurrency":
		return Crypto
	default:
		return Category(c)
	}
}

// Asset is the instrument a transaction refers to.
type Asset struct {
	ID       uint     `json:"id"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Transaction is a single buy or sell.
type Transaction struct {
	ID        uint
	AssetID   uint
	Type      TransactionType
	Date      time.Time
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Fees      decimal.Decimal
}

// PricePoint is a closing price recorded for an asset.
type PricePoint struct {
	ID         uint
	AssetID    uint
	Date       time.Time
	ClosePrice decimal.Decimal
	CreatedAt  time.Time
}

// Dividend is cash received from a holding.
type Dividend struct {
	ID      uint
	AssetID uint
	Date    time.Time
	Amount  decimal.Decimal
}

// CashMovementType is the direction of a cash movement.
type CashMovementType string

const (
	Deposit    CashMovementType = "deposit"
	Withdrawal CashMovementType = "withdrawal"
)

// CashMovement is a deposit into or withdrawal from the brokerage account.
type CashMovement struct {
	Type   CashMovementType
	Date   time.Time
	Amount decimal.Decimal
}

// Position is the replayed state of one asset.
type Position struct {
	Quantity      decimal.Decimal `json:"quantity"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	BookValue     decimal.Decimal `json:"book_value"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	RealizedPL    decimal.Decimal `json:"realized_pl"`
	IsActive      bool            `json:"is_active"`
}

// Holding is an open position valued at its latest known price.
type Holding struct {
	Asset               Asset           `json:"asset"`
	Quantity            decimal.Decimal `json:"quantity"`
	AvgPrice            decimal.Decimal `json:"avg_price"`
	CurrentPrice        decimal.Decimal `json:"current_price"`
	HasPrice            bool            `json:"has_price"`
	MarketValue         decimal.Decimal `json:"market_value"`
	BookValue           decimal.Decimal `json:"book_value"`
	UnrealizedPL        decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPercent decimal.Decimal `json:"unrealized_pl_percent"`
	RealizedPL          decimal.Decimal `json:"realized_pl"`
	Weight              decimal.Decimal `json:"weight"`
}

// CategoryAllocation is the share of market value held in one category.
type CategoryAllocation struct {
	Category   Category        `json:"category"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Overview aggregates every open holding.
type Overview struct {
	TotalValue           decimal.Decimal      `json:"total_value"`
	TotalInvested        decimal.Decimal      `json:"total_invested"`
	TotalPL              decimal.Decimal      `json:"total_pl"`
	TotalPLPercent       decimal.Decimal      `json:"total_pl_percent"`
	YTDDividends         decimal.Decimal      `json:"ytd_dividends"`
	Holdings             []Holding            `json:"holdings"`
	AllocationByCategory []CategoryAllocation `json:"allocation_by_category"`
}

// ClosedPosition is one completed ownership cycle of an asset.
type ClosedPosition struct {
	Asset             Asset           `json:"asset"`
	TotalBought       decimal.Decimal `json:"total_bought"`
	TotalSold         decimal.Decimal `json:"total_sold"`
	AvgBuyPrice       decimal.Decimal `json:"avg_buy_price"`
	AvgSellPrice      decimal.Decimal `json:"avg_sell_price"`
	RealizedPL        decimal.Decimal `json:"realized_pl"`
	RealizedPLPercent decimal.Decimal `json:"realized_pl_percent"`
	HoldingPeriodDays int             `json:"holding_period_days"`
	FirstBuyDate      time.Time       `json:"first_buy_date"`
	LastSellDate      time.Time       `json:"last_sell_date"`
	CycleID           string          `json:"cycle_id"`
}

// ParseDecimal parses a decimal string. Malformed input yields zero so a bad
// row degrades one figure instead of failing a whole view.
func ParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmount is ParseDecimal for quantities, prices and fees, which are
// never negative.
func ParseAmount(s string) decimal.Decimal {
	return nonNegative(ParseDecimal(s))
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// percent returns part/whole*100, or zero when whole is not positive.
func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// SortTransactions returns a copy ordered by (Date, ID) ascending.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// groupByAsset splits transactions per asset, keeping each group in
// (Date, ID) order.
func groupByAsset(txs []Transaction) map[uint][]Transaction {
	groups := make(map[uint][]Transaction)
	for _, tx := range SortTransactions(txs) {
		groups[tx.AssetID] = append(groups[tx.AssetID], tx)
	}
	return groups
}

func assetIndex(assets []Asset) map[uint]Asset {
	index := make(map[uint]Asset, len(assets))
	for _, a := range assets {
		index[a.ID] = a
	}
	return index
}
