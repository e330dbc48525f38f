package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
)

// positionLedger holds the running totals of a single asset during replay.
// Buy totals only cover the current ownership cycle: they restart when a
// buy arrives while the position is flat.
type positionLedger struct {
	quantity      decimal.Decimal
	totalBought   decimal.Decimal
	totalBuyValue decimal.Decimal // sum of qty*unitPrice, fees excluded
	totalBuyFees  decimal.Decimal
	costBasis     decimal.Decimal // fee-free cost of the shares still held
	realizedPL    decimal.Decimal
}

func (l *positionLedger) apply(tx Transaction) {
	qty := nonNegative(tx.Quantity)
	price := nonNegative(tx.UnitPrice)
	fees := nonNegative(tx.Fees)

	switch tx.Type {
	case Buy:
		if l.quantity.LessThanOrEqual(Epsilon) {
			l.quantity = decimal.Zero
			l.totalBought = decimal.Zero
			l.totalBuyValue = decimal.Zero
			l.totalBuyFees = decimal.Zero
			l.costBasis = decimal.Zero
		}
		l.quantity = l.quantity.Add(qty)
		l.totalBought = l.totalBought.Add(qty)
		l.totalBuyValue = l.totalBuyValue.Add(qty.Mul(price))
		l.totalBuyFees = l.totalBuyFees.Add(fees)
		l.costBasis = l.costBasis.Add(qty.Mul(price))

	case Sell:
		soldQty := decimal.Min(qty, l.quantity)
		if !soldQty.IsPositive() {
			return
		}
		avgCostPerShare := decimal.Zero
		if l.quantity.IsPositive() {
			avgCostPerShare = l.costBasis.Div(l.quantity)
		}
		costOfSold := soldQty.Mul(avgCostPerShare)
		proceeds := soldQty.Mul(price).Sub(prorate(fees, soldQty, qty))

		l.realizedPL = l.realizedPL.Add(proceeds.Sub(costOfSold))
		l.quantity = l.quantity.Sub(soldQty)
		l.costBasis = l.costBasis.Sub(costOfSold)
	}
}

func (l *positionLedger) position() Position {
	avgPrice := decimal.Zero
	bookValue := decimal.Zero
	if l.quantity.IsPositive() && l.totalBought.IsPositive() {
		avgPrice = l.totalBuyValue.Div(l.totalBought)
		bookValue = l.quantity.Mul(avgPrice).
			Add(l.totalBuyFees.Mul(l.quantity).Div(l.totalBought))
	}
	return Position{
		Quantity:      l.quantity,
		AvgPrice:      avgPrice,
		BookValue:     bookValue,
		TotalInvested: l.totalBuyValue.Add(l.totalBuyFees),
		RealizedPL:    l.realizedPL,
		IsActive:      l.quantity.GreaterThan(Epsilon),
	}
}

// prorate returns the share of amount attributable to part out of whole.
// A zero whole attributes the full amount.
func prorate(amount, part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() || part.GreaterThanOrEqual(whole) {
		return amount
	}
	return amount.Mul(part).Div(whole)
}

// Aggregate replays one asset's transactions and returns its position.
//
// Sells larger than the held quantity are clamped to it and a sell with no
// position is ignored. Sell fees are attributed in proportion to the
// quantity actually sold.
func Aggregate(txs []Transaction) Position {
	var l positionLedger
	for _, tx := range SortTransactions(txs) {
		l.apply(tx)
	}
	return l.position()
}

// ClosedAssetIDs returns the assets whose replayed quantity is flat. Their
// price records should not be kept as a live price.
func ClosedAssetIDs(txs []Transaction) []uint {
	var closed []uint
	groups := groupByAsset(txs)
	for _, id := range sortedKeys(groups) {
		if !Aggregate(groups[id]).IsActive {
			closed = append(closed, id)
		}
	}
	return closed
}

func sortedKeys(groups map[uint][]Transaction) []uint {
	keys := make([]uint, 0, len(groups))
	for id := range groups {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
