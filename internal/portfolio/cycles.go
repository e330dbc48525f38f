package portfolio

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CyclePLMethod selects how the realized P&L of a closed cycle is derived.
type CyclePLMethod int

const (
	// ScaleClosingSell extrapolates the per-unit economics of the sell that
	// closes the cycle to the whole position it closed. It is exact when the
	// cycle is closed by a single sell and approximate when earlier partial
	// sells happened at a different average cost.
	ScaleClosingSell CyclePLMethod = iota
	// Ledger sums the realized P&L of every sell of the cycle.
	Ledger
)

func (m CyclePLMethod) String() string {
	switch m {
	case ScaleClosingSell:
		return "scale"
	case Ledger:
		return "ledger"
	default:
		return "unknown"
	}
}

// ParseCyclePLMethod parses "scale" or "ledger".
func ParseCyclePLMethod(s string) (CyclePLMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scale", "":
		return ScaleClosingSell, nil
	case "ledger":
		return Ledger, nil
	default:
		return 0, fmt.Errorf("unknown cycle P&L method: %q", s)
	}
}

// cycleTracker walks one asset's timeline through Flat and Open states.
type cycleTracker struct {
	asset  Asset
	method CyclePLMethod

	count    int
	open     bool
	start    time.Time
	position decimal.Decimal

	// buys of the current cycle
	boughtQty decimal.Decimal
	buyValue  decimal.Decimal
	buyFees   decimal.Decimal

	// sells of the current cycle, used by Ledger
	soldQty    decimal.Decimal
	sellValue  decimal.Decimal
	soldCost   decimal.Decimal
	realizedPL decimal.Decimal
}

func (c *cycleTracker) reset() {
	c.open = false
	c.start = time.Time{}
	c.position = decimal.Zero
	c.boughtQty = decimal.Zero
	c.buyValue = decimal.Zero
	c.buyFees = decimal.Zero
	c.soldQty = decimal.Zero
	c.sellValue = decimal.Zero
	c.soldCost = decimal.Zero
	c.realizedPL = decimal.Zero
}

// apply feeds one transaction and returns a cycle when it closes one.
func (c *cycleTracker) apply(tx Transaction) (ClosedPosition, bool) {
	qty := nonNegative(tx.Quantity)
	price := nonNegative(tx.UnitPrice)
	fees := nonNegative(tx.Fees)

	switch tx.Type {
	case Buy:
		if !qty.IsPositive() {
			return ClosedPosition{}, false
		}
		if !c.open {
			c.reset()
			c.open = true
			c.count++
			c.start = tx.Date
		}
		c.position = c.position.Add(qty)
		c.boughtQty = c.boughtQty.Add(qty)
		c.buyValue = c.buyValue.Add(qty.Mul(price))
		c.buyFees = c.buyFees.Add(fees)
		return ClosedPosition{}, false

	case Sell:
		if !c.open {
			return ClosedPosition{}, false
		}
		sellQty := decimal.Min(qty, c.position)
		if !sellQty.IsPositive() {
			return ClosedPosition{}, false
		}

		avgBuyPrice := c.buyValue.Div(c.boughtQty)
		buyFees := prorate(c.buyFees, sellQty, c.boughtQty)
		sellFees := prorate(fees, sellQty, qty)
		cost := sellQty.Mul(avgBuyPrice).Add(buyFees)
		pl := sellQty.Mul(price).Sub(sellFees).Sub(cost)

		c.soldQty = c.soldQty.Add(sellQty)
		c.sellValue = c.sellValue.Add(sellQty.Mul(price))
		c.soldCost = c.soldCost.Add(cost)
		c.realizedPL = c.realizedPL.Add(pl)

		before := c.position
		c.position = c.position.Sub(sellQty)
		if c.position.GreaterThan(Epsilon) {
			return ClosedPosition{}, false
		}

		var cycle ClosedPosition
		if c.method == Ledger {
			cycle = c.ledgerCycle()
		} else {
			cycle = c.scaledCycle(before, sellQty, price, avgBuyPrice, buyFees, pl)
		}
		cycle.Asset = c.asset
		cycle.FirstBuyDate = c.start
		cycle.LastSellDate = tx.Date
		cycle.HoldingPeriodDays = holdingDays(c.start, tx.Date)
		cycle.CycleID = fmt.Sprintf("%d-%d-%s", c.asset.ID, c.count, c.start.Format("2006-01-02"))
		c.reset()
		return cycle, true
	}
	return ClosedPosition{}, false
}

func (c *cycleTracker) scaledCycle(before, sellQty, sellPrice, avgBuyPrice, buyFees, pl decimal.Decimal) ClosedPosition {
	factor := before.Div(sellQty)
	realized := pl.Mul(factor)
	cost := before.Mul(avgBuyPrice).Add(buyFees.Mul(factor))
	return ClosedPosition{
		TotalBought:       before,
		TotalSold:         before,
		AvgBuyPrice:       avgBuyPrice,
		AvgSellPrice:      sellPrice,
		RealizedPL:        realized,
		RealizedPLPercent: percent(realized, cost),
	}
}

func (c *cycleTracker) ledgerCycle() ClosedPosition {
	avgSellPrice := decimal.Zero
	if c.soldQty.IsPositive() {
		avgSellPrice = c.sellValue.Div(c.soldQty)
	}
	return ClosedPosition{
		TotalBought:       c.boughtQty,
		TotalSold:         c.soldQty,
		AvgBuyPrice:       c.buyValue.Div(c.boughtQty),
		AvgSellPrice:      avgSellPrice,
		RealizedPL:        c.realizedPL,
		RealizedPLPercent: percent(c.realizedPL, c.soldCost),
	}
}

func holdingDays(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / (24 * time.Hour))
}

// ClosedPositions partitions each asset's timeline into ownership cycles
// (flat, accumulating, liquidated back to flat) and returns one record per
// completed cycle, most recently closed first.
func ClosedPositions(assets []Asset, txs []Transaction, method CyclePLMethod) []ClosedPosition {
	index := assetIndex(assets)
	groups := groupByAsset(txs)

	cycles := make([]ClosedPosition, 0)
	for _, id := range sortedKeys(groups) {
		asset, ok := index[id]
		if !ok {
			continue
		}
		tracker := cycleTracker{asset: asset, method: method}
		for _, tx := range groups[id] {
			if cycle, closed := tracker.apply(tx); closed {
				cycles = append(cycles, cycle)
			}
		}
	}

	sort.SliceStable(cycles, func(i, j int) bool {
		if !cycles[i].LastSellDate.Equal(cycles[j].LastSellDate) {
			return cycles[i].LastSellDate.After(cycles[j].LastSellDate)
		}
		return cycles[i].CycleID < cycles[j].CycleID
	})
	return cycles
}
