package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LatestPrices picks the current price of every asset: the most recent
// point by Date, ties broken by CreatedAt and then ID.
func LatestPrices(prices []PricePoint) map[uint]PricePoint {
	latest := make(map[uint]PricePoint)
	for _, p := range prices {
		cur, ok := latest[p.AssetID]
		if !ok || newerPrice(p, cur) {
			latest[p.AssetID] = p
		}
	}
	return latest
}

func newerPrice(a, b PricePoint) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// ComputeHoldings values every open position at its latest price and
// aggregates the portfolio totals and category allocation.
//
// Transactions for assets missing from assets are skipped. An asset with no
// price is reported with HasPrice=false and a zero market value.
func ComputeHoldings(assets []Asset, txs []Transaction, prices []PricePoint) Overview {
	index := assetIndex(assets)
	latest := LatestPrices(prices)
	groups := groupByAsset(txs)

	holdings := make([]Holding, 0, len(groups))
	for _, id := range sortedKeys(groups) {
		asset, ok := index[id]
		if !ok {
			continue
		}
		pos := Aggregate(groups[id])
		if !pos.IsActive {
			continue
		}
		price, hasPrice := latest[id]
		holdings = append(holdings, valueHolding(asset, pos, price.ClosePrice, hasPrice))
	}

	return summarize(holdings)
}

func valueHolding(asset Asset, pos Position, price decimal.Decimal, hasPrice bool) Holding {
	if !hasPrice {
		price = decimal.Zero
	}
	price = nonNegative(price)
	marketValue := pos.Quantity.Mul(price)
	unrealized := marketValue.Sub(pos.BookValue)
	return Holding{
		Asset:               asset,
		Quantity:            pos.Quantity,
		AvgPrice:            pos.AvgPrice,
		CurrentPrice:        price,
		HasPrice:            hasPrice,
		MarketValue:         marketValue,
		BookValue:           pos.BookValue,
		UnrealizedPL:        unrealized,
		UnrealizedPLPercent: percent(unrealized, pos.BookValue),
		RealizedPL:          pos.RealizedPL,
	}
}

func summarize(holdings []Holding) Overview {
	totalValue := decimal.Zero
	totalInvested := decimal.Zero
	for _, h := range holdings {
		totalValue = totalValue.Add(h.MarketValue)
		totalInvested = totalInvested.Add(h.BookValue)
	}
	for i := range holdings {
		holdings[i].Weight = percent(holdings[i].MarketValue, totalValue)
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		if !holdings[i].MarketValue.Equal(holdings[j].MarketValue) {
			return holdings[i].MarketValue.GreaterThan(holdings[j].MarketValue)
		}
		return holdings[i].Asset.Symbol < holdings[j].Asset.Symbol
	})

	totalPL := totalValue.Sub(totalInvested)
	return Overview{
		TotalValue:           totalValue,
		TotalInvested:        totalInvested,
		TotalPL:              totalPL,
		TotalPLPercent:       percent(totalPL, totalInvested),
		YTDDividends:         decimal.Zero,
		Holdings:             holdings,
		AllocationByCategory: allocate(holdings, totalValue),
	}
}

func allocate(holdings []Holding, totalValue decimal.Decimal) []CategoryAllocation {
	values := make(map[Category]decimal.Decimal)
	for _, h := range holdings {
		values[h.Asset.Category] = values[h.Asset.Category].Add(h.MarketValue)
	}

	allocation := make([]CategoryAllocation, 0, len(values))
	for category, value := range values {
		allocation = append(allocation, CategoryAllocation{
			Category:   category,
			Value:      value,
			Percentage: percent(value, totalValue),
		})
	}
	sort.Slice(allocation, func(i, j int) bool {
		if !allocation[i].Value.Equal(allocation[j].Value) {
			return allocation[i].Value.GreaterThan(allocation[j].Value)
		}
		return allocation[i].Category < allocation[j].Category
	})
	return allocation
}
