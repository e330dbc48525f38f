package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

func TestUpdatePortfolioMetrics(t *testing.T) {
	UpdatePortfolioMetrics(portfolio.Overview{
		TotalValue:    decimal.NewFromInt(1500),
		TotalInvested: decimal.NewFromInt(1000),
		TotalPL:       decimal.NewFromInt(500),
		Holdings: []portfolio.Holding{
			{HasPrice: true},
			{HasPrice: false},
		},
		AllocationByCategory: []portfolio.CategoryAllocation{
			{Category: portfolio.ETF, Value: decimal.NewFromInt(1500)},
		},
	})

	assert.Equal(t, 1500.0, testutil.ToFloat64(PortfolioValue))
	assert.Equal(t, 1000.0, testutil.ToFloat64(PortfolioInvested))
	assert.Equal(t, 500.0, testutil.ToFloat64(PortfolioPL))
	assert.Equal(t, 2.0, testutil.ToFloat64(HoldingsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(HoldingsWithoutPrice))
	assert.Equal(t, 1500.0, testutil.ToFloat64(PortfolioValueByCategory.WithLabelValues("etf")))

	// A later overview without ETFs resets the bucket
	UpdatePortfolioMetrics(portfolio.Overview{})
	assert.Equal(t, 0.0, testutil.ToFloat64(PortfolioValueByCategory.WithLabelValues("etf")))
	assert.Equal(t, 0.0, testutil.ToFloat64(HoldingsTotal))
}
