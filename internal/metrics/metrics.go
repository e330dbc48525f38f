// Package metrics provides Prometheus metrics for the investment dashboard.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_http_rate_limited_total",
			Help: "Write requests rejected by the per-client rate limiter",
		},
	)

	// Portfolio Metrics, refreshed on every live overview
	PortfolioValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_value",
			Help: "Market value of all open holdings",
		},
	)

	PortfolioInvested = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_invested",
			Help: "Book value of all open holdings",
		},
	)

	PortfolioPL = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_unrealized_pl",
			Help: "Unrealized P&L of all open holdings",
		},
	)

	PortfolioValueByCategory = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_value_by_category",
			Help: "Market value of open holdings by category",
		},
		[]string{"category"},
	)

	HoldingsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_holdings_total",
			Help: "Number of open holdings",
		},
	)

	HoldingsWithoutPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_holdings_without_price",
			Help: "Open holdings with no recorded price",
		},
	)

	ClosedCyclesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_closed_cycles",
			Help: "Number of completed ownership cycles",
		},
	)

	PricesPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_prices_pruned_total",
			Help: "Price points deleted because their position was closed",
		},
	)

	// Computation Metrics
	ComputationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_computation_duration_seconds",
			Help:    "Time taken to load rows and replay a portfolio view",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		},
		[]string{"view"}, // "overview", "as_of", "closed_positions", "value_series", "asset_series", "asset_detail"
	)

	// Snapshot Metrics
	SnapshotsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_snapshots_written_total",
			Help: "Snapshots created or overwritten",
		},
		[]string{"basis"},
	)
)

// UpdatePortfolioMetrics publishes the figures of a live overview
func UpdatePortfolioMetrics(ov portfolio.Overview) {
	PortfolioValue.Set(ov.TotalValue.InexactFloat64())
	PortfolioInvested.Set(ov.TotalInvested.InexactFloat64())
	PortfolioPL.Set(ov.TotalPL.InexactFloat64())
	HoldingsTotal.Set(float64(len(ov.Holdings)))

	missing := 0
	for _, h := range ov.Holdings {
		if !h.HasPrice {
			missing++
		}
	}
	HoldingsWithoutPrice.Set(float64(missing))

	// Categories that emptied out must read zero rather than keep a stale value
	for _, c := range portfolio.BreakdownCategories {
		PortfolioValueByCategory.WithLabelValues(string(c)).Set(0)
	}
	for _, a := range ov.AllocationByCategory {
		PortfolioValueByCategory.WithLabelValues(string(a.Category)).Set(a.Value.InexactFloat64())
	}
}
