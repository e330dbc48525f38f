package models

import (
	"github.com/shopspring/decimal"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// AssetDetail is everything the asset page shows
type AssetDetail struct {
	Asset           Asset                      `json:"asset"`
	Position        portfolio.Position         `json:"position"`
	Holding         *portfolio.Holding         `json:"holding,omitempty"` // nil when the position is closed
	Transactions    []Transaction              `json:"transactions"`
	ClosedPositions []portfolio.ClosedPosition `json:"closed_positions"`
	Dividends       []Dividend                 `json:"dividends"`
	TotalDividends  decimal.Decimal            `json:"total_dividends"`
}

// Dashboard combines the live overview with account level figures
type Dashboard struct {
	Overview           portfolio.Overview `json:"overview"`
	CashBalance        decimal.Decimal    `json:"cash_balance"`
	ClosedCycles       int                `json:"closed_cycles"`
	ClosedRealizedPL   decimal.Decimal    `json:"closed_realized_pl"`
	LastSnapshot       *PortfolioSnapshot `json:"last_snapshot,omitempty"`
	ValueChange        decimal.Decimal    `json:"value_change"`         // vs last snapshot
	ValueChangePercent decimal.Decimal    `json:"value_change_percent"` // vs last snapshot
}

// ClosedPositionsResponse lists completed cycles with their total
type ClosedPositionsResponse struct {
	ClosedPositions []portfolio.ClosedPosition `json:"closed_positions"`
	TotalRealizedPL decimal.Decimal            `json:"total_realized_pl"`
	Method          string                     `json:"method"`
}
