package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// SnapshotBasis tells which point in time a snapshot's figures describe
type SnapshotBasis string

const (
	// BasisLive stamps the portfolio as it is right now with the requested
	// month and year.
	BasisLive SnapshotBasis = "live"
	// BasisMonthEnd replays transactions and prices up to the last day of
	// the requested month.
	BasisMonthEnd SnapshotBasis = "month_end"
)

// PortfolioSnapshot stores monthly portfolio value for historical tracking.
// There is at most one snapshot per (year, month).
type PortfolioSnapshot struct {
	ID              uint                        `json:"id" gorm:"primaryKey;autoIncrement"`
	Year            int                         `json:"year" gorm:"not null;uniqueIndex:idx_snapshot_period,priority:1"`
	Month           int                         `json:"month" gorm:"not null;uniqueIndex:idx_snapshot_period,priority:2"`
	Basis           SnapshotBasis               `json:"basis" gorm:"default:'live'"`
	TotalValue      decimal.Decimal             `json:"total_value" gorm:"type:text;not null;serializer:signed"`
	TotalInvested   decimal.Decimal             `json:"total_invested" gorm:"type:text;not null;serializer:signed"`
	TotalPL         decimal.Decimal             `json:"total_pl" gorm:"type:text;not null;serializer:signed"`
	TotalPLPercent  decimal.Decimal             `json:"total_pl_percent" gorm:"type:text;not null;serializer:signed"`
	StocksValue     decimal.Decimal             `json:"stocks_value" gorm:"type:text;not null;serializer:signed"`
	EtfValue        decimal.Decimal             `json:"etf_value" gorm:"type:text;not null;serializer:signed"`
	CryptoValue     decimal.Decimal             `json:"crypto_value" gorm:"type:text;not null;serializer:signed"`
	BondsValue      decimal.Decimal             `json:"bonds_value" gorm:"type:text;not null;serializer:signed"`
	CategoryDetails portfolio.CategoryBreakdown `json:"category_details" gorm:"serializer:json"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// CreateSnapshotRequest asks for a snapshot of the given month
type CreateSnapshotRequest struct {
	Month int           `json:"month" binding:"required"`
	Year  int           `json:"year" binding:"required"`
	Basis SnapshotBasis `json:"basis"`
}

// UpdateSnapshotRequest edits stored figures. Nil fields are left alone and
// nothing is recomputed.
type UpdateSnapshotRequest struct {
	TotalValue     *decimal.Decimal `json:"total_value"`
	TotalInvested  *decimal.Decimal `json:"total_invested"`
	TotalPL        *decimal.Decimal `json:"total_pl"`
	TotalPLPercent *decimal.Decimal `json:"total_pl_percent"`
	StocksValue    *decimal.Decimal `json:"stocks_value"`
	EtfValue       *decimal.Decimal `json:"etf_value"`
	CryptoValue    *decimal.Decimal `json:"crypto_value"`
	BondsValue     *decimal.Decimal `json:"bonds_value"`
}

// Apply copies the non-nil fields onto s
func (r UpdateSnapshotRequest) Apply(s *PortfolioSnapshot) {
	set := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.TotalValue, r.TotalValue)
	set(&s.TotalInvested, r.TotalInvested)
	set(&s.TotalPL, r.TotalPL)
	set(&s.TotalPLPercent, r.TotalPLPercent)
	set(&s.StocksValue, r.StocksValue)
	set(&s.EtfValue, r.EtfValue)
	set(&s.CryptoValue, r.CryptoValue)
	set(&s.BondsValue, r.BondsValue)
}

// ValueHistoryResponse is the API response for value history
type ValueHistoryResponse struct {
	Snapshots []PortfolioSnapshot `json:"snapshots"`
	Period    string              `json:"period"` // "3month", "6month", "year", "all"
}

// BackfillResult summarizes a snapshot backfill run
type BackfillResult struct {
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
}
