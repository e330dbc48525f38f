package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// PriceSource records where a price point came from
type PriceSource string

const (
	PriceSourceManual PriceSource = "manual"
	PriceSourceImport PriceSource = "import"
)

// PricePoint is a closing price entered for an asset. Only the latest point
// of an open position is used for valuation; points of closed positions are
// pruned.
type PricePoint struct {
	ID         uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	AssetID    uint            `json:"asset_id" gorm:"not null;index:idx_price_asset_date"`
	Date       time.Time       `json:"date" gorm:"not null;index:idx_price_asset_date"`
	ClosePrice decimal.Decimal `json:"close_price" gorm:"type:text;not null;serializer:amount"`
	Source     PriceSource     `json:"source" gorm:"default:'manual'"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (p PricePoint) ToPortfolio() portfolio.PricePoint {
	return portfolio.PricePoint{
		ID:         p.ID,
		AssetID:    p.AssetID,
		Date:       p.Date,
		ClosePrice: p.ClosePrice,
		CreatedAt:  p.CreatedAt,
	}
}

func PricePointsToPortfolio(prices []PricePoint) []portfolio.PricePoint {
	out := make([]portfolio.PricePoint, 0, len(prices))
	for _, p := range prices {
		out = append(out, p.ToPortfolio())
	}
	return out
}

type PriceRequest struct {
	AssetID    uint             `json:"asset_id" binding:"required"`
	Date       string           `json:"date"` // defaults to today
	ClosePrice *decimal.Decimal `json:"close_price" binding:"required"`
	Source     string           `json:"source"`
}

func (r PriceRequest) ToModel(now time.Time) (PricePoint, error) {
	if r.ClosePrice == nil || r.ClosePrice.IsNegative() {
		return PricePoint{}, fmt.Errorf("close_price must not be negative")
	}
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if strings.TrimSpace(r.Date) != "" {
		d, err := ParseDate(r.Date)
		if err != nil {
			return PricePoint{}, err
		}
		date = d
	}
	source := PriceSourceManual
	if PriceSource(strings.ToLower(strings.TrimSpace(r.Source))) == PriceSourceImport {
		source = PriceSourceImport
	}
	return PricePoint{
		AssetID:    r.AssetID,
		Date:       date,
		ClosePrice: *r.ClosePrice,
		Source:     source,
	}, nil
}
