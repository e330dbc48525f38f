package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// Dividend is a gross cash distribution received from a holding
type Dividend struct {
	ID          uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	AssetID     uint            `json:"asset_id" gorm:"not null;index"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:text;not null;serializer:amount"`
	TaxWithheld decimal.Decimal `json:"tax_withheld" gorm:"type:text;not null;serializer:amount;default:'0'"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

func DividendsToPortfolio(divs []Dividend) []portfolio.Dividend {
	out := make([]portfolio.Dividend, 0, len(divs))
	for _, d := range divs {
		out = append(out, portfolio.Dividend{ID: d.ID, AssetID: d.AssetID, Date: d.Date, Amount: d.Amount})
	}
	return out
}

type DividendRequest struct {
	AssetID     uint             `json:"asset_id" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	TaxWithheld *decimal.Decimal `json:"tax_withheld"`
	Notes       string           `json:"notes"`
}

func (r DividendRequest) ToModel() (Dividend, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Dividend{}, err
	}
	if r.Amount == nil || !r.Amount.IsPositive() {
		return Dividend{}, fmt.Errorf("amount must be greater than zero")
	}
	tax := decimal.Zero
	if r.TaxWithheld != nil {
		if r.TaxWithheld.IsNegative() {
			return Dividend{}, fmt.Errorf("tax_withheld must not be negative")
		}
		tax = *r.TaxWithheld
	}
	return Dividend{
		AssetID:     r.AssetID,
		Date:        date,
		Amount:      *r.Amount,
		TaxWithheld: tax,
		Notes:       strings.TrimSpace(r.Notes),
	}, nil
}
