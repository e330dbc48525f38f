package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

type Asset struct {
	ID        uint               `json:"id" gorm:"primaryKey;autoIncrement"`
	Symbol    string             `json:"symbol" gorm:"not null;uniqueIndex"`
	Name      string             `json:"name"`
	Category  portfolio.Category `json:"category" gorm:"not null;index"`
	Currency  string             `json:"currency" gorm:"default:'EUR'"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToPortfolio converts the row into the calculation type
func (a Asset) ToPortfolio() portfolio.Asset {
	return portfolio.Asset{
		ID:       a.ID,
		Symbol:   a.Symbol,
		Name:     a.Name,
		Category: portfolio.NormalizeCategory(string(a.Category)),
	}
}

func AssetsToPortfolio(assets []Asset) []portfolio.Asset {
	out := make([]portfolio.Asset, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.ToPortfolio())
	}
	return out
}

type AssetRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Name     string `json:"name"`
	Category string `json:"category" binding:"required"`
	Currency string `json:"currency"`
}

// ToModel validates the request and normalizes symbol and category
func (r AssetRequest) ToModel() (Asset, error) {
	symbol := strings.ToUpper(strings.TrimSpace(r.Symbol))
	if symbol == "" {
		return Asset{}, fmt.Errorf("symbol is required")
	}
	category := portfolio.NormalizeCategory(r.Category)
	if category == "" {
		return Asset{}, fmt.Errorf("category is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = "EUR"
	}
	return Asset{
		Symbol:   symbol,
		Name:     strings.TrimSpace(r.Name),
		Category: category,
		Currency: currency,
	}, nil
}
