package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// CashMovement is a deposit into or withdrawal from the brokerage account
type CashMovement struct {
	ID          uint                       `json:"id" gorm:"primaryKey;autoIncrement"`
	Type        portfolio.CashMovementType `json:"type" gorm:"not null"`
	Date        time.Time                  `json:"date" gorm:"not null;index"`
	Amount      decimal.Decimal            `json:"amount" gorm:"type:text;not null;serializer:amount"`
	Description string                     `json:"description"`
	CreatedAt   time.Time                  `json:"created_at"`
}

func CashMovementsToPortfolio(movements []CashMovement) []portfolio.CashMovement {
	out := make([]portfolio.CashMovement, 0, len(movements))
	for _, m := range movements {
		out = append(out, portfolio.CashMovement{Type: m.Type, Date: m.Date, Amount: m.Amount})
	}
	return out
}

type CashMovementRequest struct {
	Type        string           `json:"type" binding:"required"`
	Date        string           `json:"date" binding:"required"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description"`
}

func (r CashMovementRequest) ToModel() (CashMovement, error) {
	typ := portfolio.CashMovementType(strings.ToLower(strings.TrimSpace(r.Type)))
	if typ != portfolio.Deposit && typ != portfolio.Withdrawal {
		return CashMovement{}, fmt.Errorf("type must be deposit or withdrawal")
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return CashMovement{}, err
	}
	if r.Amount == nil || !r.Amount.IsPositive() {
		return CashMovement{}, fmt.Errorf("amount must be greater than zero")
	}
	return CashMovement{
		Type:        typ,
		Date:        date,
		Amount:      *r.Amount,
		Description: strings.TrimSpace(r.Description),
	}, nil
}

// CashBalanceResponse is the API response for the cash balance
type CashBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}
