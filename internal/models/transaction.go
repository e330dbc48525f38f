package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

const dateLayout = "2006-01-02"

// Transaction is a buy or sell of an asset. Amounts are stored as text so
// sqlite keeps every digit.
type Transaction struct {
	ID        uint                      `json:"id" gorm:"primaryKey;autoIncrement"`
	AssetID   uint                      `json:"asset_id" gorm:"not null;index"`
	Type      portfolio.TransactionType `json:"type" gorm:"not null"`
	Date      time.Time                 `json:"date" gorm:"not null;index"`
	Quantity  decimal.Decimal           `json:"quantity" gorm:"type:text;not null;serializer:amount"`
	UnitPrice decimal.Decimal           `json:"unit_price" gorm:"type:text;not null;serializer:amount"`
	Fees      decimal.Decimal           `json:"fees" gorm:"type:text;not null;serializer:amount;default:'0'"`
	Notes     string                    `json:"notes"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

func (t Transaction) ToPortfolio() portfolio.Transaction {
	return portfolio.Transaction{
		ID:        t.ID,
		AssetID:   t.AssetID,
		Type:      t.Type,
		Date:      t.Date,
		Quantity:  t.Quantity,
		UnitPrice: t.UnitPrice,
		Fees:      t.Fees,
	}
}

func TransactionsToPortfolio(txs []Transaction) []portfolio.Transaction {
	out := make([]portfolio.Transaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, t.ToPortfolio())
	}
	return out
}

// TransactionRequest accepts amounts as JSON strings or numbers.
type TransactionRequest struct {
	AssetID   uint             `json:"asset_id" binding:"required"`
	Type      string           `json:"type" binding:"required"`
	Date      string           `json:"date" binding:"required"`
	Quantity  *decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"required"`
	Fees      *decimal.Decimal `json:"fees"`
	Notes     string           `json:"notes"`
}

// ToModel validates the request. Over-sells are accepted here; the
// calculation clamps them to the held quantity.
func (r TransactionRequest) ToModel() (Transaction, error) {
	typ, err := portfolio.ParseTransactionType(r.Type)
	if err != nil {
		return Transaction{}, err
	}
	date, err := ParseDate(r.Date)
	if err != nil {
		return Transaction{}, err
	}
	if r.Quantity == nil || !r.Quantity.IsPositive() {
		return Transaction{}, fmt.Errorf("quantity must be greater than zero")
	}
	if r.UnitPrice == nil || r.UnitPrice.IsNegative() {
		return Transaction{}, fmt.Errorf("unit_price must not be negative")
	}
	fees := decimal.Zero
	if r.Fees != nil {
		if r.Fees.IsNegative() {
			return Transaction{}, fmt.Errorf("fees must not be negative")
		}
		fees = *r.Fees
	}
	return Transaction{
		AssetID:   r.AssetID,
		Type:      typ,
		Date:      date,
		Quantity:  *r.Quantity,
		UnitPrice: *r.UnitPrice,
		Fees:      fees,
		Notes:     strings.TrimSpace(r.Notes),
	}, nil
}

// ParseDate accepts YYYY-MM-DD or RFC3339. The result is always UTC because
// sqlite compares stored timestamps as text.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}
