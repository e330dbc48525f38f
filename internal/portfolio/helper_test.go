package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// assertDecimal compares after rounding away division noise.
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, dec(want).Round(6).String(), got.Round(6).String(), msgAndArgs...)
}

func buy(id, asset uint, date string, qty, price, fees string) Transaction {
	return Transaction{ID: id, AssetID: asset, Type: Buy, Date: day(date), Quantity: dec(qty), UnitPrice: dec(price), Fees: dec(fees)}
}

func sell(id, asset uint, date string, qty, price, fees string) Transaction {
	return Transaction{ID: id, AssetID: asset, Type: Sell, Date: day(date), Quantity: dec(qty), UnitPrice: dec(price), Fees: dec(fees)}
}

func price(id, asset uint, date, close string) PricePoint {
	return PricePoint{ID: id, AssetID: asset, Date: day(date), ClosePrice: dec(close), CreatedAt: day(date)}
}

var (
	acme  = Asset{ID: 1, Symbol: "ACME", Name: "Acme Corp", Category: Stocks}
	world = Asset{ID: 2, Symbol: "VWCE", Name: "FTSE All-World", Category: ETF}
	btc   = Asset{ID: 3, Symbol: "BTC", Name: "Bitcoin", Category: Crypto}
	govt  = Asset{ID: 4, Symbol: "BTP", Name: "BTP 2030", Category: Bonds}
)
