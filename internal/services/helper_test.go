package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

var testNow = time.Date(2024, time.April, 15, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestServices(t *testing.T, method portfolio.CyclePLMethod) (*gorm.DB, *PortfolioService, *SnapshotService) {
	t.Helper()
	db := newTestDB(t)
	ps := NewPortfolioService(db, method)
	ps.now = func() time.Time { return testNow }
	ss := NewSnapshotService(db, ps)
	ss.now = func() time.Time { return testNow }
	return db, ps, ss
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createAsset(t *testing.T, db *gorm.DB, symbol string, category portfolio.Category) models.Asset {
	t.Helper()
	asset := models.Asset{Symbol: symbol, Name: symbol, Category: category, Currency: "EUR"}
	require.NoError(t, db.Create(&asset).Error)
	return asset
}

func createTx(t *testing.T, db *gorm.DB, assetID uint, typ portfolio.TransactionType, on, qty, price, fees string) models.Transaction {
	t.Helper()
	tx := models.Transaction{AssetID: assetID, Type: typ, Date: date(on), Quantity: d(qty), UnitPrice: d(price), Fees: d(fees)}
	require.NoError(t, db.Create(&tx).Error)
	return tx
}

func createPrice(t *testing.T, db *gorm.DB, assetID uint, on, closePrice string) models.PricePoint {
	t.Helper()
	p := models.PricePoint{AssetID: assetID, Date: date(on), ClosePrice: d(closePrice), Source: models.PriceSourceManual}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func createDividend(t *testing.T, db *gorm.DB, assetID uint, on, amount string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Dividend{AssetID: assetID, Date: date(on), Amount: d(amount), TaxWithheld: decimal.Zero}).Error)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, d(want).Round(6).String(), got.Round(6).String(), msgAndArgs...)
}
