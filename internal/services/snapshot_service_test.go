package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// seedTwoBuys: 10 units bought in January, 10 more in March, priced at each month end
func seedTwoBuys(t *testing.T, db *gorm.DB) {
	t.Helper()
	acme := createAsset(t, db, "ACME", portfolio.Stocks)
	btc := createAsset(t, db, "BTC", portfolio.Crypto)
	createTx(t, db, acme.ID, portfolio.Buy, "2024-01-10", "10", "50", "0")
	createPrice(t, db, acme.ID, "2024-01-31", "52")
	createTx(t, db, acme.ID, portfolio.Buy, "2024-03-10", "10", "70", "0")
	createPrice(t, db, acme.ID, "2024-03-31", "80")
	createTx(t, db, btc.ID, portfolio.Buy, "2024-03-01", "0.01", "50000", "0")
	createPrice(t, db, btc.ID, "2024-03-31", "60000")
}

func TestSnapshotService_CreateSnapshotLive(t *testing.T) {
	db, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()
	seedTwoBuys(t, db)

	snapshot, created, err := ss.CreateSnapshot(ctx, 1, 2024, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.BasisLive, snapshot.Basis)
	assert.Equal(t, 1, snapshot.Month)
	assert.Equal(t, 2024, snapshot.Year)

	// Live figures are today's, whatever the requested month
	requireDecimal(t, "2200", snapshot.TotalValue)
	requireDecimal(t, "1700", snapshot.TotalInvested)
	requireDecimal(t, "1600", snapshot.StocksValue)
	requireDecimal(t, "600", snapshot.CryptoValue)
	requireDecimal(t, "0", snapshot.EtfValue)
	require.Len(t, snapshot.CategoryDetails, 4)
	requireDecimal(t, "100", snapshot.CategoryDetails[portfolio.Crypto].PL)

	var stored models.PortfolioSnapshot
	require.NoError(t, db.First(&stored, snapshot.ID).Error)
	requireDecimal(t, "2200", stored.TotalValue)
	requireDecimal(t, "400", stored.CategoryDetails[portfolio.Stocks].PL)
}

func TestSnapshotService_CreateSnapshotMonthEnd(t *testing.T) {
	db, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()
	seedTwoBuys(t, db)

	snapshot, _, err := ss.CreateSnapshot(ctx, 1, 2024, models.BasisMonthEnd)
	require.NoError(t, err)
	assert.Equal(t, models.BasisMonthEnd, snapshot.Basis)
	requireDecimal(t, "520", snapshot.TotalValue)
	requireDecimal(t, "500", snapshot.TotalInvested)
	requireDecimal(t, "0", snapshot.CryptoValue)

	snapshot, _, err = ss.CreateSnapshot(ctx, 2, 2024, models.BasisMonthEnd)
	require.NoError(t, err)
	requireDecimal(t, "520", snapshot.TotalValue, "January price carries into February")
}

func TestSnapshotService_CreateSnapshotUpserts(t *testing.T) {
	db, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()
	seedTwoBuys(t, db)

	first, created, err := ss.CreateSnapshot(ctx, 3, 2024, models.BasisMonthEnd)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := ss.CreateSnapshot(ctx, 3, 2024, models.BasisLive)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.BasisLive, second.Basis)

	var count int64
	require.NoError(t, db.Model(&models.PortfolioSnapshot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSnapshotService_CreateSnapshotValidation(t *testing.T) {
	_, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()

	tests := []struct {
		name  string
		month int
		year  int
		basis models.SnapshotBasis
	}{
		{"month zero", 0, 2024, models.BasisLive},
		{"month thirteen", 13, 2024, models.BasisLive},
		{"future month", 5, 2024, models.BasisLive},
		{"unknown basis", 1, 2024, models.SnapshotBasis("fifo")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ss.CreateSnapshot(ctx, tt.month, tt.year, tt.basis)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSnapshotService_UpdateAndDelete(t *testing.T) {
	db, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()
	seedTwoBuys(t, db)

	snapshot, _, err := ss.CreateSnapshot(ctx, 1, 2024, models.BasisMonthEnd)
	require.NoError(t, err)

	value := d("999.99")
	updated, err := ss.UpdateSnapshot(ctx, snapshot.ID, models.UpdateSnapshotRequest{TotalValue: &value})
	require.NoError(t, err)
	requireDecimal(t, "999.99", updated.TotalValue)
	requireDecimal(t, "500", updated.TotalInvested, "other figures are not recomputed")

	_, err = ss.UpdateSnapshot(ctx, 9999, models.UpdateSnapshotRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ss.DeleteSnapshot(ctx, snapshot.ID))
	assert.ErrorIs(t, ss.DeleteSnapshot(ctx, snapshot.ID), ErrNotFound)
	last, err := ss.GetLastSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestSnapshotService_GetHistory(t *testing.T) {
	db, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()

	for _, p := range []struct{ year, month int }{{2022, 12}, {2023, 3}, {2023, 12}, {2024, 1}, {2024, 3}} {
		require.NoError(t, db.Create(&models.PortfolioSnapshot{Year: p.year, Month: p.month, Basis: models.BasisLive}).Error)
	}

	tests := []struct {
		period string
		want   int
	}{
		{"3month", 2},
		{"6month", 3},
		{"year", 3},
		{"", 3},
		{"all", 5},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			snapshots, err := ss.GetHistory(ctx, tt.period)
			require.NoError(t, err)
			assert.Len(t, snapshots, tt.want)
		})
	}

	all, err := ss.GetHistory(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, 2022, all[0].Year, "oldest first")

	list, err := ss.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2024, list[0].Year)
	assert.Equal(t, 3, list[0].Month)

	last, err := ss.GetLastSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 3, last.Month)
}

func TestSnapshotService_Backfill(t *testing.T) {
	db, _, ss := newTestServices(t, portfolio.ScaleClosingSell)
	ctx := context.Background()
	seedTwoBuys(t, db)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	dry, err := ss.Backfill(ctx, from, to, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04"}, dry.Created)
	assert.Equal(t, []string{"2024-05", "2024-06"}, dry.Skipped)
	last, err := ss.GetLastSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, last, "dry run writes nothing")

	result, err := ss.Backfill(ctx, from, to, false)
	require.NoError(t, err)
	assert.Len(t, result.Created, 4)
	assert.Empty(t, result.Updated)

	history, err := ss.GetHistory(ctx, "all")
	require.NoError(t, err)
	require.Len(t, history, 4)
	requireDecimal(t, "520", history[0].TotalValue)
	requireDecimal(t, "2200", history[2].TotalValue)

	again, err := ss.Backfill(ctx, from, from, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01"}, again.Updated)

	_, err = ss.Backfill(ctx, to, from, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
