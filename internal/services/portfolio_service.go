package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/metrics"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// PortfolioService loads ledger rows and replays them through the
// portfolio package. Nothing is cached: every call reads the current rows.
type PortfolioService struct {
	db     *gorm.DB
	method portfolio.CyclePLMethod
	now    func() time.Time
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(db *gorm.DB, method portfolio.CyclePLMethod) *PortfolioService {
	return &PortfolioService{
		db:     db,
		method: method,
		now:    time.Now,
	}
}

// Method returns the configured closed-cycle P&L method
func (s *PortfolioService) Method() portfolio.CyclePLMethod {
	return s.method
}

type ledgerRows struct {
	assets []models.Asset
	txs    []models.Transaction
	prices []models.PricePoint
}

func (r ledgerRows) portfolioAssets() []portfolio.Asset {
	return models.AssetsToPortfolio(r.assets)
}

func (r ledgerRows) portfolioTransactions() []portfolio.Transaction {
	return models.TransactionsToPortfolio(r.txs)
}

func (r ledgerRows) portfolioPrices() []portfolio.PricePoint {
	return models.PricePointsToPortfolio(r.prices)
}

// loadRows reads assets, transactions and prices, optionally scoped to one asset
func (s *PortfolioService) loadRows(ctx context.Context, assetID uint) (ledgerRows, error) {
	var rows ledgerRows
	db := s.db.WithContext(ctx)

	assets := db.Order("id ASC")
	txs := db.Order("date ASC, id ASC")
	prices := db.Order("date ASC, id ASC")
	if assetID != 0 {
		assets = assets.Where("id = ?", assetID)
		txs = txs.Where("asset_id = ?", assetID)
		prices = prices.Where("asset_id = ?", assetID)
	}

	if err := assets.Find(&rows.assets).Error; err != nil {
		return rows, fmt.Errorf("load assets: %w", err)
	}
	if err := txs.Find(&rows.txs).Error; err != nil {
		return rows, fmt.Errorf("load transactions: %w", err)
	}
	if err := prices.Find(&rows.prices).Error; err != nil {
		return rows, fmt.Errorf("load prices: %w", err)
	}
	return rows, nil
}

func observe(view string, start time.Time) {
	metrics.ComputationDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}

// GetOverview values the portfolio as it is now. Price points of positions
// that have been closed are deleted first so a closed asset never carries a
// stale current price.
func (s *PortfolioService) GetOverview(ctx context.Context) (portfolio.Overview, error) {
	defer observe("overview", time.Now())

	rows, err := s.loadRows(ctx, 0)
	if err != nil {
		return portfolio.Overview{}, err
	}
	txs := rows.portfolioTransactions()

	if _, err := s.pruneClosed(ctx, txs); err != nil {
		return portfolio.Overview{}, err
	}

	ov := portfolio.ComputeHoldings(rows.portfolioAssets(), txs, rows.portfolioPrices())

	now := s.now()
	ytd, err := s.dividendsInYear(ctx, now.Year(), now)
	if err != nil {
		return portfolio.Overview{}, err
	}
	ov.YTDDividends = ytd

	metrics.UpdatePortfolioMetrics(ov)
	return ov, nil
}

// GetOverviewAsOf replays transactions and prices dated on or before asOf.
// It never prunes prices: history must stay reproducible.
func (s *PortfolioService) GetOverviewAsOf(ctx context.Context, asOf time.Time) (portfolio.Overview, error) {
	defer observe("as_of", time.Now())

	rows, err := s.loadRows(ctx, 0)
	if err != nil {
		return portfolio.Overview{}, err
	}

	ov := portfolio.OverviewAsOf(rows.portfolioAssets(), rows.portfolioTransactions(), rows.portfolioPrices(), asOf)

	ytd, err := s.dividendsInYear(ctx, asOf.Year(), asOf)
	if err != nil {
		return portfolio.Overview{}, err
	}
	ov.YTDDividends = ytd
	return ov, nil
}

// dividendsInYear sums dividends of year received up to the end of until's day
func (s *PortfolioService) dividendsInYear(ctx context.Context, year int, until time.Time) (decimal.Decimal, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, until.Location())
	var divs []models.Dividend
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, portfolio.EndOfDay(until)).
		Find(&divs).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("load dividends: %w", err)
	}
	return portfolio.YTDDividends(models.DividendsToPortfolio(divs), year), nil
}

// PruneClosedPrices deletes the price points of every asset whose position
// is flat and returns how many were removed.
func (s *PortfolioService) PruneClosedPrices(ctx context.Context) (int64, error) {
	var txs []models.Transaction
	if err := s.db.WithContext(ctx).Find(&txs).Error; err != nil {
		return 0, fmt.Errorf("load transactions: %w", err)
	}
	return s.pruneClosed(ctx, models.TransactionsToPortfolio(txs))
}

func (s *PortfolioService) pruneClosed(ctx context.Context, txs []portfolio.Transaction) (int64, error) {
	closed := portfolio.ClosedAssetIDs(txs)
	if len(closed) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).Where("asset_id IN ?", closed).Delete(&models.PricePoint{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune closed prices: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		metrics.PricesPrunedTotal.Add(float64(result.RowsAffected))
		log.Printf("Portfolio: pruned %d price points of closed positions", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

// GetClosedPositions lists every completed ownership cycle, newest first
func (s *PortfolioService) GetClosedPositions(ctx context.Context) (models.ClosedPositionsResponse, error) {
	defer observe("closed_positions", time.Now())

	rows, err := s.loadRows(ctx, 0)
	if err != nil {
		return models.ClosedPositionsResponse{}, err
	}

	cycles := portfolio.ClosedPositions(rows.portfolioAssets(), rows.portfolioTransactions(), s.method)
	metrics.ClosedCyclesTotal.Set(float64(len(cycles)))

	return models.ClosedPositionsResponse{
		ClosedPositions: cycles,
		TotalRealizedPL: sumRealized(cycles),
		Method:          s.method.String(),
	}, nil
}

func sumRealized(cycles []portfolio.ClosedPosition) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cycles {
		total = total.Add(c.RealizedPL)
	}
	return total
}

// GetAssetDetail returns the position, transactions, cycles and dividends of one asset
func (s *PortfolioService) GetAssetDetail(ctx context.Context, assetID uint) (*models.AssetDetail, error) {
	defer observe("asset_detail", time.Now())

	asset, err := s.findAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	// The holding's weight is relative to the whole portfolio
	rows, err := s.loadRows(ctx, 0)
	if err != nil {
		return nil, err
	}
	allTxs := rows.portfolioTransactions()
	ov := portfolio.ComputeHoldings(rows.portfolioAssets(), allTxs, rows.portfolioPrices())

	var assetTxs []models.Transaction
	var ptxs []portfolio.Transaction
	for i, tx := range rows.txs {
		if tx.AssetID == assetID {
			assetTxs = append(assetTxs, tx)
			ptxs = append(ptxs, allTxs[i])
		}
	}

	var divs []models.Dividend
	if err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).Order("date DESC, id DESC").Find(&divs).Error; err != nil {
		return nil, fmt.Errorf("load dividends: %w", err)
	}
	totalDividends := decimal.Zero
	for _, d := range divs {
		totalDividends = totalDividends.Add(d.Amount)
	}

	detail := &models.AssetDetail{
		Asset:           *asset,
		Position:        portfolio.Aggregate(ptxs),
		Transactions:    nonNilTransactions(assetTxs),
		ClosedPositions: portfolio.ClosedPositions([]portfolio.Asset{asset.ToPortfolio()}, ptxs, s.method),
		Dividends:       nonNilDividends(divs),
		TotalDividends:  totalDividends,
	}
	for i := range ov.Holdings {
		if ov.Holdings[i].Asset.ID == assetID {
			h := ov.Holdings[i]
			detail.Holding = &h
			break
		}
	}
	return detail, nil
}

func nonNilTransactions(txs []models.Transaction) []models.Transaction {
	if txs == nil {
		return []models.Transaction{}
	}
	return txs
}

func nonNilDividends(divs []models.Dividend) []models.Dividend {
	if divs == nil {
		return []models.Dividend{}
	}
	return divs
}

func (s *PortfolioService) findAsset(ctx context.Context, assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.WithContext(ctx).First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
		}
		return nil, fmt.Errorf("load asset: %w", err)
	}
	return &asset, nil
}

// GetValueSeries returns the month-end value of the portfolio from the first
// transaction to now
func (s *PortfolioService) GetValueSeries(ctx context.Context) ([]portfolio.ValuePoint, error) {
	defer observe("value_series", time.Now())

	rows, err := s.loadRows(ctx, 0)
	if err != nil {
		return nil, err
	}
	return portfolio.ValueSeries(rows.portfolioAssets(), rows.portfolioTransactions(), rows.portfolioPrices(), s.now()), nil
}

// GetAssetSeries returns the month-end position of one asset
func (s *PortfolioService) GetAssetSeries(ctx context.Context, assetID uint) ([]portfolio.AssetMonth, error) {
	defer observe("asset_series", time.Now())

	if _, err := s.findAsset(ctx, assetID); err != nil {
		return nil, err
	}
	rows, err := s.loadRows(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return portfolio.AssetSeries(rows.portfolioTransactions(), rows.portfolioPrices(), s.now()), nil
}

// GetCashBalance nets all recorded deposits and withdrawals
func (s *PortfolioService) GetCashBalance(ctx context.Context) (decimal.Decimal, error) {
	var movements []models.CashMovement
	if err := s.db.WithContext(ctx).Find(&movements).Error; err != nil {
		return decimal.Zero, fmt.Errorf("load cash movements: %w", err)
	}
	return portfolio.CashBalance(models.CashMovementsToPortfolio(movements)), nil
}

// GetDashboard combines the live overview, cash balance, closed cycles and
// the change since the latest snapshot
func (s *PortfolioService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	ov, err := s.GetOverview(ctx)
	if err != nil {
		return nil, err
	}
	cash, err := s.GetCashBalance(ctx)
	if err != nil {
		return nil, err
	}
	closed, err := s.GetClosedPositions(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &models.Dashboard{
		Overview:           ov,
		CashBalance:        cash,
		ClosedCycles:       len(closed.ClosedPositions),
		ClosedRealizedPL:   closed.TotalRealizedPL,
		ValueChange:        decimal.Zero,
		ValueChangePercent: decimal.Zero,
	}

	last, err := lastSnapshot(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if last != nil {
		dashboard.LastSnapshot = last
		dashboard.ValueChange = ov.TotalValue.Sub(last.TotalValue)
		if last.TotalValue.IsPositive() {
			dashboard.ValueChangePercent = dashboard.ValueChange.Div(last.TotalValue).Mul(decimal.NewFromInt(100))
		}
	}
	return dashboard, nil
}

// DeleteAsset removes an asset with its prices and dividends. Assets that
// still have transactions cannot be deleted.
func (s *PortfolioService) DeleteAsset(ctx context.Context, assetID uint) error {
	if _, err := s.findAsset(ctx, assetID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Transaction{}).Where("asset_id = ?", assetID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("asset %d has %d transactions: %w", assetID, count, ErrAssetInUse)
		}
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.PricePoint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", assetID).Delete(&models.Dividend{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Asset{}, assetID).Error
	})
}
