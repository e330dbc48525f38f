package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/metrics"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// SnapshotService handles monthly portfolio value snapshots
type SnapshotService struct {
	mu        sync.Mutex
	db        *gorm.DB
	portfolio *PortfolioService
	now       func() time.Time
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(db *gorm.DB, portfolioService *PortfolioService) *SnapshotService {
	return &SnapshotService{
		db:        db,
		portfolio: portfolioService,
		now:       time.Now,
	}
}

func periodLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func (s *SnapshotService) validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d out of range 1-12: %w", month, ErrInvalidInput)
	}
	if year < 1900 || year > 9999 {
		return fmt.Errorf("year %d out of range: %w", year, ErrInvalidInput)
	}
	now := s.now()
	if time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location()).After(now) {
		return fmt.Errorf("%s has not started yet: %w", periodLabel(year, month), ErrInvalidInput)
	}
	return nil
}

// overviewFor computes the figures a snapshot of the given period should hold
func (s *SnapshotService) overviewFor(ctx context.Context, month, year int, basis models.SnapshotBasis) (portfolio.Overview, error) {
	switch basis {
	case models.BasisLive:
		return s.portfolio.GetOverview(ctx)
	case models.BasisMonthEnd:
		return s.portfolio.GetOverviewAsOf(ctx, portfolio.MonthEnd(year, time.Month(month), time.UTC))
	default:
		return portfolio.Overview{}, fmt.Errorf("unknown snapshot basis %q: %w", basis, ErrInvalidInput)
	}
}

// CreateSnapshot records the portfolio value for month/year, overwriting an
// existing snapshot of the same period. It reports whether a new row was
// created.
//
// With BasisLive the figures are today's, stamped with the requested period.
// With BasisMonthEnd they are replayed as of the last day of that month.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, month, year int, basis models.SnapshotBasis) (*models.PortfolioSnapshot, bool, error) {
	if basis == "" {
		basis = models.BasisLive
	}
	if err := s.validatePeriod(month, year); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ov, err := s.overviewFor(ctx, month, year, basis)
	if err != nil {
		return nil, false, err
	}
	breakdown := portfolio.Breakdown(ov)

	var snapshot models.PortfolioSnapshot
	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("year = ? AND month = ?", year, month).First(&snapshot).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			snapshot = models.PortfolioSnapshot{Year: year, Month: month}
		case err != nil:
			return err
		}

		snapshot.Basis = basis
		snapshot.TotalValue = ov.TotalValue
		snapshot.TotalInvested = ov.TotalInvested
		snapshot.TotalPL = ov.TotalPL
		snapshot.TotalPLPercent = ov.TotalPLPercent
		snapshot.StocksValue = breakdown[portfolio.Stocks].Value
		snapshot.EtfValue = breakdown[portfolio.ETF].Value
		snapshot.CryptoValue = breakdown[portfolio.Crypto].Value
		snapshot.BondsValue = breakdown[portfolio.Bonds].Value
		snapshot.CategoryDetails = breakdown

		if created {
			return tx.Create(&snapshot).Error
		}
		return tx.Save(&snapshot).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("save snapshot %s: %w", periodLabel(year, month), err)
	}

	metrics.SnapshotsWrittenTotal.WithLabelValues(string(basis)).Inc()
	log.Printf("Snapshot service: recorded %s snapshot for %s (total: %s, invested: %s)",
		basis, periodLabel(year, month), ov.TotalValue.StringFixed(2), ov.TotalInvested.StringFixed(2))

	return &snapshot, created, nil
}

// UpdateSnapshot overwrites the provided figures. Nothing is recomputed.
func (s *SnapshotService) UpdateSnapshot(ctx context.Context, id uint, req models.UpdateSnapshotRequest) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	if err := s.db.WithContext(ctx).First(&snapshot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	req.Apply(&snapshot)
	if err := s.db.WithContext(ctx).Save(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// DeleteSnapshot removes a snapshot
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.PortfolioSnapshot{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListSnapshots returns every snapshot, newest period first
func (s *SnapshotService) ListSnapshots(ctx context.Context) ([]models.PortfolioSnapshot, error) {
	snapshots := []models.PortfolioSnapshot{}
	if err := s.db.WithContext(ctx).Order("year DESC, month DESC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetHistory retrieves snapshots for a given period, oldest first
func (s *SnapshotService) GetHistory(ctx context.Context, period string) ([]models.PortfolioSnapshot, error) {
	snapshots := []models.PortfolioSnapshot{}

	now := s.now()
	var startDate time.Time

	switch period {
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "6month":
		startDate = now.AddDate(0, -6, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(-1, 0, 0) // Default to 1 year
	}

	query := s.db.WithContext(ctx).Order("year ASC, month ASC")
	if !startDate.IsZero() {
		query = query.Where("year > ? OR (year = ? AND month >= ?)", startDate.Year(), startDate.Year(), int(startDate.Month()))
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetLastSnapshot returns the most recent snapshot, or nil when none exists.
func (s *SnapshotService) GetLastSnapshot(ctx context.Context) (*models.PortfolioSnapshot, error) {
	return lastSnapshot(ctx, s.db)
}

func lastSnapshot(ctx context.Context, db *gorm.DB) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	err := db.WithContext(ctx).Order("year DESC, month DESC").First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load last snapshot: %w", err)
	}
	return &snapshot, nil
}

// Backfill writes month-end snapshots for every month from from to to
// inclusive. Months that have not started are skipped. With dryRun nothing
// is written; the result lists what would be created or overwritten.
func (s *SnapshotService) Backfill(ctx context.Context, from, to time.Time, dryRun bool) (models.BackfillResult, error) {
	result := models.BackfillResult{Created: []string{}, Updated: []string{}, Skipped: []string{}}
	if to.Before(from) {
		return result, fmt.Errorf("backfill range ends before it starts: %w", ErrInvalidInput)
	}

	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for ; !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		year, month := cur.Year(), int(cur.Month())
		label := periodLabel(year, month)

		if err := s.validatePeriod(month, year); err != nil {
			result.Skipped = append(result.Skipped, label)
			continue
		}

		if dryRun {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.PortfolioSnapshot{}).
				Where("year = ? AND month = ?", year, month).Count(&count).Error; err != nil {
				return result, err
			}
			if count > 0 {
				result.Updated = append(result.Updated, label)
			} else {
				result.Created = append(result.Created, label)
			}
			continue
		}

		_, created, err := s.CreateSnapshot(ctx, month, year, models.BasisMonthEnd)
		if err != nil {
			return result, err
		}
		if created {
			result.Created = append(result.Created, label)
		} else {
			result.Updated = append(result.Updated, label)
		}
	}
	return result, nil
}
