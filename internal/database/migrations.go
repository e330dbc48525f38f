package database

import (
	"log"

	"gorm.io/gorm"
)

// cleanupDuplicateSnapshots removes duplicate portfolio_snapshots entries before the unique constraint is added
// This runs BEFORE AutoMigrate to prevent constraint violations
func cleanupDuplicateSnapshots(db *gorm.DB) error {
	if !db.Migrator().HasTable("portfolio_snapshots") {
		return nil // No table, no duplicates to clean
	}

	// Keep the most recently written row of every (year, month)
	result := db.Exec(`
		DELETE FROM portfolio_snapshots
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM portfolio_snapshots
			GROUP BY year, month
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d duplicate portfolio_snapshots entries", result.RowsAffected)
	}

	return nil
}

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := migrateCategoryLabels(db); err != nil {
		return err
	}
	if err := migrateTransactionTypes(db); err != nil {
		return err
	}
	migrateSnapshotBasis(db)
	return nil
}

// migrateCategoryLabels rewrites legacy asset categories onto the current
// labels. Safe to run multiple times.
func migrateCategoryLabels(db *gorm.DB) error {
	renames := []struct {
		from []string
		to   string
	}{
		{[]string{"stock", "stocks"}, "stocks"},
		{[]string{"fund", "funds", "bond", "bonds"}, "bonds"},
		{[]string{"etf", "etfs"}, "etf"},
		{[]string{"crypto", "cryptocurrency"}, "crypto"},
	}

	for _, r := range renames {
		result := db.Exec(`UPDATE assets SET category = ? WHERE LOWER(TRIM(category)) IN ? AND category != ?`, r.to, r.from, r.to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Printf("Migrated %d assets to category %q", result.RowsAffected, r.to)
		}
	}
	return nil
}

// migrateTransactionTypes lowercases legacy "BUY"/"SELL" values
func migrateTransactionTypes(db *gorm.DB) error {
	result := db.Exec(`UPDATE transactions SET type = LOWER(TRIM(type)) WHERE type != LOWER(TRIM(type))`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Normalized %d transaction types", result.RowsAffected)
	}
	return nil
}

// migrateSnapshotBasis marks snapshots written before the basis column existed as live
func migrateSnapshotBasis(db *gorm.DB) {
	result := db.Exec(`UPDATE portfolio_snapshots SET basis = 'live' WHERE basis IS NULL OR basis = ''`)
	if result.Error != nil {
		log.Printf("Warning: failed to default snapshot basis: %v", result.Error)
	}
}
