package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
)

var DB *gorm.DB

// Initialize opens the sqlite database at dbPath, migrates the schema and
// stores the connection in DB.
func Initialize(dbPath, logLevel string) error {
	db, err := Open(dbPath, logLevel)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to dbPath and brings the schema up to date without touching
// the package-level DB.
func Open(dbPath, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	log.Println("Database connected successfully")

	// Must run before the unique (year, month) index is created
	if err := cleanupDuplicateSnapshots(db); err != nil {
		return nil, fmt.Errorf("cleanup duplicate snapshots: %w", err)
	}

	err = db.AutoMigrate(
		&models.Asset{},
		&models.Transaction{},
		&models.PricePoint{},
		&models.Dividend{},
		&models.CashMovement{},
		&models.PortfolioSnapshot{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("data migrations: %w", err)
	}

	log.Println("Database migration completed")
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
