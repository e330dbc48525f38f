// backfill-snapshots writes month-end portfolio snapshots for a range of
// months by replaying the transaction ledger as of each month's last day.
//
// Usage: backfill-snapshots -from=YYYY-MM [-to=YYYY-MM] [-db=<path>] (-dry-run | -execute)
//
// Existing snapshots in the range are overwritten with month-end figures.
// Months that have not started yet are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/config"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

const monthLayout = "2006-01"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := flag.String("db", cfg.Database.Path, "Path to SQLite database")
	from := flag.String("from", "", "First month to backfill, YYYY-MM (required)")
	to := flag.String("to", "", "Last month to backfill, YYYY-MM (defaults to the current month)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without modifying database")
	execute := flag.Bool("execute", false, "Write the snapshots (required to make changes)")
	flag.Parse()

	if *from == "" {
		fmt.Println("Usage: backfill-snapshots -from=YYYY-MM [options]")
		fmt.Println("")
		fmt.Println("Writes month-end portfolio snapshots by replaying the transaction")
		fmt.Println("ledger as of the last day of each month.")
		fmt.Println("")
		fmt.Println("Options:")
		fmt.Println("  -db       Path to SQLite database (default from DB_PATH)")
		fmt.Println("  -from     First month to backfill, YYYY-MM (required)")
		fmt.Println("  -to       Last month to backfill, YYYY-MM (default: current month)")
		fmt.Println("  -dry-run  Preview changes without modifying database")
		fmt.Println("  -execute  Write the snapshots")
		fmt.Println("")
		fmt.Println("Examples:")
		fmt.Println("  # Preview a backfill of 2023")
		fmt.Println("  backfill-snapshots -from=2023-01 -to=2023-12 -dry-run")
		fmt.Println("")
		fmt.Println("  # Backfill everything since January 2022")
		fmt.Println("  backfill-snapshots -from=2022-01 -execute")
		os.Exit(1)
	}

	if *dryRun == *execute {
		fmt.Println("Error: Must specify exactly one of -dry-run or -execute")
		os.Exit(1)
	}

	start, err := time.Parse(monthLayout, *from)
	if err != nil {
		log.Fatalf("Invalid -from %q: expected YYYY-MM", *from)
	}
	end := time.Now().UTC()
	if *to != "" {
		if end, err = time.Parse(monthLayout, *to); err != nil {
			log.Fatalf("Invalid -to %q: expected YYYY-MM", *to)
		}
	}

	// Initialize database
	if err := database.Initialize(*dbPath, cfg.Database.LogLevel); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	portfolioService := services.NewPortfolioService(db, cfg.Portfolio.CyclePLMethod)
	snapshotService := services.NewSnapshotService(db, portfolioService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Backfilling month-end snapshots from %s to %s...", start.Format(monthLayout), end.Format(monthLayout))
	result, err := snapshotService.Backfill(ctx, start, end, *dryRun)
	printSummary(result, *dryRun)
	if err != nil {
		log.Fatalf("Backfill stopped: %v", err)
	}
}

func printSummary(result models.BackfillResult, dryRun bool) {
	fmt.Println("")
	fmt.Println("=== Backfill Summary ===")
	if dryRun {
		fmt.Println("(DRY RUN - no changes made)")
	}
	fmt.Printf("Created:     %d\n", len(result.Created))
	fmt.Printf("Overwritten: %d\n", len(result.Updated))
	fmt.Printf("Skipped:     %d\n", len(result.Skipped))

	if len(result.Updated) > 0 {
		fmt.Println("\n--- Existing snapshots replaced with month-end figures ---")
		fmt.Printf("  %s\n", strings.Join(result.Updated, ", "))
	}

	if len(result.Skipped) > 0 {
		fmt.Println("\n--- Months not started yet ---")
		fmt.Printf("  %s\n", strings.Join(result.Skipped, ", "))
	}
}
