package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/api"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/config"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	if err := database.Initialize(cfg.Database.Path, cfg.Database.LogLevel); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	portfolioService := services.NewPortfolioService(database.GetDB(), cfg.Portfolio.CyclePLMethod)
	snapshotService := services.NewSnapshotService(database.GetDB(), portfolioService)
	log.Printf("Closed-cycle P/L method: %s", portfolioService.Method())

	// Setup router
	router, err := api.SetupRouter(cfg, portfolioService, snapshotService)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := database.GetDB().DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("Server exited")
}
