package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/api/handlers"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/config"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

func SetupRouter(cfg *config.Config, portfolioService *services.PortfolioService, snapshotService *services.SnapshotService) (*gin.Engine, error) {
	router := gin.New()
	router.Use(RequestID(), gin.LoggerWithFormatter(accessLogFormat), gin.Recovery(), Metrics())

	frontendPath := cfg.Server.FrontendDistPath
	serveFrontend := frontendPath != "" && dirExists(frontendPath)

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	limiter, err := NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MaxClients)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	assetHandler := handlers.NewAssetHandler(portfolioService)
	transactionHandler := handlers.NewTransactionHandler(portfolioService)
	priceHandler := handlers.NewPriceHandler()
	dividendHandler := handlers.NewDividendHandler()
	cashHandler := handlers.NewCashHandler(portfolioService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)

	// API routes
	api := router.Group("/api")
	api.Use(TokenAuth(cfg.Server.APIToken), limiter.Middleware())
	{
		assets := api.Group("/assets")
		{
			assets.GET("", assetHandler.GetAssets)
			assets.POST("", assetHandler.CreateAsset)
			assets.GET("/:id", assetHandler.GetAsset)
			assets.PUT("/:id", assetHandler.UpdateAsset)
			assets.DELETE("/:id", assetHandler.DeleteAsset)
			assets.GET("/:id/series", assetHandler.GetAssetSeries)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("", transactionHandler.GetTransactions)
			transactions.POST("", transactionHandler.CreateTransaction)
			transactions.PUT("/:id", transactionHandler.UpdateTransaction)
			transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
		}

		prices := api.Group("/prices")
		{
			prices.GET("", priceHandler.GetPrices)
			prices.POST("", priceHandler.CreatePrice)
			prices.DELETE("/:id", priceHandler.DeletePrice)
		}

		dividends := api.Group("/dividends")
		{
			dividends.GET("", dividendHandler.GetDividends)
			dividends.POST("", dividendHandler.CreateDividend)
			dividends.DELETE("/:id", dividendHandler.DeleteDividend)
		}

		cash := api.Group("/cash")
		{
			cash.GET("", cashHandler.GetCashMovements)
			cash.POST("", cashHandler.CreateCashMovement)
			cash.GET("/balance", cashHandler.GetBalance)
			cash.DELETE("/:id", cashHandler.DeleteCashMovement)
		}

		portfolio := api.Group("/portfolio")
		{
			portfolio.GET("/overview", portfolioHandler.GetOverview)
			portfolio.GET("/dashboard", portfolioHandler.GetDashboard)
			portfolio.GET("/closed-positions", portfolioHandler.GetClosedPositions)
			portfolio.GET("/series", portfolioHandler.GetValueSeries)
		}

		snapshots := api.Group("/snapshots")
		{
			snapshots.GET("", snapshotHandler.GetSnapshots)
			snapshots.POST("", snapshotHandler.CreateSnapshot)
			snapshots.PUT("/:id", snapshotHandler.UpdateSnapshot)
			snapshots.DELETE("/:id", snapshotHandler.DeleteSnapshot)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		indexPath := filepath.Join(frontendPath, "index.html")

		router.Static("/assets", filepath.Join(frontendPath, "assets"))
		router.StaticFile("/vite.svg", filepath.Join(frontendPath, "vite.svg"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}

	return router, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
