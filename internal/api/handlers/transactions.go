package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

type TransactionHandler struct {
	portfolioService *services.PortfolioService
}

func NewTransactionHandler(portfolioService *services.PortfolioService) *TransactionHandler {
	return &TransactionHandler{portfolioService: portfolioService}
}

func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	assetID, ok := parseAssetFilter(c)
	if !ok {
		return
	}

	db := database.GetDB()

	txs := []models.Transaction{}
	query := db.Order("date DESC, id DESC")
	if assetID != 0 {
		query = query.Where("asset_id = ?", assetID)
	}

	if err := query.Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, txs)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireAsset(c, tx.AssetID) {
		return
	}

	if err := database.GetDB().Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// UpdateTransaction replaces every field of a transaction. Positions are
// replayed from the ledger on the next read.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var tx models.Transaction
	if err := db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !requireAsset(c, update.AssetID) {
		return
	}

	tx.AssetID = update.AssetID
	tx.Type = update.Type
	tx.Date = update.Date
	tx.Quantity = update.Quantity
	tx.UnitPrice = update.UnitPrice
	tx.Fees = update.Fees
	tx.Notes = update.Notes

	if err := db.Save(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.pruneClosedPrices(c)

	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	if deleteByID(c, &models.Transaction{}, "transaction") {
		h.pruneClosedPrices(c)
	}
}

// pruneClosedPrices drops prices of positions an edit has closed. The
// response does not depend on it, so failures are only logged.
func (h *TransactionHandler) pruneClosedPrices(c *gin.Context) {
	if _, err := h.portfolioService.PruneClosedPrices(c.Request.Context()); err != nil {
		log.Printf("Failed to prune closed prices: %v", err)
	}
}
