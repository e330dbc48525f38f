package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
)

type PriceHandler struct {
	now func() time.Time
}

func NewPriceHandler() *PriceHandler {
	return &PriceHandler{now: time.Now}
}

// GetPrices returns price points newest first, optionally for one asset
func (h *PriceHandler) GetPrices(c *gin.Context) {
	assetID, ok := parseAssetFilter(c)
	if !ok {
		return
	}

	db := database.GetDB()

	prices := []models.PricePoint{}
	query := db.Order("date DESC, id DESC")
	if assetID != 0 {
		query = query.Where("asset_id = ?", assetID)
	}

	if err := query.Find(&prices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prices)
}

// CreatePrice records a manual price update. Without a date the price is
// stamped with today.
func (h *PriceHandler) CreatePrice(c *gin.Context) {
	var req models.PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, err := req.ToModel(h.now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireAsset(c, price.AssetID) {
		return
	}

	if err := database.GetDB().Create(&price).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, price)
}

func (h *PriceHandler) DeletePrice(c *gin.Context) {
	deleteByID(c, &models.PricePoint{}, "price")
}
