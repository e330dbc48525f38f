package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

type AssetHandler struct {
	portfolioService *services.PortfolioService
}

func NewAssetHandler(portfolioService *services.PortfolioService) *AssetHandler {
	return &AssetHandler{portfolioService: portfolioService}
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	db := database.GetDB()

	assets := []models.Asset{}
	query := db.Order("symbol ASC")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", portfolio.NormalizeCategory(category))
	}

	if err := query.Find(&assets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var count int64
	if err := db.Model(&models.Asset{}).Where("symbol = ?", asset.Symbol).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "an asset with symbol " + asset.Symbol + " already exists"})
		return
	}

	if err := db.Create(&asset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// GetAsset returns the asset with its position, holding, transactions,
// closed cycles and dividends
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.portfolioService.GetAssetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.AssetRequest
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

	var asset models.Asset
	if err := db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if update.Symbol != asset.Symbol {
		var count int64
		if err := db.Model(&models.Asset{}).Where("symbol = ? AND id <> ?", update.Symbol, id).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "an asset with symbol " + update.Symbol + " already exists"})
			return
		}
	}

	asset.Symbol = update.Symbol
	asset.Name = update.Name
	asset.Category = update.Category
	asset.Currency = update.Currency

	if err := db.Save(&asset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.portfolioService.DeleteAsset(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GetAssetSeries returns month-end quantity, invested and value of one asset
func (h *AssetHandler) GetAssetSeries(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	series, err := h.portfolioService.GetAssetSeries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}
