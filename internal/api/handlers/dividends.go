package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
)

type DividendHandler struct{}

func NewDividendHandler() *DividendHandler {
	return &DividendHandler{}
}

func (h *DividendHandler) GetDividends(c *gin.Context) {
	assetID, ok := parseAssetFilter(c)
	if !ok {
		return
	}

	dividends := []models.Dividend{}
	query := database.GetDB().Order("date DESC, id DESC")
	if assetID != 0 {
		query = query.Where("asset_id = ?", assetID)
	}

	if err := query.Find(&dividends).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dividends)
}

func (h *DividendHandler) CreateDividend(c *gin.Context) {
	var req models.DividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dividend, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !requireAsset(c, dividend.AssetID) {
		return
	}

	if err := database.GetDB().Create(&dividend).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dividend)
}

func (h *DividendHandler) DeleteDividend(c *gin.Context) {
	deleteByID(c, &models.Dividend{}, "dividend")
}
