package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

// parseID reads the :id path parameter, answering 400 when it is malformed
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseAssetFilter reads the optional asset_id query parameter
func parseAssetFilter(c *gin.Context) (uint, bool) {
	raw := c.Query("asset_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset_id"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAssetInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// requireAsset answers 400 when the referenced asset does not exist
func requireAsset(c *gin.Context, assetID uint) bool {
	var count int64
	if err := database.GetDB().Model(&models.Asset{}).Where("id = ?", assetID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset not found"})
		return false
	}
	return true
}

// deleteByID removes a row by primary key, answering 404 when nothing matched
func deleteByID(c *gin.Context, model interface{}, what string) bool {
	id, ok := parseID(c)
	if !ok {
		return false
	}

	result := database.GetDB().Delete(model, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return false
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return false
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	return true
}
