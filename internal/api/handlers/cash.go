package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/database"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

type CashHandler struct {
	portfolioService *services.PortfolioService
}

func NewCashHandler(portfolioService *services.PortfolioService) *CashHandler {
	return &CashHandler{portfolioService: portfolioService}
}

func (h *CashHandler) GetCashMovements(c *gin.Context) {
	movements := []models.CashMovement{}
	if err := database.GetDB().Order("date DESC, id DESC").Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, movements)
}

func (h *CashHandler) CreateCashMovement(c *gin.Context) {
	var req models.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, err := req.ToModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.GetDB().Create(&movement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, movement)
}

func (h *CashHandler) DeleteCashMovement(c *gin.Context) {
	deleteByID(c, &models.CashMovement{}, "cash movement")
}

func (h *CashHandler) GetBalance(c *gin.Context) {
	balance, err := h.portfolioService.GetCashBalance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CashBalanceResponse{Balance: balance})
}
