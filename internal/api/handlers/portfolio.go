package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

type PortfolioHandler struct {
	portfolioService *services.PortfolioService
}

func NewPortfolioHandler(portfolioService *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetOverview returns holdings, totals and allocation. With ?as_of=YYYY-MM-DD
// the ledger is replayed up to the end of that day.
func (h *PortfolioHandler) GetOverview(c *gin.Context) {
	var (
		ov  portfolio.Overview
		err error
	)

	if asOf := c.Query("as_of"); asOf != "" {
		date, parseErr := models.ParseDate(asOf)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
			return
		}
		ov, err = h.portfolioService.GetOverviewAsOf(c.Request.Context(), date)
	} else {
		ov, err = h.portfolioService.GetOverview(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ov)
}

func (h *PortfolioHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.portfolioService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *PortfolioHandler) GetClosedPositions(c *gin.Context) {
	closed, err := h.portfolioService.GetClosedPositions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, closed)
}

// GetValueSeries returns the month-end value of the portfolio since the first transaction
func (h *PortfolioHandler) GetValueSeries(c *gin.Context) {
	series, err := h.portfolioService.GetValueSeries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}
