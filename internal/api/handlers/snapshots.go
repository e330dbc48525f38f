package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/models"
	"github.com/AleRigon22/InvestmentDashboard/backend/internal/services"
)

type SnapshotHandler struct {
	snapshotService *services.SnapshotService
}

func NewSnapshotHandler(snapshot *services.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshot}
}

// GetSnapshots lists every snapshot newest first. With ?period= it returns
// the value history of that period for charting, oldest first.
func (h *SnapshotHandler) GetSnapshots(c *gin.Context) {
	period := c.Query("period")
	if period == "" {
		snapshots, err := h.snapshotService.ListSnapshots(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, snapshots)
		return
	}

	snapshots, err := h.snapshotService.GetHistory(c.Request.Context(), period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Snapshots: snapshots,
		Period:    period,
	})
}

// CreateSnapshot records the value of a month, overwriting an existing
// snapshot of the same period
func (h *SnapshotHandler) CreateSnapshot(c *gin.Context) {
	var req models.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, created, err := h.snapshotService.CreateSnapshot(c.Request.Context(), req.Month, req.Year, req.Basis)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, snapshot)
}

func (h *SnapshotHandler) UpdateSnapshot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.snapshotService.UpdateSnapshot(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *SnapshotHandler) DeleteSnapshot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.snapshotService.DeleteSnapshot(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
