package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bestopensors/posterbadge/internal/model"
	"github.com/bestopensors/posterbadge/internal/storage"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	jobRepo storage.BadgeJobRepository
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(jobRepo storage.BadgeJobRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// Stats returns badge job counts plus the most recent runs.
// Route: GET /api/v1/admin/stats?recent=10
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.jobRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting badge jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	applied, err := h.jobRepo.CountByStatus(ctx, model.StatusApplied)
	if err != nil {
		h.logger.Error("counting applied jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	skipped, err := h.jobRepo.CountByStatus(ctx, model.StatusSkipped)
	if err != nil {
		h.logger.Error("counting skipped jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	failed, err := h.jobRepo.CountByStatus(ctx, model.StatusFailed)
	if err != nil {
		h.logger.Error("counting failed jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("recent", "10"))
	if err != nil || limit < 0 || limit > 100 {
		limit = 10
	}
	recent, err := h.jobRepo.ListRecent(ctx, limit)
	if err != nil {
		h.logger.Error("listing recent jobs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"applied": applied,
		"skipped": skipped,
		"failed":  failed,
		"recent":  recent,
	})
}
