package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bestopensors/posterbadge/internal/model"
	"github.com/bestopensors/posterbadge/internal/service"
)

// maxUploadBytes caps the poster upload size for previews. Posters are a few
// MB at most; anything larger is a mistake or abuse.
const maxUploadBytes = 32 << 20

// BadgeHandler handles badge preview and apply requests.
// It delegates to PosterService which runs the full pipeline:
// facts → skip rules → content → layout → render → write.
type BadgeHandler struct {
	posterService *service.PosterService
	logger        *zap.Logger
}

// NewBadgeHandler creates a new BadgeHandler with the poster service.
func NewBadgeHandler(posterService *service.PosterService, logger *zap.Logger) *BadgeHandler {
	return &BadgeHandler{
		posterService: posterService,
		logger:        logger,
	}
}

// applyRequest is the body of a batch apply call.
type applyRequest struct {
	Items []model.MediaItem `json:"items" binding:"required"`
}

// Preview composes badges onto an uploaded poster and streams back the PNG
// without touching disk or the database.
// Route: POST /api/v1/preview (multipart: "poster" file + "item" JSON field)
//
// A skipped item is not an error: the response is the JSON result instead of
// an image, so callers can show "why no badges" in a UI.
func (h *BadgeHandler) Preview(c *gin.Context) {
	var item model.MediaItem
	if err := json.Unmarshal([]byte(c.PostForm("item")), &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid item JSON: " + err.Error(),
		})
		return
	}

	file, err := c.FormFile("poster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing poster file",
		})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "poster too large",
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "reading poster upload: " + err.Error(),
		})
		return
	}
	defer f.Close()

	poster, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "reading poster upload: " + err.Error(),
		})
		return
	}

	data, res, err := h.posterService.Preview(c.Request.Context(), item, poster)
	if err != nil {
		// Only cancellation reaches here; the client went away.
		c.Status(http.StatusRequestTimeout)
		return
	}

	switch res.Status {
	case model.StatusApplied:
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", data)
	case model.StatusSkipped:
		c.JSON(http.StatusOK, res)
	default:
		h.logger.Warn("preview failed",
			zap.String("item", item.ID),
			zap.String("detail", res.Detail),
		)
		c.JSON(http.StatusUnprocessableEntity, res)
	}
}

// Apply runs the durable pipeline over a batch of items and returns per-item
// results. Per-item failures never fail the request — they are reported in
// the corresponding result.
// Route: POST /api/v1/apply
func (h *BadgeHandler) Apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "items must not be empty",
		})
		return
	}

	results, err := h.posterService.ApplyBatch(c.Request.Context(), req.Items)
	if err != nil {
		c.Status(http.StatusRequestTimeout)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}
