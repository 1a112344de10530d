package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taprate/backend/internal/metrics"
	"github.com/taprate/backend/internal/service"
)

// DrawingHandler handles drawing-related HTTP requests
type DrawingHandler struct {
	drawings *service.DrawingService
}

// NewDrawingHandler creates a new DrawingHandler
func NewDrawingHandler(drawings *service.DrawingService) *DrawingHandler {
	return &DrawingHandler{drawings: drawings}
}

type runDrawingsRequest struct {
	CompanyID string `json:"company_id"`
}

// RunDrawings handles POST / — the periodic trigger or an explicit admin
// action. The body is optional; a malformed body falls back to batch
// mode rather than failing, since the trigger sends none.
func (h *DrawingHandler) RunDrawings(c *gin.Context) {
	start := time.Now()

	var req runDrawingsRequest
	_ = c.ShouldBindJSON(&req)

	results, err := h.drawings.Run(c.Request.Context(), req.CompanyID)
	if err != nil {
		metrics.RecordDrawingDuration("failure", time.Since(start).Seconds())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.RecordDrawingDuration("success", time.Since(start).Seconds())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}
