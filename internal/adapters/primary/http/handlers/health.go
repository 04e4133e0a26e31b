package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heart-inference-service/internal/adapters/primary/http/dto"
)

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Heart Disease Prediction API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health":        "/health",
			"predict":       "/predict",
			"predict_batch": "/predict/batch",
			"model_info":    "/model/info",
		},
	})
}

// Health never fails; it reflects the engine state without throwing.
func (h *Handler) Health(c *gin.Context) {
	if !h.engine.Ready() {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:      "unhealthy",
			ModelLoaded: false,
			Message:     "Model not loaded",
		})
		return
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "healthy",
		ModelLoaded: true,
		Message:     "API is ready to serve predictions",
	})
}
