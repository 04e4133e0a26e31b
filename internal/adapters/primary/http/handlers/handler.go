package handlers

import (
	"heart-inference-service/internal/core/services"
	"heart-inference-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine  *services.InferenceEngine
	auditor *services.AuditService
	metrics *metrics.Metrics
}

func New(engine *services.InferenceEngine, auditor *services.AuditService, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:  engine,
		auditor: auditor,
		metrics: m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// General
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Prediction
	r.POST("/predict", h.Predict)
	r.POST("/predict/batch", h.PredictBatch)

	// Model
	r.GET("/model/info", h.ModelInfo)
	r.POST("/model/reload", h.ReloadModel)
}
