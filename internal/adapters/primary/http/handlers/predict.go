package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"heart-inference-service/internal/adapters/primary/http/dto"
)

func (h *Handler) Predict(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read request body failed"})
		return
	}

	rec, err := dto.ParsePatientRecord(body)
	if err != nil {
		h.metrics.IncValidationFailures()
		mapDomainError(c, err)
		return
	}

	start := time.Now()
	result, err := h.engine.PredictSingle(rec)
	if err != nil {
		log.WithError(err).Error("prediction failed")
		mapDomainError(c, err)
		return
	}

	h.metrics.ObservePrediction(result.Prediction, time.Since(start))
	h.auditor.Record(rec, result)

	log.WithFields(log.Fields{
		"prediction":  result.Label,
		"probability": result.Probability,
		"bundle_id":   result.BundleID,
	}).Info("prediction served")

	c.JSON(http.StatusOK, dto.ToPredictionResponse(result))
}

func (h *Handler) PredictBatch(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read request body failed"})
		return
	}

	records, err := dto.ParseBatch(body)
	if err != nil {
		h.metrics.IncValidationFailures()
		mapDomainError(c, err)
		return
	}

	results, err := h.engine.PredictBatch(records)
	if err != nil {
		log.WithError(err).Error("batch prediction failed")
		mapDomainError(c, err)
		return
	}

	for i, result := range results {
		h.metrics.IncPrediction(result.Prediction)
		h.auditor.Record(records[i], result)
	}

	log.WithField("count", len(results)).Info("batch prediction served")

	c.JSON(http.StatusOK, dto.ToBatchPredictionResponse(results))
}
