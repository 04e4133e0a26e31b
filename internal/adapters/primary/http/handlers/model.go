package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"heart-inference-service/internal/adapters/primary/http/dto"
)

func (h *Handler) ModelInfo(c *gin.Context) {
	info, err := h.engine.Info()
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToModelInfoResponse(info))
}

type reloadRequest struct {
	BundleID string `json:"bundle_id"`
}

// ReloadModel triggers an explicit bundle reload. Without a bundle_id the
// newest bundle is loaded; a failed reload keeps the previous bundle
// serving.
func (h *Handler) ReloadModel(c *gin.Context) {
	var req reloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	bundle, err := h.engine.LoadBundle(c.Request.Context(), req.BundleID)
	h.metrics.IncBundleReloads(err)
	if err != nil {
		log.WithError(err).Error("bundle reload failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReloadResponse{Status: "loaded", BundleID: bundle.ID})
}
