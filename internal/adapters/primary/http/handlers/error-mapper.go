package handlers

import (
	"errors"
	"net/http"

	"heart-inference-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	var batchErr *domain.BatchValidationError
	var valErr *domain.ValidationError

	switch {
	// Validation errors
	case errors.As(err, &batchErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  batchErr.Error(),
			"index":  batchErr.Index,
			"fields": batchErr.Err.Fields,
		})

	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  valErr.Error(),
			"fields": valErr.Fields,
		})

	// Readiness errors
	case errors.Is(err, domain.ErrModelNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded, check /health"})

	// Load failures
	case errors.Is(err, domain.ErrNoArtifactFound),
		errors.Is(err, domain.ErrSchemaMismatch),
		errors.Is(err, domain.ErrFeatureCountMismatch),
		errors.Is(err, domain.ErrUnsupportedModel):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
