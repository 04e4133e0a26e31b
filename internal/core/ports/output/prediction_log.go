package ports

import (
	"context"

	"heart-inference-service/internal/core/domain"
)

// PredictionLogRepository persists served predictions for auditing.
// Writes happen off the request path.
type PredictionLogRepository interface {
	Insert(ctx context.Context, rec *domain.PredictionRecord) error
}
