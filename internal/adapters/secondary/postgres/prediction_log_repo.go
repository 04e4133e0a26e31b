package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"heart-inference-service/internal/core/domain"
	ports "heart-inference-service/internal/core/ports/output"
)

// Expected table:
//
//	CREATE TABLE prediction_log (
//	    id          UUID PRIMARY KEY,
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    bundle_id   TEXT NOT NULL,
//	    input       JSONB NOT NULL,
//	    prediction  SMALLINT NOT NULL,
//	    probability DOUBLE PRECISION NOT NULL
//	);
type predictionLogRepo struct {
	pool *pgxpool.Pool
}

// NewPredictionLogRepository creates a new PredictionLogRepository
func NewPredictionLogRepository(pool *pgxpool.Pool) ports.PredictionLogRepository {
	return &predictionLogRepo{pool: pool}
}

func (r *predictionLogRepo) Insert(ctx context.Context, rec *domain.PredictionRecord) error {
	input := make(map[string]float64, domain.FeatureCount)
	for i, name := range domain.FeatureNames() {
		input[name] = rec.Input[i]
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("encode prediction input: %w", err)
	}

	query := `
		INSERT INTO prediction_log
			(id, created_at, bundle_id, input, prediction, probability)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.pool.Exec(ctx, query,
		rec.ID, rec.CreatedAt, rec.BundleID,
		string(payload), rec.Prediction, rec.Probability,
	)
	if err != nil {
		return fmt.Errorf("insert prediction log: %w", err)
	}
	return nil
}
