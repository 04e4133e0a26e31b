package testutil

import (
	"time"

	"heart-inference-service/internal/core/domain"
)

// NewTestBundle builds a valid bundle with an identity transform and a
// logistic model whose probability is driven by the age column alone:
// standardized age above zero scores above 0.5.
func NewTestBundle(id string) *domain.ArtifactBundle {
	n := domain.FeatureCount
	transform := &domain.FittedTransform{
		SchemaVersion: domain.InterchangeSchemaVersion,
		FeatureNames:  domain.FeatureNames(),
		Imputation:    make([]float64, n),
		Mean:          make([]float64, n),
		Scale:         make([]float64, n),
	}
	for i := 0; i < n; i++ {
		transform.Imputation[i] = 50
		transform.Mean[i] = 50
		transform.Scale[i] = 10
	}

	coeffs := make([]float64, n)
	coeffs[0] = 2 // age

	return &domain.ArtifactBundle{
		ID:            id,
		CreatedAt:     time.Now(),
		SchemaVersion: domain.InterchangeSchemaVersion,
		ModelName:     "logistic_regression",
		Transform:     transform,
		Model:         &domain.LogisticModel{Intercept: 0, Coefficients: coeffs},
		Metrics: &domain.TrainingMetrics{
			Accuracy:  0.85,
			Precision: 0.84,
			Recall:    0.88,
			ROCAUC:    0.9,
		},
	}
}
