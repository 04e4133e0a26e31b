package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	LabelDisease   = "Disease Present"
	LabelNoDisease = "No Disease"
)

// TrainingMetrics is the evaluation snapshot recorded by the training side.
type TrainingMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	ROCAUC    float64 `json:"roc_auc"`
}

// ArtifactBundle is a matched (transform, model, metadata) triple loaded
// from the artifact store. Immutable after load and shared read-only by
// all request workers.
type ArtifactBundle struct {
	// ID is the timestamp suffix shared by the bundle's files,
	// e.g. "20240311_142530".
	ID            string
	CreatedAt     time.Time
	SchemaVersion int
	ModelName     string
	Transform     *FittedTransform
	Model         Scorer
	Metrics       *TrainingMetrics
}

// Validate enforces the bundle invariants: a consistent transform and a
// model whose feature count matches it. Violations are configuration
// errors fatal to the load, never recoverable per-request.
func (b *ArtifactBundle) Validate() error {
	if b.Transform == nil || b.Model == nil {
		return fmt.Errorf("bundle %s is incomplete: %w", b.ID, ErrNoArtifactFound)
	}
	if err := b.Transform.Validate(); err != nil {
		return fmt.Errorf("bundle %s: %w", b.ID, err)
	}
	if b.Transform.SchemaVersion != b.SchemaVersion {
		return fmt.Errorf("bundle %s: transform schema v%d, model schema v%d: %w",
			b.ID, b.Transform.SchemaVersion, b.SchemaVersion, ErrSchemaMismatch)
	}
	if b.Model.FeatureCount() != len(b.Transform.FeatureNames) {
		return fmt.Errorf("bundle %s: transform produces %d features, model expects %d: %w",
			b.ID, len(b.Transform.FeatureNames), b.Model.FeatureCount(), ErrFeatureCountMismatch)
	}
	return nil
}

// PredictionResult is the outcome of scoring one record. Created per
// request, not persisted.
type PredictionResult struct {
	Prediction  int
	Label       string
	Probability float64
	Confidence  float64
	BundleID    string
}

// ModelInfo is the metadata snapshot reported by the engine.
type ModelInfo struct {
	ModelName          string
	ModelType          string
	BundleID           string
	SchemaVersion      int
	FeatureCount       int
	PreprocessorLoaded bool
	Metrics            *TrainingMetrics
}

// PredictionRecord is one served prediction written to the audit log.
type PredictionRecord struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	BundleID    string
	Input       PatientRecord
	Prediction  int
	Probability float64
}
