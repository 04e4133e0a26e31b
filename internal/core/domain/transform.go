package domain

import (
	"fmt"
	"math"
	"sort"
)

// missingSentinel marks an unobserved value in the upstream dataset. The
// source files encode missing values as -9; NaN covers values already
// cleaned in memory.
const missingSentinel = -9

func isMissing(v float64) bool {
	return math.IsNaN(v) || v == missingSentinel
}

// FittedTransform holds the per-feature imputation and scaling parameters
// learned at training time. Immutable after load; Apply is safe for
// concurrent use.
type FittedTransform struct {
	SchemaVersion int       `json:"schema_version"`
	FeatureNames  []string  `json:"feature_names"`
	Imputation    []float64 `json:"imputation"`
	Mean          []float64 `json:"mean"`
	Scale         []float64 `json:"scale"`
}

// FitTransform computes, per feature, the median of non-missing values and
// the mean/standard deviation over the imputed column. Returns
// ErrInsufficientData when a column has no observable value at all.
func FitTransform(records []PatientRecord) (*FittedTransform, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("fit transform: %w", ErrInsufficientData)
	}

	t := &FittedTransform{
		SchemaVersion: InterchangeSchemaVersion,
		FeatureNames:  FeatureNames(),
		Imputation:    make([]float64, FeatureCount),
		Mean:          make([]float64, FeatureCount),
		Scale:         make([]float64, FeatureCount),
	}

	for col := 0; col < FeatureCount; col++ {
		observed := make([]float64, 0, len(records))
		for _, rec := range records {
			if !isMissing(rec[col]) {
				observed = append(observed, rec[col])
			}
		}
		if len(observed) == 0 {
			return nil, fmt.Errorf("fit transform: column %q: %w", Schema[col].Name, ErrInsufficientData)
		}
		t.Imputation[col] = median(observed)

		var sum float64
		for _, rec := range records {
			v := rec[col]
			if isMissing(v) {
				v = t.Imputation[col]
			}
			sum += v
		}
		mean := sum / float64(len(records))

		var sqDiff float64
		for _, rec := range records {
			v := rec[col]
			if isMissing(v) {
				v = t.Imputation[col]
			}
			sqDiff += (v - mean) * (v - mean)
		}
		t.Mean[col] = mean
		t.Scale[col] = math.Sqrt(sqDiff / float64(len(records)))
	}

	return t, nil
}

// Apply imputes missing values and standardizes the record. Pure and
// deterministic: identical (transform, record) pairs always produce the
// same vector. Values outside the training distribution are scaled
// numerically without rejection; range validation happens at the request
// boundary.
func (t *FittedTransform) Apply(rec PatientRecord) (FeatureVector, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	out := make(FeatureVector, FeatureCount)
	for i := 0; i < FeatureCount; i++ {
		v := rec[i]
		if isMissing(v) {
			v = t.Imputation[i]
		}
		scale := t.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - t.Mean[i]) / scale
	}
	return out, nil
}

// Validate checks internal consistency of a deserialized transform.
func (t *FittedTransform) Validate() error {
	n := len(t.FeatureNames)
	if n == 0 {
		return fmt.Errorf("transform has no features: %w", ErrFeatureCountMismatch)
	}
	if len(t.Imputation) != n || len(t.Mean) != n || len(t.Scale) != n {
		return fmt.Errorf("transform parameter lengths disagree with %d features: %w", n, ErrFeatureCountMismatch)
	}
	if n != FeatureCount {
		return fmt.Errorf("transform fitted on %d features, schema declares %d: %w", n, FeatureCount, ErrFeatureCountMismatch)
	}
	return nil
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
