package domain

import (
	"fmt"
	"math"
)

// FeatureCount is the width of the patient record every fitted transform
// and model in this service consumes.
const FeatureCount = 13

// PatientRecord is one patient observation in schema order.
type PatientRecord [FeatureCount]float64

// FeatureVector is a preprocessed record, ready for scoring. Transient;
// never persisted.
type FeatureVector []float64

// FieldSpec is one column of the patient record schema.
type FieldSpec struct {
	Name string
	Min  float64
	Max  float64
}

// Schema declares the 13 input fields in the exact order the transform and
// model were fitted with. Reordering this table silently corrupts
// predictions; it must stay in sync with the training side.
var Schema = [FeatureCount]FieldSpec{
	{Name: "age", Min: 0, Max: 120},
	{Name: "sex", Min: 0, Max: 1},
	{Name: "cp", Min: 1, Max: 4},
	{Name: "trestbps", Min: 0, Max: math.Inf(1)},
	{Name: "chol", Min: 0, Max: math.Inf(1)},
	{Name: "fbs", Min: 0, Max: 1},
	{Name: "restecg", Min: 0, Max: 2},
	{Name: "thalach", Min: 0, Max: math.Inf(1)},
	{Name: "exang", Min: 0, Max: 1},
	{Name: "oldpeak", Min: 0, Max: math.Inf(1)},
	{Name: "slope", Min: 1, Max: 3},
	{Name: "ca", Min: 0, Max: 3},
	{Name: "thal", Min: 3, Max: 7},
}

// Check reports an empty string when v is inside the declared range,
// otherwise a human-readable reason.
func (f FieldSpec) Check(v float64) string {
	if math.IsNaN(v) {
		return "must be a number"
	}
	if v < f.Min || v > f.Max {
		if math.IsInf(f.Max, 1) {
			return fmt.Sprintf("must be >= %g", f.Min)
		}
		return fmt.Sprintf("must be between %g and %g", f.Min, f.Max)
	}
	return ""
}

// FeatureNames returns the schema column names in order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	for i, f := range Schema {
		names[i] = f.Name
	}
	return names
}
