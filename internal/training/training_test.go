package training

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heart-inference-service/internal/adapters/secondary/fsstore"
	"heart-inference-service/internal/core/domain"
)

const sampleCSV = `age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,target
63,1,1,145,233,1,2,150,0,2.3,3,0,6,0
67,1,4,160,286,0,2,108,1,1.5,2,3,3,2
67,1,4,120,229,0,2,129,1,2.6,2,2,7,1
37,1,3,130,250,0,0,187,0,3.5,3,0,3,0
41,0,2,130,204,0,2,172,0,1.4,1,0,3,0
56,1,2,120,236,0,0,178,0,0.8,1,0,3,0
62,0,4,140,268,0,2,160,0,3.6,3,2,3,3
57,0,4,120,354,0,0,163,1,0.6,1,0,3,0
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heart.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	ds, err := LoadCSV(writeCSV(t, sampleCSV))
	require.NoError(t, err)
	assert.Len(t, ds.Records, 8)

	// Target collapses to binary: anything above 0 is disease.
	assert.Equal(t, []int{0, 1, 1, 0, 0, 0, 1, 0}, ds.Labels)
	assert.Equal(t, 63.0, ds.Records[0][0])
	assert.Equal(t, 7.0, ds.Records[2][12])
}

func TestLoadCSV_CleansMissingValues(t *testing.T) {
	csv := "age,sex,cp,trestbps,chol,fbs,restecg,thalach,exang,oldpeak,slope,ca,thal,target\n" +
		"63,1,1,145,233,1,2,150,0,2.3,3,?,-9,1\n" +
		"41,0,2,130,204,0,2,172,0,1.4,1,0,3,?\n"
	ds, err := LoadCSV(writeCSV(t, csv))
	require.NoError(t, err)

	// The row with a missing target is dropped entirely.
	require.Len(t, ds.Records, 1)
	assert.True(t, math.IsNaN(ds.Records[0][11]), "? becomes missing")
	assert.True(t, math.IsNaN(ds.Records[0][12]), "-9 becomes missing")
}

func TestLoadCSV_ColumnOrderIndependent(t *testing.T) {
	csv := "target,thal,ca,slope,oldpeak,exang,thalach,restecg,fbs,chol,trestbps,cp,sex,age\n" +
		"1,6,0,3,2.3,0,150,2,1,233,145,1,1,63\n"
	ds, err := LoadCSV(writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, 63.0, ds.Records[0][0])
	assert.Equal(t, 6.0, ds.Records[0][12])
	assert.Equal(t, []int{1}, ds.Labels)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	_, err := LoadCSV(writeCSV(t, "age,target\n63,1\n"))
	assert.ErrorContains(t, err, `no "sex" column`)
}

func TestLoadCSV_NoTarget(t *testing.T) {
	_, err := LoadCSV(writeCSV(t, "age,sex\n63,1\n"))
	assert.ErrorContains(t, err, "no target column")
}

func TestSplit_Deterministic(t *testing.T) {
	ds, err := LoadCSV(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	train1, test1 := ds.Split(0.25, 42)
	train2, test2 := ds.Split(0.25, 42)
	assert.Equal(t, train1.Records, train2.Records)
	assert.Equal(t, test1.Records, test2.Records)

	assert.Len(t, test1.Records, 2)
	assert.Len(t, train1.Records, 6)
	assert.Len(t, train1.Labels, 6)
}

func TestTrainLogistic_SeparableData(t *testing.T) {
	// One feature cleanly separates the classes.
	var features []domain.FeatureVector
	var labels []int
	for i := 0; i < 20; i++ {
		x := make(domain.FeatureVector, 2)
		if i%2 == 0 {
			x[0] = 1
			labels = append(labels, 1)
		} else {
			x[0] = -1
			labels = append(labels, 0)
		}
		features = append(features, x)
	}

	model, err := TrainLogistic(features, labels, LogisticOptions{})
	require.NoError(t, err)
	assert.Positive(t, model.Coefficients[0])

	for i, x := range features {
		p, err := model.Score(x)
		require.NoError(t, err)
		assert.Equal(t, labels[i] == 1, p >= 0.5, "sample %d", i)
	}
}

func TestTrainLogistic_Deterministic(t *testing.T) {
	features := []domain.FeatureVector{{1, 0}, {-1, 0}, {0.5, 1}, {-0.5, -1}}
	labels := []int{1, 0, 1, 0}

	m1, err := TrainLogistic(features, labels, LogisticOptions{})
	require.NoError(t, err)
	m2, err := TrainLogistic(features, labels, LogisticOptions{})
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}

func TestTrainLogistic_EmptyInput(t *testing.T) {
	_, err := TrainLogistic(nil, nil, LogisticOptions{})
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestEvaluate(t *testing.T) {
	// Fixed scorer: probability is the first feature.
	model := &domain.LogisticModel{Coefficients: []float64{10}}

	features := []domain.FeatureVector{{1}, {1}, {-1}, {-1}}
	labels := []int{1, 0, 0, 0}

	m, err := Evaluate(model, features, labels)
	require.NoError(t, err)
	// tp=1 fp=1 tn=2 fn=0
	assert.InDelta(t, 0.75, m.Accuracy, 1e-9)
	assert.InDelta(t, 0.5, m.Precision, 1e-9)
	assert.InDelta(t, 1.0, m.Recall, 1e-9)
}

func TestRocAUC(t *testing.T) {
	// Perfect ranking.
	assert.InDelta(t, 1.0, rocAUC([]float64{0.9, 0.8, 0.2, 0.1}, []int{1, 1, 0, 0}), 1e-9)
	// Inverted ranking.
	assert.InDelta(t, 0.0, rocAUC([]float64{0.1, 0.2, 0.8, 0.9}, []int{1, 1, 0, 0}), 1e-9)
	// All scores tied: no discrimination.
	assert.InDelta(t, 0.5, rocAUC([]float64{0.5, 0.5, 0.5, 0.5}, []int{1, 1, 0, 0}), 1e-9)
	// Degenerate single-class set.
	assert.Equal(t, 0.0, rocAUC([]float64{0.5, 0.6}, []int{1, 1}))
}

// End-to-end: train, write a bundle, and load it back through the serving
// store.
func TestWriteBundle_RoundTrip(t *testing.T) {
	ds, err := LoadCSV(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	transform, err := domain.FitTransform(ds.Records)
	require.NoError(t, err)

	features := make([]domain.FeatureVector, len(ds.Records))
	for i, rec := range ds.Records {
		features[i], err = transform.Apply(rec)
		require.NoError(t, err)
	}

	model, err := TrainLogistic(features, ds.Labels, LogisticOptions{})
	require.NoError(t, err)

	metrics, err := Evaluate(model, features, ds.Labels)
	require.NoError(t, err)

	dir := t.TempDir()
	now := time.Date(2024, 3, 11, 14, 25, 30, 0, time.UTC)
	id, err := WriteBundle(dir, "logistic_regression", transform, model, metrics, now)
	require.NoError(t, err)
	assert.Equal(t, "20240311_142530", id)

	store := fsstore.New(dir, "logistic_regression")
	bundle, err := store.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, bundle.ID)
	assert.Equal(t, domain.ModelKindLogistic, bundle.Model.Kind())
	require.NotNil(t, bundle.Metrics)
	assert.InDelta(t, metrics.Accuracy, bundle.Metrics.Accuracy, 1e-9)

	// The reloaded bundle scores identically to the in-memory model.
	vec, err := bundle.Transform.Apply(ds.Records[0])
	require.NoError(t, err)
	want, err := model.Score(features[0])
	require.NoError(t, err)
	got, err := bundle.Model.Score(vec)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}
