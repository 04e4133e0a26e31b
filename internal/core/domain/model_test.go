package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogisticModel_Score(t *testing.T) {
	model := &LogisticModel{Intercept: 0, Coefficients: []float64{1, -1}}

	p, err := model.Score(FeatureVector{0, 0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, err = model.Score(FeatureVector{10, 0})
	assert.NoError(t, err)
	assert.Greater(t, p, 0.99)

	p, err = model.Score(FeatureVector{0, 10})
	assert.NoError(t, err)
	assert.Less(t, p, 0.01)
}

func TestLogisticModel_FeatureCountMismatch(t *testing.T) {
	model := &LogisticModel{Coefficients: []float64{1, 2, 3}}
	_, err := model.Score(FeatureVector{1, 2})
	assert.ErrorIs(t, err, ErrFeatureCountMismatch)
}

// stumpTree splits on feature 0 at the threshold and returns leafLow for
// values at or below it.
func stumpTree(threshold, leafLow, leafHigh float64) []TreeNode {
	return []TreeNode{
		{FeatureIdx: 0, Threshold: threshold, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: leafLow},
		{IsLeaf: true, Value: leafHigh},
	}
}

func TestForestModel_Score(t *testing.T) {
	model := &ForestModel{
		NumFeatures: 2,
		Trees: [][]TreeNode{
			stumpTree(0.5, 0.2, 0.8),
			stumpTree(0.5, 0.4, 1.0),
		},
	}

	p, err := model.Score(FeatureVector{0, 0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.3, p, 1e-9)

	p, err = model.Score(FeatureVector{1, 0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.9, p, 1e-9)
}

func TestForestModel_CorruptTree(t *testing.T) {
	model := &ForestModel{
		NumFeatures: 1,
		Trees: [][]TreeNode{
			{{FeatureIdx: 0, Threshold: 0, LeftChild: 5, RightChild: 5}},
		},
	}
	_, err := model.Score(FeatureVector{1})
	assert.Error(t, err)
}

func TestDecodeModel_Logistic(t *testing.T) {
	raw := []byte(`{
		"schema_version": 1,
		"model_type": "logistic_regression",
		"feature_count": 2,
		"intercept": 0.5,
		"coefficients": [1.0, -2.0]
	}`)

	artifact, err := DecodeModel(raw)
	assert.NoError(t, err)
	assert.Equal(t, 1, artifact.SchemaVersion)
	assert.Equal(t, ModelKindLogistic, artifact.Scorer.Kind())
	assert.Equal(t, 2, artifact.Scorer.FeatureCount())
}

func TestDecodeModel_Forest(t *testing.T) {
	raw := []byte(`{
		"schema_version": 1,
		"model_type": "random_forest",
		"feature_count": 2,
		"trees": [[
			{"feature_idx": 0, "threshold": 0.5, "left_child": 1, "right_child": 2, "value": 0, "is_leaf": false},
			{"feature_idx": -1, "threshold": 0, "left_child": -1, "right_child": -1, "value": 0.1, "is_leaf": true},
			{"feature_idx": -1, "threshold": 0, "left_child": -1, "right_child": -1, "value": 0.9, "is_leaf": true}
		]]
	}`)

	artifact, err := DecodeModel(raw)
	assert.NoError(t, err)
	assert.Equal(t, ModelKindForest, artifact.Scorer.Kind())

	p, err := artifact.Scorer.Score(FeatureVector{1, 0})
	assert.NoError(t, err)
	assert.InDelta(t, 0.9, p, 1e-9)
}

func TestDecodeModel_UnsupportedType(t *testing.T) {
	_, err := DecodeModel([]byte(`{"schema_version": 1, "model_type": "svm"}`))
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestDecodeModel_FeatureCountConflict(t *testing.T) {
	raw := []byte(`{
		"schema_version": 1,
		"model_type": "logistic_regression",
		"feature_count": 5,
		"coefficients": [1.0, -2.0]
	}`)
	_, err := DecodeModel(raw)
	assert.ErrorIs(t, err, ErrFeatureCountMismatch)
}

func TestEncodeModel_RoundTrip(t *testing.T) {
	model := &LogisticModel{Intercept: -0.25, Coefficients: []float64{0.5, 1.5}}

	data, err := EncodeModel(model)
	assert.NoError(t, err)

	artifact, err := DecodeModel(data)
	assert.NoError(t, err)
	assert.Equal(t, InterchangeSchemaVersion, artifact.SchemaVersion)

	decoded := artifact.Scorer.(*LogisticModel)
	assert.Equal(t, model.Intercept, decoded.Intercept)
	assert.Equal(t, model.Coefficients, decoded.Coefficients)
}
