package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// InterchangeSchemaVersion is the current version of the JSON artifact
// interchange format shared with the training side. Transform and model
// files must carry the same version to be loaded together.
const InterchangeSchemaVersion = 1

const (
	ModelKindLogistic = "logistic_regression"
	ModelKindForest   = "random_forest"
)

// Scorer is the opaque scoring capability supplied by the training
// collaborator: a fitted classifier reduced to a probability function.
type Scorer interface {
	// Score returns the probability of class 1 (disease present).
	Score(features FeatureVector) (float64, error)
	Kind() string
	FeatureCount() int
}

// ModelArtifact is a deserialized model file: the scorer plus the
// interchange metadata needed to pair it with a transform.
type ModelArtifact struct {
	SchemaVersion int
	Scorer        Scorer
}

type modelEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	ModelType     string       `json:"model_type"`
	FeatureCount  int          `json:"feature_count"`
	Intercept     float64      `json:"intercept"`
	Coefficients  []float64    `json:"coefficients"`
	Trees         [][]TreeNode `json:"trees"`
}

// DecodeModel parses a serialized model artifact, dispatching on the
// model_type discriminator.
func DecodeModel(data []byte) (*ModelArtifact, error) {
	var env modelEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}

	var scorer Scorer
	switch env.ModelType {
	case ModelKindLogistic:
		scorer = &LogisticModel{Intercept: env.Intercept, Coefficients: env.Coefficients}
	case ModelKindForest:
		scorer = &ForestModel{NumFeatures: env.FeatureCount, Trees: env.Trees}
	default:
		return nil, fmt.Errorf("model type %q: %w", env.ModelType, ErrUnsupportedModel)
	}

	if env.FeatureCount != 0 && env.FeatureCount != scorer.FeatureCount() {
		return nil, fmt.Errorf("model declares %d features but carries %d: %w",
			env.FeatureCount, scorer.FeatureCount(), ErrFeatureCountMismatch)
	}

	return &ModelArtifact{SchemaVersion: env.SchemaVersion, Scorer: scorer}, nil
}

// EncodeModel serializes a scorer into the interchange envelope. Used by
// the training side; the serving path only decodes.
func EncodeModel(scorer Scorer) ([]byte, error) {
	env := modelEnvelope{
		SchemaVersion: InterchangeSchemaVersion,
		ModelType:     scorer.Kind(),
		FeatureCount:  scorer.FeatureCount(),
	}
	switch m := scorer.(type) {
	case *LogisticModel:
		env.Intercept = m.Intercept
		env.Coefficients = m.Coefficients
	case *ForestModel:
		env.Trees = m.Trees
	default:
		return nil, fmt.Errorf("model type %q: %w", scorer.Kind(), ErrUnsupportedModel)
	}
	return json.MarshalIndent(env, "", "  ")
}

// LogisticModel scores with exported logistic regression coefficients.
type LogisticModel struct {
	Intercept    float64
	Coefficients []float64
}

func (m *LogisticModel) Score(features FeatureVector) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("logistic model expects %d features, got %d: %w",
			len(m.Coefficients), len(features), ErrFeatureCountMismatch)
	}
	z := m.Intercept
	for i, c := range m.Coefficients {
		z += c * features[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

func (m *LogisticModel) Kind() string { return ModelKindLogistic }

func (m *LogisticModel) FeatureCount() int { return len(m.Coefficients) }

// TreeNode is one node of an exported decision tree, stored as a flat
// array with child indices.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// ForestModel averages per-tree leaf probabilities, matching the exported
// ensemble's predict_proba behavior.
type ForestModel struct {
	NumFeatures int
	Trees       [][]TreeNode
}

func (m *ForestModel) Score(features FeatureVector) (float64, error) {
	if len(m.Trees) == 0 {
		return 0, fmt.Errorf("forest model has no trees: %w", ErrUnsupportedModel)
	}
	if len(features) != m.NumFeatures {
		return 0, fmt.Errorf("forest model expects %d features, got %d: %w",
			m.NumFeatures, len(features), ErrFeatureCountMismatch)
	}

	var sum float64
	for ti, tree := range m.Trees {
		p, err := walkTree(tree, features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		sum += p
	}
	return sum / float64(len(m.Trees)), nil
}

func (m *ForestModel) Kind() string { return ModelKindForest }

func (m *ForestModel) FeatureCount() int { return m.NumFeatures }

func walkTree(nodes []TreeNode, features FeatureVector) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(nodes); steps++ {
		node := nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, fmt.Errorf("feature index %d out of range", node.FeatureIdx)
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return 0, fmt.Errorf("child index %d out of range", idx)
		}
	}
	return 0, fmt.Errorf("tree walk did not terminate")
}
