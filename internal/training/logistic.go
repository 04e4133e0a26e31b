package training

import (
	"fmt"
	"math"

	"heart-inference-service/internal/core/domain"
)

// LogisticOptions control gradient descent. Zero values fall back to
// defaults that converge on the heart disease dataset.
type LogisticOptions struct {
	LearningRate float64
	Epochs       int
}

// TrainLogistic fits a logistic regression on preprocessed feature
// vectors with full-batch gradient descent. Deterministic: no random
// initialization, so retraining on identical inputs reproduces the model
// bit for bit.
func TrainLogistic(features []domain.FeatureVector, labels []int, opts LogisticOptions) (*domain.LogisticModel, error) {
	if len(features) == 0 || len(features) != len(labels) {
		return nil, fmt.Errorf("train logistic: %d features, %d labels: %w",
			len(features), len(labels), domain.ErrInsufficientData)
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 0.1
	}
	if opts.Epochs <= 0 {
		opts.Epochs = 500
	}

	dim := len(features[0])
	model := &domain.LogisticModel{Coefficients: make([]float64, dim)}
	n := float64(len(features))

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		gradIntercept := 0.0
		grad := make([]float64, dim)
		for i, x := range features {
			p, err := model.Score(x)
			if err != nil {
				return nil, err
			}
			diff := p - float64(labels[i])
			gradIntercept += diff
			for j := range grad {
				grad[j] += diff * x[j]
			}
		}
		model.Intercept -= opts.LearningRate * gradIntercept / n
		for j := range model.Coefficients {
			model.Coefficients[j] -= opts.LearningRate * grad[j] / n
		}
	}

	for _, c := range model.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("train logistic: diverged, lower the learning rate")
		}
	}
	return model, nil
}
