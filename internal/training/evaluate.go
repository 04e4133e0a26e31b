package training

import (
	"fmt"
	"sort"

	"heart-inference-service/internal/core/domain"
)

// Evaluate scores the held-out set and reports the metric snapshot
// persisted in the training summary.
func Evaluate(scorer domain.Scorer, features []domain.FeatureVector, labels []int) (*domain.TrainingMetrics, error) {
	if len(features) == 0 || len(features) != len(labels) {
		return nil, fmt.Errorf("evaluate: %d features, %d labels: %w",
			len(features), len(labels), domain.ErrInsufficientData)
	}

	probs := make([]float64, len(features))
	var tp, fp, tn, fn int
	for i, x := range features {
		p, err := scorer.Score(x)
		if err != nil {
			return nil, fmt.Errorf("evaluate record %d: %w", i, err)
		}
		probs[i] = p

		predicted := 0
		if p >= 0.5 {
			predicted = 1
		}
		switch {
		case predicted == 1 && labels[i] == 1:
			tp++
		case predicted == 1 && labels[i] == 0:
			fp++
		case predicted == 0 && labels[i] == 0:
			tn++
		default:
			fn++
		}
	}

	m := &domain.TrainingMetrics{
		Accuracy: float64(tp+tn) / float64(len(labels)),
		ROCAUC:   rocAUC(probs, labels),
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	return m, nil
}

// rocAUC computes the area under the ROC curve via the rank statistic:
// the probability a random positive scores above a random negative, with
// ties counting half.
func rocAUC(probs []float64, labels []int) float64 {
	type pair struct {
		p     float64
		label int
	}
	pairs := make([]pair, len(probs))
	for i := range probs {
		pairs[i] = pair{probs[i], labels[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].p < pairs[j].p })

	// Average ranks over tied scores.
	ranks := make([]float64, len(pairs))
	for i := 0; i < len(pairs); {
		j := i
		for j < len(pairs) && pairs[j].p == pairs[i].p {
			j++
		}
		avg := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[k] = avg
		}
		i = j
	}

	var posRankSum float64
	var pos, neg int
	for i, pr := range pairs {
		if pr.label == 1 {
			pos++
			posRankSum += ranks[i]
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}
	return (posRankSum - float64(pos)*float64(pos+1)/2) / (float64(pos) * float64(neg))
}
