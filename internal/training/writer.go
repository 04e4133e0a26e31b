package training

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"heart-inference-service/internal/core/domain"
)

const timestampLayout = "20060102_150405"

// WriteBundle persists a trained (transform, model, summary) triple to
// dir under a shared timestamp suffix and returns the bundle id. The
// layout matches what the serving-side artifact store scans for.
func WriteBundle(dir, modelName string, transform *domain.FittedTransform, scorer domain.Scorer, m *domain.TrainingMetrics, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}
	id := now.Format(timestampLayout)

	transformData, err := json.MarshalIndent(transform, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode preprocessor: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "preprocessor_"+id+".json"), transformData, 0o644); err != nil {
		return "", fmt.Errorf("write preprocessor: %w", err)
	}

	modelData, err := domain.EncodeModel(scorer)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, modelName+"_"+id+".json"), modelData, 0o644); err != nil {
		return "", fmt.Errorf("write model artifact: %w", err)
	}

	summary := map[string]interface{}{
		"timestamp":  id,
		"models":     map[string]*domain.TrainingMetrics{displayName(modelName): m},
		"best_model": displayName(modelName),
	}
	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode training summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "training_summary_"+id+".json"), summaryData, 0o644); err != nil {
		return "", fmt.Errorf("write training summary: %w", err)
	}

	return id, nil
}

func displayName(modelName string) string {
	words := strings.Split(modelName, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
