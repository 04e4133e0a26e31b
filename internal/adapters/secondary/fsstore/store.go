// Package fsstore loads artifact bundles from a directory of
// timestamp-suffixed JSON files written by the training side:
// <model>_<ts>.json, preprocessor_<ts>.json and an optional
// training_summary_<ts>.json, associated by matching suffix.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"heart-inference-service/internal/core/domain"
	ports "heart-inference-service/internal/core/ports/output"
)

const timestampLayout = "20060102_150405"

type store struct {
	dir       string
	modelName string
}

// New creates a filesystem ArtifactStore rooted at dir, serving bundles
// for the named model (e.g. "random_forest").
func New(dir, modelName string) ports.ArtifactStore {
	return &store{dir: dir, modelName: modelName}
}

func (s *store) Latest(ctx context.Context) (*domain.ArtifactBundle, error) {
	ids, err := s.bundleIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no %s bundle in %s: %w", s.modelName, s.dir, domain.ErrNoArtifactFound)
	}

	// Newest timestamp first; equal timestamps resolve to the
	// lexicographically greater id, so selection is deterministic
	// regardless of directory iteration order.
	sort.Slice(ids, func(i, j int) bool {
		ti, _ := time.Parse(timestampLayout, ids[i])
		tj, _ := time.Parse(timestampLayout, ids[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ids[i] > ids[j]
	})

	return s.Load(ctx, ids[0])
}

func (s *store) Load(_ context.Context, bundleID string) (*domain.ArtifactBundle, error) {
	modelPath := filepath.Join(s.dir, s.modelName+"_"+bundleID+".json")
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("bundle %s: %w", bundleID, domain.ErrNoArtifactFound)
		}
		return nil, fmt.Errorf("read model artifact %s: %w", modelPath, err)
	}
	artifact, err := domain.DecodeModel(modelData)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", bundleID, err)
	}

	transformPath := filepath.Join(s.dir, "preprocessor_"+bundleID+".json")
	transformData, err := os.ReadFile(transformPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("bundle %s has no preprocessor: %w", bundleID, domain.ErrNoArtifactFound)
		}
		return nil, fmt.Errorf("read preprocessor %s: %w", transformPath, err)
	}
	var transform domain.FittedTransform
	if err := json.Unmarshal(transformData, &transform); err != nil {
		return nil, fmt.Errorf("decode preprocessor %s: %w", transformPath, err)
	}

	createdAt, err := time.Parse(timestampLayout, bundleID)
	if err != nil {
		return nil, fmt.Errorf("bundle id %q is not a timestamp: %w", bundleID, domain.ErrNoArtifactFound)
	}

	bundle := &domain.ArtifactBundle{
		ID:            bundleID,
		CreatedAt:     createdAt,
		SchemaVersion: artifact.SchemaVersion,
		ModelName:     s.modelName,
		Transform:     &transform,
		Model:         artifact.Scorer,
		Metrics:       s.loadMetrics(bundleID),
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// bundleIDs scans for model files and returns the timestamp suffixes that
// parse and have a matching preprocessor file.
func (s *store) bundleIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact directory %s: %w", s.dir, domain.ErrNoArtifactFound)
		}
		return nil, fmt.Errorf("scan artifact directory %s: %w", s.dir, err)
	}

	prefix := s.modelName + "_"
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		if _, err := time.Parse(timestampLayout, id); err != nil {
			log.WithField("file", name).Warn("skipping artifact with malformed timestamp suffix")
			continue
		}
		if _, err := os.Stat(filepath.Join(s.dir, "preprocessor_"+id+".json")); err != nil {
			log.WithField("bundle_id", id).Warn("skipping model artifact without matching preprocessor")
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// trainingSummary mirrors the summary file layout written at training
// time: per-model metric blocks keyed by display name.
type trainingSummary struct {
	Timestamp string                            `json:"timestamp"`
	Models    map[string]domain.TrainingMetrics `json:"models"`
	BestModel string                            `json:"best_model"`
}

func (s *store) loadMetrics(bundleID string) *domain.TrainingMetrics {
	path := filepath.Join(s.dir, "training_summary_"+bundleID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Warn("training summary unreadable")
		}
		return nil
	}
	var summary trainingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		log.WithError(err).WithField("path", path).Warn("training summary malformed")
		return nil
	}
	for name, metrics := range summary.Models {
		if normalizeModelName(name) == s.modelName {
			m := metrics
			return &m
		}
	}
	return nil
}

func normalizeModelName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
