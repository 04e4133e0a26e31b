package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"heart-inference-service/internal/core/domain"
	ports "heart-inference-service/internal/core/ports/output"
)

// EngineState tracks the bundle lifecycle of the inference engine.
type EngineState int32

const (
	StateUnloaded EngineState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s EngineState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// InferenceEngine holds the process-wide current bundle and serves
// predictions against it. The read path is lock-free: workers read one
// atomic pointer, so predictions may run fully in parallel. Loads are
// serialized and install a validated bundle with a single pointer swap;
// in-flight predictions keep using the bundle they picked up.
type InferenceEngine struct {
	store ports.ArtifactStore

	mu      sync.Mutex // serializes Load; at most one load in flight
	state   atomic.Int32
	current atomic.Pointer[domain.ArtifactBundle]
}

func NewInferenceEngine(store ports.ArtifactStore) *InferenceEngine {
	return &InferenceEngine{store: store}
}

// State returns the engine lifecycle state.
func (e *InferenceEngine) State() EngineState {
	return EngineState(e.state.Load())
}

// Ready reports whether a bundle is currently serving.
func (e *InferenceEngine) Ready() bool {
	return e.current.Load() != nil
}

// Load fetches the newest bundle from the store and installs it. A failed
// load leaves a previously installed bundle serving; the engine only ends
// up FAILED when it has nothing to serve.
func (e *InferenceEngine) Load(ctx context.Context) (*domain.ArtifactBundle, error) {
	return e.load(ctx, "")
}

// LoadBundle installs the bundle with the given id; an empty id loads the
// newest.
func (e *InferenceEngine) LoadBundle(ctx context.Context, bundleID string) (*domain.ArtifactBundle, error) {
	return e.load(ctx, bundleID)
}

func (e *InferenceEngine) load(ctx context.Context, bundleID string) (*domain.ArtifactBundle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Store(int32(StateLoading))

	var bundle *domain.ArtifactBundle
	var err error
	if bundleID == "" {
		bundle, err = e.store.Latest(ctx)
	} else {
		bundle, err = e.store.Load(ctx, bundleID)
	}
	if err == nil {
		err = bundle.Validate()
	}
	if err != nil {
		if prev := e.current.Load(); prev != nil {
			// Previous bundle keeps serving.
			e.state.Store(int32(StateReady))
			log.WithError(err).WithField("serving_bundle", prev.ID).Warn("bundle load failed, previous bundle retained")
		} else {
			e.state.Store(int32(StateFailed))
			log.WithError(err).Error("bundle load failed")
		}
		return nil, err
	}

	e.current.Store(bundle)
	e.state.Store(int32(StateReady))
	log.WithFields(log.Fields{
		"bundle_id":  bundle.ID,
		"model_name": bundle.ModelName,
		"model_type": bundle.Model.Kind(),
	}).Info("bundle loaded")
	return bundle, nil
}

// PredictSingle preprocesses and scores one record against the current
// bundle.
func (e *InferenceEngine) PredictSingle(rec domain.PatientRecord) (*domain.PredictionResult, error) {
	bundle := e.current.Load()
	if bundle == nil {
		return nil, domain.ErrModelNotReady
	}
	return scoreRecord(bundle, rec)
}

// PredictBatch scores records in input order against one consistent
// bundle snapshot, even if a reload completes mid-batch. The first
// failing record fails the whole batch; no partial results are returned.
func (e *InferenceEngine) PredictBatch(recs []domain.PatientRecord) ([]*domain.PredictionResult, error) {
	bundle := e.current.Load()
	if bundle == nil {
		return nil, domain.ErrModelNotReady
	}

	results := make([]*domain.PredictionResult, len(recs))
	for i, rec := range recs {
		res, err := scoreRecord(bundle, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

// Info reports metadata for the serving bundle. During a reload this is
// the last READY bundle, which the swap never clears.
func (e *InferenceEngine) Info() (*domain.ModelInfo, error) {
	bundle := e.current.Load()
	if bundle == nil {
		return nil, domain.ErrModelNotReady
	}
	return &domain.ModelInfo{
		ModelName:          bundle.ModelName,
		ModelType:          bundle.Model.Kind(),
		BundleID:           bundle.ID,
		SchemaVersion:      bundle.SchemaVersion,
		FeatureCount:       bundle.Model.FeatureCount(),
		PreprocessorLoaded: bundle.Transform != nil,
		Metrics:            bundle.Metrics,
	}, nil
}

func scoreRecord(bundle *domain.ArtifactBundle, rec domain.PatientRecord) (*domain.PredictionResult, error) {
	features, err := bundle.Transform.Apply(rec)
	if err != nil {
		return nil, fmt.Errorf("apply transform: %w", err)
	}
	p, err := bundle.Model.Score(features)
	if err != nil {
		return nil, fmt.Errorf("score features: %w", err)
	}

	prediction := 0
	label := domain.LabelNoDisease
	if p >= 0.5 {
		prediction = 1
		label = domain.LabelDisease
	}
	return &domain.PredictionResult{
		Prediction:  prediction,
		Label:       label,
		Probability: p,
		Confidence:  math.Max(p, 1-p),
		BundleID:    bundle.ID,
	}, nil
}
