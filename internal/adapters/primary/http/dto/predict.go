package dto

import (
	"encoding/json"

	"heart-inference-service/internal/core/domain"
)

// ParsePatientRecord decodes and validates one raw patient record. All 13
// schema fields must be present and numeric; domain-constrained fields
// must be in range. Every offending field is reported, not just the first.
func ParsePatientRecord(data []byte) (domain.PatientRecord, error) {
	var rec domain.PatientRecord

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		verr := &domain.ValidationError{}
		verr.Add("record", "must be a JSON object")
		return rec, verr
	}

	verr := &domain.ValidationError{}
	for i, spec := range domain.Schema {
		raw, ok := fields[spec.Name]
		if !ok || string(raw) == "null" {
			verr.Add(spec.Name, "field is required")
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			verr.Add(spec.Name, "must be a number")
			continue
		}
		if reason := spec.Check(v); reason != "" {
			verr.Add(spec.Name, reason)
			continue
		}
		rec[i] = v
	}
	if len(verr.Fields) > 0 {
		return rec, verr
	}
	return rec, nil
}

type batchPredictRequest struct {
	Inputs []json.RawMessage `json:"inputs"`
}

// ParseBatch decodes a batch request, validating each element
// independently. The first invalid element fails the whole batch with its
// index; no elements are silently dropped.
func ParseBatch(data []byte) ([]domain.PatientRecord, error) {
	var req batchPredictRequest
	if err := json.Unmarshal(data, &req); err != nil {
		verr := &domain.ValidationError{}
		verr.Add("inputs", "must be an object with an \"inputs\" array")
		return nil, verr
	}
	if len(req.Inputs) == 0 {
		verr := &domain.ValidationError{}
		verr.Add("inputs", "must contain at least one record")
		return nil, verr
	}

	records := make([]domain.PatientRecord, len(req.Inputs))
	for i, raw := range req.Inputs {
		rec, err := ParsePatientRecord(raw)
		if err != nil {
			verr, ok := err.(*domain.ValidationError)
			if !ok {
				return nil, err
			}
			return nil, &domain.BatchValidationError{Index: i, Err: verr}
		}
		records[i] = rec
	}
	return records, nil
}

// ============================================================================
// Responses
// ============================================================================

type PredictionResponse struct {
	Prediction      int     `json:"prediction"`
	PredictionLabel string  `json:"prediction_label"`
	Probability     float64 `json:"probability"`
	Confidence      float64 `json:"confidence"`
}

func ToPredictionResponse(res *domain.PredictionResult) PredictionResponse {
	return PredictionResponse{
		Prediction:      res.Prediction,
		PredictionLabel: res.Label,
		Probability:     res.Probability,
		Confidence:      res.Confidence,
	}
}

type BatchPredictionResponse struct {
	Predictions []PredictionResponse `json:"predictions"`
	Count       int                  `json:"count"`
}

func ToBatchPredictionResponse(results []*domain.PredictionResult) BatchPredictionResponse {
	items := make([]PredictionResponse, 0, len(results))
	for _, res := range results {
		items = append(items, ToPredictionResponse(res))
	}
	return BatchPredictionResponse{Predictions: items, Count: len(items)}
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Message     string `json:"message"`
}

type TrainingMetricsResponse struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	ROCAUC    float64 `json:"roc_auc"`
}

type ModelInfoResponse struct {
	ModelName          string                   `json:"model_name"`
	ModelType          string                   `json:"model_type"`
	PreprocessorLoaded bool                     `json:"preprocessor_loaded"`
	TrainingMetrics    *TrainingMetricsResponse `json:"training_metrics,omitempty"`
}

func ToModelInfoResponse(info *domain.ModelInfo) ModelInfoResponse {
	resp := ModelInfoResponse{
		ModelName:          info.ModelName,
		ModelType:          info.ModelType,
		PreprocessorLoaded: info.PreprocessorLoaded,
	}
	if info.Metrics != nil {
		resp.TrainingMetrics = &TrainingMetricsResponse{
			Accuracy:  info.Metrics.Accuracy,
			Precision: info.Metrics.Precision,
			Recall:    info.Metrics.Recall,
			ROCAUC:    info.Metrics.ROCAUC,
		}
	}
	return resp
}

type ReloadResponse struct {
	Status   string `json:"status"`
	BundleID string `json:"bundle_id"`
}
