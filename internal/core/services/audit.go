package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"heart-inference-service/internal/core/domain"
	ports "heart-inference-service/internal/core/ports/output"
)

// AuditService records served predictions to the prediction log. Writes
// run on a background goroutine so the request path stays free of I/O; a
// failed insert is logged and dropped, never surfaced to the caller.
type AuditService struct {
	repo    ports.PredictionLogRepository
	timeout time.Duration
}

func NewAuditService(repo ports.PredictionLogRepository, timeout time.Duration) *AuditService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AuditService{repo: repo, timeout: timeout}
}

// Record persists one prediction asynchronously. Safe to call on a nil
// service (auditing disabled).
func (s *AuditService) Record(rec domain.PatientRecord, res *domain.PredictionResult) {
	if s == nil || s.repo == nil {
		return
	}

	entry := &domain.PredictionRecord{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		BundleID:    res.BundleID,
		Input:       rec,
		Prediction:  res.Prediction,
		Probability: res.Probability,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.repo.Insert(ctx, entry); err != nil {
			log.WithError(err).WithField("prediction_id", entry.ID).Warn("prediction audit insert failed")
		}
	}()
}
