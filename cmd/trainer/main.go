package main

import (
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	"heart-inference-service/internal/core/domain"
	"heart-inference-service/internal/training"
)

func main() {
	dataPath := flag.String("data", "data/processed/heart_disease_processed.csv", "processed dataset path")
	artifactDir := flag.String("artifacts", "models", "artifact output directory")
	modelName := flag.String("model", "logistic_regression", "model name for the artifact files")
	testFrac := flag.Float64("test_frac", 0.2, "held-out test fraction")
	seed := flag.Int64("seed", 42, "split shuffle seed")
	learningRate := flag.Float64("lr", 0.1, "gradient descent learning rate")
	epochs := flag.Int("epochs", 500, "gradient descent epochs")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ds, err := training.LoadCSV(*dataPath)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	log.WithField("rows", len(ds.Records)).Info("dataset loaded")

	train, test := ds.Split(*testFrac, *seed)

	transform, err := domain.FitTransform(train.Records)
	if err != nil {
		log.Fatalf("fit transform: %v", err)
	}

	trainX, err := applyAll(transform, train.Records)
	if err != nil {
		log.Fatalf("preprocess training set: %v", err)
	}
	testX, err := applyAll(transform, test.Records)
	if err != nil {
		log.Fatalf("preprocess test set: %v", err)
	}

	model, err := training.TrainLogistic(trainX, train.Labels, training.LogisticOptions{
		LearningRate: *learningRate,
		Epochs:       *epochs,
	})
	if err != nil {
		log.Fatalf("train model: %v", err)
	}

	metrics, err := training.Evaluate(model, testX, test.Labels)
	if err != nil {
		log.Fatalf("evaluate model: %v", err)
	}
	log.WithFields(log.Fields{
		"accuracy":  metrics.Accuracy,
		"precision": metrics.Precision,
		"recall":    metrics.Recall,
		"roc_auc":   metrics.ROCAUC,
	}).Info("evaluation complete")

	bundleID, err := training.WriteBundle(*artifactDir, *modelName, transform, model, metrics, time.Now())
	if err != nil {
		log.Fatalf("write bundle: %v", err)
	}
	log.WithFields(log.Fields{
		"bundle_id": bundleID,
		"dir":       *artifactDir,
	}).Info("bundle written")
}

func applyAll(t *domain.FittedTransform, records []domain.PatientRecord) ([]domain.FeatureVector, error) {
	out := make([]domain.FeatureVector, len(records))
	for i, rec := range records {
		v, err := t.Apply(rec)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
