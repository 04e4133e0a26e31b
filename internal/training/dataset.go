// Package training implements the training side of the artifact bundle
// contract: it fits the preprocessing transform, trains a classifier,
// evaluates it, and writes the timestamp-suffixed bundle files the serving
// process loads.
package training

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"heart-inference-service/internal/core/domain"
)

// Dataset is a labeled patient dataset in schema order.
type Dataset struct {
	Records []domain.PatientRecord
	Labels  []int
}

// LoadCSV reads a dataset whose header names the 13 schema columns plus a
// "target" column, in any order. Cleaning mirrors the upstream pipeline:
// "?", empty cells and -9 become missing; target values above 0 collapse
// to the binary disease label.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s: %w", path, domain.ErrInsufficientData)
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	targetIdx, ok := colIdx["target"]
	if !ok {
		return nil, fmt.Errorf("dataset %s has no target column", path)
	}
	featureIdx := make([]int, domain.FeatureCount)
	for i, name := range domain.FeatureNames() {
		idx, ok := colIdx[name]
		if !ok {
			return nil, fmt.Errorf("dataset %s has no %q column", path, name)
		}
		featureIdx[i] = idx
	}

	ds := &Dataset{}
	for _, row := range rows[1:] {
		var rec domain.PatientRecord
		for i, idx := range featureIdx {
			rec[i] = parseCell(row[idx])
		}
		target := parseCell(row[targetIdx])
		if math.IsNaN(target) {
			continue
		}
		label := 0
		if target > 0 {
			label = 1
		}
		ds.Records = append(ds.Records, rec)
		ds.Labels = append(ds.Labels, label)
	}
	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", path, domain.ErrInsufficientData)
	}
	return ds, nil
}

func parseCell(cell string) float64 {
	if cell == "" || cell == "?" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	if v == -9 {
		return math.NaN()
	}
	return v
}

// Split shuffles deterministically and carves off testFrac of the rows as
// the held-out evaluation set.
func (ds *Dataset) Split(testFrac float64, seed int64) (train, test *Dataset) {
	n := len(ds.Records)
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	testN := int(float64(n) * testFrac)
	if testN < 1 {
		testN = 1
	}

	train = &Dataset{}
	test = &Dataset{}
	for i, p := range perm {
		if i < testN {
			test.Records = append(test.Records, ds.Records[p])
			test.Labels = append(test.Labels, ds.Labels[p])
		} else {
			train.Records = append(train.Records, ds.Records[p])
			train.Labels = append(train.Labels, ds.Labels[p])
		}
	}
	return train, test
}
