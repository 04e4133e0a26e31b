package fsstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heart-inference-service/internal/core/domain"
	"heart-inference-service/internal/testutil"
)

func writeBundleFiles(t *testing.T, dir, modelName, id string) {
	t.Helper()
	bundle := testutil.NewTestBundle(id)

	modelData, err := domain.EncodeModel(bundle.Model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, modelName+"_"+id+".json"), modelData, 0o644))

	transformData, err := json.Marshal(bundle.Transform)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preprocessor_"+id+".json"), transformData, 0o644))
}

func writeSummary(t *testing.T, dir, id string, models map[string]domain.TrainingMetrics) {
	t.Helper()
	data, err := json.Marshal(map[string]any{"timestamp": id, "models": models})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "training_summary_"+id+".json"), data, 0o644))
}

func TestStore_LoadBundle(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "logistic_regression", "20240311_142530")
	writeSummary(t, dir, "20240311_142530", map[string]domain.TrainingMetrics{
		"Logistic Regression": {Accuracy: 0.85, Precision: 0.84, Recall: 0.88, ROCAUC: 0.9},
	})

	store := New(dir, "logistic_regression")
	bundle, err := store.Load(context.Background(), "20240311_142530")
	assert.NoError(t, err)
	assert.Equal(t, "20240311_142530", bundle.ID)
	assert.Equal(t, "logistic_regression", bundle.ModelName)
	assert.Equal(t, domain.InterchangeSchemaVersion, bundle.SchemaVersion)
	assert.Equal(t, 2024, bundle.CreatedAt.Year())
	assert.NotNil(t, bundle.Transform)
	assert.NotNil(t, bundle.Model)
	assert.NotNil(t, bundle.Metrics)
	assert.InDelta(t, 0.9, bundle.Metrics.ROCAUC, 1e-9)
}

func TestStore_LoadWithoutSummary(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "logistic_regression", "20240311_142530")

	store := New(dir, "logistic_regression")
	bundle, err := store.Load(context.Background(), "20240311_142530")
	assert.NoError(t, err)
	assert.Nil(t, bundle.Metrics)
}

func TestStore_LatestPicksNewest(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "logistic_regression", "20240101_090000")
	writeBundleFiles(t, dir, "logistic_regression", "20240311_142530")
	writeBundleFiles(t, dir, "logistic_regression", "20231231_235959")

	store := New(dir, "logistic_regression")
	bundle, err := store.Latest(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "20240311_142530", bundle.ID)
}

func TestStore_LatestSkipsMalformedSuffix(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "logistic_regression", "20240101_090000")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logistic_regression_notatimestamp.json"), []byte("{}"), 0o644))

	store := New(dir, "logistic_regression")
	bundle, err := store.Latest(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "20240101_090000", bundle.ID)
}

func TestStore_LatestSkipsOrphanModel(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "logistic_regression", "20240101_090000")

	// Newer model file with no matching preprocessor must not win.
	newer := testutil.NewTestBundle("20240601_120000")
	modelData, err := domain.EncodeModel(newer.Model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logistic_regression_20240601_120000.json"), modelData, 0o644))

	store := New(dir, "logistic_regression")
	bundle, err := store.Latest(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "20240101_090000", bundle.ID)
}

func TestStore_EmptyDirectory(t *testing.T) {
	store := New(t.TempDir(), "logistic_regression")
	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoArtifactFound)
}

func TestStore_MissingDirectory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope"), "logistic_regression")
	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoArtifactFound)
}

func TestStore_LoadUnknownBundle(t *testing.T) {
	store := New(t.TempDir(), "logistic_regression")
	_, err := store.Load(context.Background(), "20240101_090000")
	assert.ErrorIs(t, err, domain.ErrNoArtifactFound)
}

func TestStore_IgnoresOtherModelFamilies(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "random_forest", "20240601_120000")
	writeBundleFiles(t, dir, "logistic_regression", "20240101_090000")

	store := New(dir, "logistic_regression")
	bundle, err := store.Latest(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "20240101_090000", bundle.ID)
}

func TestStore_SchemaMismatchRejected(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "logistic_regression", "20240101_090000")

	// Rewrite the preprocessor with a conflicting schema version.
	transform := testutil.NewTestBundle("20240101_090000").Transform
	transform.SchemaVersion = domain.InterchangeSchemaVersion + 1
	data, err := json.Marshal(transform)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "preprocessor_20240101_090000.json"), data, 0o644))

	store := New(dir, "logistic_regression")
	_, err = store.Load(context.Background(), "20240101_090000")
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestStore_CorruptModelFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logistic_regression_20240101_090000.json"), []byte("{not json"), 0o644))

	store := New(dir, "logistic_regression")
	_, err := store.Load(context.Background(), "20240101_090000")
	assert.Error(t, err)
}

func TestStore_SummaryMatchedByDisplayName(t *testing.T) {
	dir := t.TempDir()
	writeBundleFiles(t, dir, "random_forest", "20240101_090000")
	writeSummary(t, dir, "20240101_090000", map[string]domain.TrainingMetrics{
		"Logistic Regression": {Accuracy: 0.8},
		"Random Forest":       {Accuracy: 0.91},
	})

	store := New(dir, "random_forest")
	bundle, err := store.Load(context.Background(), "20240101_090000")
	assert.NoError(t, err)
	assert.NotNil(t, bundle.Metrics)
	assert.InDelta(t, 0.91, bundle.Metrics.Accuracy, 1e-9)
}
