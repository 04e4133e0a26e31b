package ports

import (
	"context"

	"heart-inference-service/internal/core/domain"
)

// ArtifactStore locates and loads persisted (transform, model, metadata)
// bundles written by the training side. Implementations are read-only:
// they never mutate stored artifacts.
type ArtifactStore interface {
	// Latest returns the bundle with the newest valid timestamp.
	// Equal timestamps resolve to the lexicographically greater id.
	Latest(ctx context.Context) (*domain.ArtifactBundle, error)

	// Load returns the bundle with the given id.
	Load(ctx context.Context, bundleID string) (*domain.ArtifactBundle, error)
}
