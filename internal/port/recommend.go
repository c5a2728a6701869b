package port

import (
	"context"

	"cloudquote/internal/domain"
)

// RecommendQuery are the parameters for one instance type recommendation call.
type RecommendQuery struct {
	Region    string
	CPUCores  int
	MemoryGiB int
	Strategy  domain.RankStrategy
	// Families restricts candidates to the given instance families.
	// Empty means unrestricted.
	Families []string
	// ZoneID restricts candidates to one zone when set.
	ZoneID string
}

// Recommender asks the cloud provider for instance types matching a shape.
type Recommender interface {
	Recommend(ctx context.Context, q RecommendQuery) ([]domain.SKUCandidate, error)
}
