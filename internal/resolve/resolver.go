package resolve

import (
	"context"

	"go.uber.org/zap"

	"cloudquote/internal/domain"
	"cloudquote/internal/port"
)

// gen8Families is the fallback family set tried when the unrestricted
// recommendation comes back empty.
var gen8Families = []string{"ecs.g8y", "ecs.c8y", "ecs.r8y"}

// step is one link of the resolution chain.
type step struct {
	strategy domain.RankStrategy
	families []string
}

var chain = []step{
	{strategy: domain.RankNewProductFirst},
	{strategy: domain.RankInventoryFirst, families: gen8Families},
	{strategy: domain.RankPriceFirst, families: gen8Families},
}

// Resolver maps a resource requirement to a concrete instance type.
type Resolver interface {
	Resolve(ctx context.Context, region string, req domain.ResourceRequirement) (*domain.SKUCandidate, error)
}

type resolver struct {
	api    port.Recommender
	logger *zap.Logger
	// failFast aborts on the first remote error instead of treating it
	// as an empty result and continuing down the chain.
	failFast bool
}

func New(api port.Recommender, failFast bool, logger *zap.Logger) Resolver {
	return &resolver{api: api, failFast: failFast, logger: logger}
}

// Resolve walks the strategy chain and returns the first candidate the
// recommendation service offers. There is no default instance type: when
// every step comes back empty the record fails.
func (r *resolver) Resolve(ctx context.Context, region string, req domain.ResourceRequirement) (*domain.SKUCandidate, error) {
	exhausted := &domain.ResolutionExhaustedError{
		CPUCores:  req.CPUCores,
		MemoryGiB: req.MemoryGiB,
		Region:    region,
	}

	for _, s := range chain {
		candidates, err := r.api.Recommend(ctx, port.RecommendQuery{
			Region:    region,
			CPUCores:  req.CPUCores,
			MemoryGiB: req.MemoryGiB,
			Strategy:  s.strategy,
			Families:  s.families,
		})
		if err != nil {
			if r.failFast {
				return nil, err
			}
			r.logger.Warn("recommendation step failed, trying next strategy",
				zap.String("strategy", string(s.strategy)), zap.Error(err))
			exhausted.Attempts = append(exhausted.Attempts, domain.ResolutionAttempt{
				Strategy: s.strategy, Families: s.families, Err: err,
			})
			continue
		}
		if len(candidates) > 0 {
			sku := candidates[0]
			r.logger.Debug("instance type resolved",
				zap.String("instance_type", sku.InstanceType),
				zap.String("strategy", string(s.strategy)))
			return &sku, nil
		}
		exhausted.Attempts = append(exhausted.Attempts, domain.ResolutionAttempt{
			Strategy: s.strategy, Families: s.families,
		})
	}
	return nil, exhausted
}
