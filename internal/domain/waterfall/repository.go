package waterfall

import (
	"context"
	"time"
)

type StructureRepository interface {
	// Create inserts the structure together with its tiers
	Create(ctx context.Context, s *Structure) error
	// Save updates the structure row only, tiers are untouched
	Save(ctx context.Context, s *Structure) error
	Delete(ctx context.Context, s *Structure) error
	ReplaceTiers(ctx context.Context, structureID uint64, tiers []Tier) error

	// Loads tiers ordered by priority
	GetByStructureID(ctx context.Context, structureID string) (*Structure, error)
	GetByID(ctx context.Context, id uint64) (*Structure, error)
	ListByProperty(ctx context.Context, propertyID uint64, activeOnly bool) ([]Structure, error)
	ListGlobal(ctx context.Context) ([]Structure, error)
}

type DistributionRepository interface {
	// Create inserts the distribution and its closing fees
	Create(ctx context.Context, d *Distribution) error
	CreateLines(ctx context.Context, lines []TierDistribution) error
	// Delete removes the distribution, its closing fees and its lines
	Delete(ctx context.Context, d *Distribution) error

	GetByDistributionID(ctx context.Context, distributionID string) (*Distribution, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]Distribution, error)
	ListLines(ctx context.Context, distributionID uint64) ([]TierDistribution, error)
	CountByStructure(ctx context.Context, structureID uint64) (int64, error)

	// PayoutTotals sums line items of the property dated before t, grouped by
	// recipient and tier type.
	PayoutTotals(ctx context.Context, propertyID uint64, before time.Time) ([]PayoutTotal, error)
}
