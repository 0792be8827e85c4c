package waterfallmock

import (
	"context"
	"time"

	domain "campus-rentals-backend/internal/domain/waterfall"
)

var (
	_ domain.StructureRepository    = (*StructureRepo)(nil)
	_ domain.DistributionRepository = (*DistributionRepo)(nil)
)

// StructureRepo is a function-backed mock of domain.StructureRepository.
type StructureRepo struct {
	CreateFn           func(ctx context.Context, s *domain.Structure) error
	SaveFn             func(ctx context.Context, s *domain.Structure) error
	DeleteFn           func(ctx context.Context, s *domain.Structure) error
	ReplaceTiersFn     func(ctx context.Context, structureID uint64, tiers []domain.Tier) error
	GetByStructureIDFn func(ctx context.Context, structureID string) (*domain.Structure, error)
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Structure, error)
	ListByPropertyFn   func(ctx context.Context, propertyID uint64, activeOnly bool) ([]domain.Structure, error)
	ListGlobalFn       func(ctx context.Context) ([]domain.Structure, error)
}

func (m *StructureRepo) Create(ctx context.Context, s *domain.Structure) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *StructureRepo) Save(ctx context.Context, s *domain.Structure) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *StructureRepo) Delete(ctx context.Context, s *domain.Structure) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, s)
	}
	return nil
}

func (m *StructureRepo) ReplaceTiers(ctx context.Context, structureID uint64, tiers []domain.Tier) error {
	if m.ReplaceTiersFn != nil {
		return m.ReplaceTiersFn(ctx, structureID, tiers)
	}
	return nil
}

func (m *StructureRepo) GetByStructureID(ctx context.Context, structureID string) (*domain.Structure, error) {
	if m.GetByStructureIDFn != nil {
		return m.GetByStructureIDFn(ctx, structureID)
	}
	return nil, context.Canceled
}

func (m *StructureRepo) GetByID(ctx context.Context, id uint64) (*domain.Structure, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *StructureRepo) ListByProperty(ctx context.Context, propertyID uint64, activeOnly bool) ([]domain.Structure, error) {
	if m.ListByPropertyFn != nil {
		return m.ListByPropertyFn(ctx, propertyID, activeOnly)
	}
	return nil, context.Canceled
}

func (m *StructureRepo) ListGlobal(ctx context.Context) ([]domain.Structure, error) {
	if m.ListGlobalFn != nil {
		return m.ListGlobalFn(ctx)
	}
	return nil, context.Canceled
}

// DistributionRepo is a function-backed mock of domain.DistributionRepository.
type DistributionRepo struct {
	CreateFn              func(ctx context.Context, d *domain.Distribution) error
	CreateLinesFn         func(ctx context.Context, lines []domain.TierDistribution) error
	DeleteFn              func(ctx context.Context, d *domain.Distribution) error
	GetByDistributionIDFn func(ctx context.Context, distributionID string) (*domain.Distribution, error)
	ListByPropertyFn      func(ctx context.Context, propertyID uint64) ([]domain.Distribution, error)
	ListLinesFn           func(ctx context.Context, distributionID uint64) ([]domain.TierDistribution, error)
	CountByStructureFn    func(ctx context.Context, structureID uint64) (int64, error)
	PayoutTotalsFn        func(ctx context.Context, propertyID uint64, before time.Time) ([]domain.PayoutTotal, error)
}

func (m *DistributionRepo) Create(ctx context.Context, d *domain.Distribution) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *DistributionRepo) CreateLines(ctx context.Context, lines []domain.TierDistribution) error {
	if m.CreateLinesFn != nil {
		return m.CreateLinesFn(ctx, lines)
	}
	return nil
}

func (m *DistributionRepo) Delete(ctx context.Context, d *domain.Distribution) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, d)
	}
	return nil
}

func (m *DistributionRepo) GetByDistributionID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	if m.GetByDistributionIDFn != nil {
		return m.GetByDistributionIDFn(ctx, distributionID)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]domain.Distribution, error) {
	if m.ListByPropertyFn != nil {
		return m.ListByPropertyFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) ListLines(ctx context.Context, distributionID uint64) ([]domain.TierDistribution, error) {
	if m.ListLinesFn != nil {
		return m.ListLinesFn(ctx, distributionID)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) CountByStructure(ctx context.Context, structureID uint64) (int64, error) {
	if m.CountByStructureFn != nil {
		return m.CountByStructureFn(ctx, structureID)
	}
	return 0, context.Canceled
}

func (m *DistributionRepo) PayoutTotals(ctx context.Context, propertyID uint64, before time.Time) ([]domain.PayoutTotal, error) {
	if m.PayoutTotalsFn != nil {
		return m.PayoutTotalsFn(ctx, propertyID, before)
	}
	return nil, context.Canceled
}
