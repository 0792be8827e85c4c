package mysql

import (
	"context"
	"errors"
	"time"

	wf "campus-rentals-backend/internal/domain/waterfall"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderedTiers(db *gorm.DB) *gorm.DB {
	return db.Order("priority ASC, tier_number ASC, id ASC")
}

type StructureRepository struct{ db *gorm.DB }

func NewStructureRepository(db *gorm.DB) *StructureRepository { return &StructureRepository{db: db} }

func (r *StructureRepository) Create(ctx context.Context, s *wf.Structure) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *StructureRepository) Save(ctx context.Context, s *wf.Structure) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *StructureRepository) Delete(ctx context.Context, s *wf.Structure) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("waterfall_structure_id = ?", s.ID).Delete(&wf.Tier{}).Error; err != nil {
		return err
	}
	return db.Omit(clause.Associations).Delete(s).Error
}

func (r *StructureRepository) ReplaceTiers(ctx context.Context, structureID uint64, tiers []wf.Tier) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("waterfall_structure_id = ?", structureID).Delete(&wf.Tier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].ID = 0
		tiers[i].WaterfallStructureID = structureID
	}
	return db.Create(&tiers).Error
}

func (r *StructureRepository) get(ctx context.Context, query string, arg any) (*wf.Structure, error) {
	var out wf.Structure
	res := r.db.WithContext(ctx).
		Preload("Tiers", orderedTiers).
		Where(query, arg).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, wf.ErrStructureNotFound
	}
	return &out, res.Error
}

func (r *StructureRepository) GetByStructureID(ctx context.Context, structureID string) (*wf.Structure, error) {
	return r.get(ctx, "structure_id = ?", structureID)
}

func (r *StructureRepository) GetByID(ctx context.Context, id uint64) (*wf.Structure, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *StructureRepository) ListByProperty(ctx context.Context, propertyID uint64, activeOnly bool) ([]wf.Structure, error) {
	var out []wf.Structure
	q := r.db.WithContext(ctx).Preload("Tiers", orderedTiers).Where("property_id = ?", propertyID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	res := q.Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *StructureRepository) ListGlobal(ctx context.Context) ([]wf.Structure, error) {
	var out []wf.Structure
	res := r.db.WithContext(ctx).
		Preload("Tiers", orderedTiers).
		Where("property_id IS NULL").
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

type DistributionRepository struct{ db *gorm.DB }

func NewDistributionRepository(db *gorm.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

func (r *DistributionRepository) Create(ctx context.Context, d *wf.Distribution) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DistributionRepository) CreateLines(ctx context.Context, lines []wf.TierDistribution) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&lines, 200).Error
}

func (r *DistributionRepository) Delete(ctx context.Context, d *wf.Distribution) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("waterfall_distribution_id = ?", d.ID).Delete(&wf.TierDistribution{}).Error; err != nil {
		return err
	}
	if err := db.Where("waterfall_distribution_id = ?", d.ID).Delete(&wf.ClosingFee{}).Error; err != nil {
		return err
	}
	return db.Omit(clause.Associations).Delete(d).Error
}

func (r *DistributionRepository) GetByDistributionID(ctx context.Context, distributionID string) (*wf.Distribution, error) {
	var out wf.Distribution
	res := r.db.WithContext(ctx).
		Preload("ClosingFees").
		Where("distribution_id = ?", distributionID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, wf.ErrDistributionNotFound
	}
	return &out, res.Error
}

func (r *DistributionRepository) ListByProperty(ctx context.Context, propertyID uint64) ([]wf.Distribution, error) {
	var out []wf.Distribution
	res := r.db.WithContext(ctx).
		Preload("ClosingFees").
		Where("property_id = ?", propertyID).
		Order("distribution_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *DistributionRepository) ListLines(ctx context.Context, distributionID uint64) ([]wf.TierDistribution, error) {
	var out []wf.TierDistribution
	res := r.db.WithContext(ctx).
		Where("waterfall_distribution_id = ?", distributionID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *DistributionRepository) CountByStructure(ctx context.Context, structureID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&wf.Distribution{}).
		Where("waterfall_structure_id = ?", structureID).
		Count(&n)
	return n, res.Error
}

func (r *DistributionRepository) PayoutTotals(ctx context.Context, propertyID uint64, before time.Time) ([]wf.PayoutTotal, error) {
	var out []wf.PayoutTotal
	res := r.db.WithContext(ctx).
		Model(&wf.TierDistribution{}).
		Select("recipient_kind, recipient_id, tier_type, SUM(amount) AS amount").
		Where("property_id = ? AND distribution_date < ?", propertyID, before).
		Group("recipient_kind, recipient_id, tier_type").
		Order("recipient_kind, recipient_id, tier_type").
		Scan(&out)
	return out, res.Error
}
