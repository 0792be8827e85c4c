package mysql

import (
	"context"

	"campus-rentals-backend/internal/domain/investment"

	"gorm.io/gorm"
)

type InvestmentRepository struct{ db *gorm.DB }

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) ListByProperty(ctx context.Context, propertyID uint64) ([]investment.Investment, error) {
	var out []investment.Investment
	res := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *InvestmentRepository) ListEntityByProperty(ctx context.Context, propertyID uint64) ([]investment.EntityInvestment, error) {
	var out []investment.EntityInvestment
	res := r.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *InvestmentRepository) Create(ctx context.Context, in *investment.Investment) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *InvestmentRepository) CreateEntity(ctx context.Context, in *investment.EntityInvestment) error {
	return r.db.WithContext(ctx).Create(in).Error
}
