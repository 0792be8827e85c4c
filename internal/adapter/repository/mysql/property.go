package mysql

import (
	"context"
	"errors"

	propertyDomain "campus-rentals-backend/internal/domain/property"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PropertyRepository struct{ db *gorm.DB }

func NewPropertyRepository(db *gorm.DB) *PropertyRepository { return &PropertyRepository{db: db} }

func (r *PropertyRepository) Create(ctx context.Context, p *propertyDomain.Property) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PropertyRepository) first(db *gorm.DB, query string, arg any) (*propertyDomain.Property, error) {
	var out propertyDomain.Property
	res := db.Where(query, arg).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, propertyDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *PropertyRepository) GetByPropertyID(ctx context.Context, propertyID string) (*propertyDomain.Property, error) {
	return r.first(r.db.WithContext(ctx), "property_id = ?", propertyID)
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint64) (*propertyDomain.Property, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// SELECT ... FOR UPDATE; sqlite ignores the locking clause
func (r *PropertyRepository) GetByPropertyIDForUpdate(ctx context.Context, propertyID string) (*propertyDomain.Property, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "property_id = ?", propertyID)
}

func (r *PropertyRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*propertyDomain.Property, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *PropertyRepository) List(ctx context.Context) ([]propertyDomain.Property, error) {
	var out []propertyDomain.Property
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *PropertyRepository) UpdateDebt(ctx context.Context, id uint64, amount decimal.Decimal, details *string) error {
	return r.db.WithContext(ctx).
		Model(&propertyDomain.Property{}).
		Where("id = ?", id).
		Updates(map[string]any{"debt_amount": amount, "debt_details": details}).Error
}
