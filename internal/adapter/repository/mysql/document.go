package mysql

import (
	"context"

	"campus-rentals-backend/internal/domain/document"

	"gorm.io/gorm"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, f *document.DealFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *DocumentRepository) FindByDescription(ctx context.Context, propertyID uint64, term string) ([]document.DealFile, error) {
	var out []document.DealFile
	res := r.db.WithContext(ctx).
		Where("property_id = ? AND description LIKE ?", propertyID, "%"+term+"%").
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
