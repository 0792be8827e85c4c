package documentmock

import (
	"context"

	domain "campus-rentals-backend/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn            func(ctx context.Context, f *domain.DealFile) error
	FindByDescriptionFn func(ctx context.Context, propertyID uint64, term string) ([]domain.DealFile, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.DealFile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) FindByDescription(ctx context.Context, propertyID uint64, term string) ([]domain.DealFile, error) {
	if m.FindByDescriptionFn != nil {
		return m.FindByDescriptionFn(ctx, propertyID, term)
	}
	return nil, context.Canceled
}
