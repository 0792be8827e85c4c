package investmentmock

import (
	"context"

	domain "campus-rentals-backend/internal/domain/investment"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	ListByPropertyFn       func(ctx context.Context, propertyID uint64) ([]domain.Investment, error)
	ListEntityByPropertyFn func(ctx context.Context, propertyID uint64) ([]domain.EntityInvestment, error)
	CreateFn               func(ctx context.Context, in *domain.Investment) error
	CreateEntityFn         func(ctx context.Context, in *domain.EntityInvestment) error
}

func (m *Repo) ListByProperty(ctx context.Context, propertyID uint64) ([]domain.Investment, error) {
	if m.ListByPropertyFn != nil {
		return m.ListByPropertyFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListEntityByProperty(ctx context.Context, propertyID uint64) ([]domain.EntityInvestment, error) {
	if m.ListEntityByPropertyFn != nil {
		return m.ListEntityByPropertyFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *Repo) Create(ctx context.Context, in *domain.Investment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, in)
	}
	return nil
}

func (m *Repo) CreateEntity(ctx context.Context, in *domain.EntityInvestment) error {
	if m.CreateEntityFn != nil {
		return m.CreateEntityFn(ctx, in)
	}
	return nil
}
