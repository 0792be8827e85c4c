package propertymock

import (
	"context"

	domain "campus-rentals-backend/internal/domain/property"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                   func(ctx context.Context, p *domain.Property) error
	GetByPropertyIDFn          func(ctx context.Context, propertyID string) (*domain.Property, error)
	GetByIDFn                  func(ctx context.Context, id uint64) (*domain.Property, error)
	GetByPropertyIDForUpdateFn func(ctx context.Context, propertyID string) (*domain.Property, error)
	GetByIDForUpdateFn         func(ctx context.Context, id uint64) (*domain.Property, error)
	ListFn                     func(ctx context.Context) ([]domain.Property, error)
	UpdateDebtFn               func(ctx context.Context, id uint64, amount decimal.Decimal, details *string) error
}

func (m *Repo) Create(ctx context.Context, p *domain.Property) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPropertyID(ctx context.Context, propertyID string) (*domain.Property, error) {
	if m.GetByPropertyIDFn != nil {
		return m.GetByPropertyIDFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Property, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByPropertyIDForUpdate(ctx context.Context, propertyID string) (*domain.Property, error) {
	if m.GetByPropertyIDForUpdateFn != nil {
		return m.GetByPropertyIDForUpdateFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Property, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Property, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateDebt(ctx context.Context, id uint64, amount decimal.Decimal, details *string) error {
	if m.UpdateDebtFn != nil {
		return m.UpdateDebtFn(ctx, id, amount, details)
	}
	return nil
}
