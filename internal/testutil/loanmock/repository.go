package loanmock

import (
	"context"

	domain "campus-rentals-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	DeleteFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, propertyID uint64, loanID string) (*domain.Loan, error)
	ListByPropertyFn       func(ctx context.Context, propertyID uint64) ([]domain.Loan, error)
	ListActiveByPropertyFn func(ctx context.Context, propertyID uint64) ([]domain.Loan, error)
	RetireActiveFn         func(ctx context.Context, propertyID, distributionID uint64) (int64, error)
	RestoreRetiredFn       func(ctx context.Context, distributionID uint64) (int64, error)
	DeleteOriginatedByFn   func(ctx context.Context, distributionID uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, l *domain.Loan) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, propertyID uint64, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, propertyID, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByProperty(ctx context.Context, propertyID uint64) ([]domain.Loan, error) {
	if m.ListByPropertyFn != nil {
		return m.ListByPropertyFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListActiveByProperty(ctx context.Context, propertyID uint64) ([]domain.Loan, error) {
	if m.ListActiveByPropertyFn != nil {
		return m.ListActiveByPropertyFn(ctx, propertyID)
	}
	return nil, context.Canceled
}

func (m *Repo) RetireActive(ctx context.Context, propertyID, distributionID uint64) (int64, error) {
	if m.RetireActiveFn != nil {
		return m.RetireActiveFn(ctx, propertyID, distributionID)
	}
	return 0, nil
}

func (m *Repo) RestoreRetired(ctx context.Context, distributionID uint64) (int64, error) {
	if m.RestoreRetiredFn != nil {
		return m.RestoreRetiredFn(ctx, distributionID)
	}
	return 0, nil
}

func (m *Repo) DeleteOriginatedBy(ctx context.Context, distributionID uint64) (int64, error) {
	if m.DeleteOriginatedByFn != nil {
		return m.DeleteOriginatedByFn(ctx, distributionID)
	}
	return 0, nil
}
