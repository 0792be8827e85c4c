package uowmock

import (
	"context"
	"errors"

	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPropertyTxFn func(ctx context.Context, propertyID string, fn func(r uow.Repos, p *property.Property) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPropertyTx(fn func(context.Context, string, func(uow.Repos, *property.Property) error) error) *UoW {
	m.WithinPropertyTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough runs every callback against repos, handing p to property
// transactions whose id matches and property.ErrNotFound otherwise.
func Passthrough(repos uow.Repos, p *property.Property) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinPropertyTxFn: func(_ context.Context, propertyID string, fn func(uow.Repos, *property.Property) error) error {
			if p == nil || p.PropertyID != propertyID {
				return property.ErrNotFound
			}
			return fn(repos, p)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPropertyTx(ctx context.Context, propertyID string, fn func(r uow.Repos, p *property.Property) error) error {
	if m.WithinPropertyTxFn != nil {
		return m.WithinPropertyTxFn(ctx, propertyID, fn)
	}
	return errUnimplemented
}
