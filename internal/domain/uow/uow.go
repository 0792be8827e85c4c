package uow

import (
	"context"

	"campus-rentals-backend/internal/domain/document"
	"campus-rentals-backend/internal/domain/investment"
	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/waterfall"
)

// Repos are repositories bound to one transaction.
type Repos struct {
	Properties    property.Repository
	Loans         loan.Repository
	Structures    waterfall.StructureRepository
	Distributions waterfall.DistributionRepository
	Investments   investment.Repository
	Documents     document.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinPropertyTx locks the property row before calling fn, serializing
	// every debt writer of that property.
	WithinPropertyTx(ctx context.Context, propertyID string, fn func(r Repos, p *property.Property) error) error
}
