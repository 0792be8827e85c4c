package property

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByPropertyID(ctx context.Context, propertyID string) (*Property, error)
	GetByID(ctx context.Context, id uint64) (*Property, error)

	// Row-locking reads, only meaningful inside a transaction
	GetByPropertyIDForUpdate(ctx context.Context, propertyID string) (*Property, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Property, error)

	List(ctx context.Context) ([]Property, error)

	// UpdateDebt persists the derived debt cache. details nil stores NULL.
	UpdateDebt(ctx context.Context, id uint64, amount decimal.Decimal, details *string) error
}
