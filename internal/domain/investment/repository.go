package investment

import "context"

// Repository reads ownership records. Investor onboarding writes them
// elsewhere; Create exists for seeding.
type Repository interface {
	ListByProperty(ctx context.Context, propertyID uint64) ([]Investment, error)
	ListEntityByProperty(ctx context.Context, propertyID uint64) ([]EntityInvestment, error)

	Create(ctx context.Context, in *Investment) error
	CreateEntity(ctx context.Context, in *EntityInvestment) error
}
