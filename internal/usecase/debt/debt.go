package debt

import (
	"context"
	"fmt"

	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
)

// Current reads the active loans of p through the transaction-bound repos and
// aggregates them without writing anything.
func Current(ctx context.Context, r uow.Repos, p *property.Property) (loan.Aggregate, error) {
	loans, err := r.Loans.ListActiveByProperty(ctx, p.ID)
	if err != nil {
		return loan.Aggregate{}, fmt.Errorf("%w: %v", loan.ErrMissingDebtFigures, err)
	}
	return loan.AggregateDebt(loans), nil
}

// RecomputeAggregateDebt refreshes the debt cache of p from its active loans.
// It must run in the transaction that changed the loans so the cache never
// drifts from the loan set.
func RecomputeAggregateDebt(ctx context.Context, r uow.Repos, p *property.Property) (loan.Aggregate, error) {
	agg, err := Current(ctx, r, p)
	if err != nil {
		return loan.Aggregate{}, err
	}
	if err := r.Properties.UpdateDebt(ctx, p.ID, agg.DebtAmount, agg.DebtDetails); err != nil {
		return loan.Aggregate{}, err
	}
	p.DebtAmount = agg.DebtAmount
	p.DebtDetails = agg.DebtDetails
	return agg, nil
}
