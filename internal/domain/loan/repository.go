package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, l *Loan) error

	GetByLoanID(ctx context.Context, propertyID uint64, loanID string) (*Loan, error)

	// Both lists are in creation order
	ListByProperty(ctx context.Context, propertyID uint64) ([]Loan, error)
	ListActiveByProperty(ctx context.Context, propertyID uint64) ([]Loan, error)

	// RetireActive deactivates every active loan of the property and tags it
	// with the distribution that retired it.
	RetireActive(ctx context.Context, propertyID, distributionID uint64) (int64, error)
	// RestoreRetired reactivates loans retired by the distribution.
	RestoreRetired(ctx context.Context, distributionID uint64) (int64, error)
	// DeleteOriginatedBy removes loans a distribution created.
	DeleteOriginatedBy(ctx context.Context, distributionID uint64) (int64, error)
}
