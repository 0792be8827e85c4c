package mysql

import (
	"context"

	"campus-rentals-backend/internal/domain/document"
	"campus-rentals-backend/internal/domain/investment"
	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	"campus-rentals-backend/internal/domain/waterfall"

	"gorm.io/gorm"
)

// Models lists every table owned by this service, for AutoMigrate.
func Models() []any {
	return []any{
		&property.Property{},
		&loan.Loan{},
		&waterfall.Structure{},
		&waterfall.Tier{},
		&waterfall.Distribution{},
		&waterfall.ClosingFee{},
		&waterfall.TierDistribution{},
		&investment.Investment{},
		&investment.EntityInvestment{},
		&document.DealFile{},
	}
}

// NewRepos binds every repository to db (a pool handle or a transaction).
func NewRepos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Properties:    &PropertyRepository{db: db},
		Loans:         &LoanRepository{db: db},
		Structures:    &StructureRepository{db: db},
		Distributions: &DistributionRepository{db: db},
		Investments:   &InvestmentRepository{db: db},
		Documents:     &DocumentRepository{db: db},
	}
}

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

func (u *GormUoW) WithinPropertyTx(ctx context.Context, propertyID string, fn func(r uow.Repos, p *property.Property) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := NewRepos(tx)
		// lock the property row up-front so debt writers queue behind each other
		p, err := r.Properties.GetByPropertyIDForUpdate(ctx, propertyID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
