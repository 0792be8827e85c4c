package mysql

import (
	"context"
	"testing"
	"time"

	"campus-rentals-backend/internal/domain/investment"
	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The pool is
// pinned to one connection; every new connection would see an empty database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProperty(t *testing.T, db *gorm.DB, name string) *property.Property {
	t.Helper()
	p := &property.Property{PropertyID: id.NewID32(), Name: name, DebtAmount: decimal.Zero}
	if err := NewPropertyRepository(db).Create(context.Background(), p); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return p
}

func makeLoan(propertyID uint64, lender, balance string) *loan.Loan {
	return &loan.Loan{
		LoanID:         id.NewID32(),
		PropertyID:     propertyID,
		LenderName:     lender,
		OriginalAmount: dec(balance),
		CurrentBalance: dec(balance),
		IsActive:       true,
	}
}

func seedLoan(t *testing.T, db *gorm.DB, propertyID uint64, lender, balance string) *loan.Loan {
	t.Helper()
	l := makeLoan(propertyID, lender, balance)
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

func seedInvestor(t *testing.T, db *gorm.DB, propertyID uint64, name, amount, pct string, sponsor bool, at time.Time) *investment.Investment {
	t.Helper()
	in := &investment.Investment{
		PropertyID:          propertyID,
		UserID:              id.NewID32(),
		InvestorName:        name,
		InvestmentAmount:    dec(amount),
		OwnershipPercentage: dec(pct),
		InvestmentDate:      &at,
		IsSponsor:           sponsor,
	}
	if err := NewInvestmentRepository(db).Create(context.Background(), in); err != nil {
		t.Fatalf("seed investment: %v", err)
	}
	return in
}
