package loan

import (
	"time"

	domain "campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	LenderName     string
	AccountNumber  *string
	OriginalAmount decimal.Decimal
	CurrentBalance decimal.Decimal
	InterestRate   decimal.NullDecimal
	LoanDate       *time.Time
	MaturityDate   *time.Time
	MonthlyPayment decimal.NullDecimal
	LoanType       *string
	Notes          *string
	// nil creates an active loan
	IsActive *bool
}

// UpdateLoanInput is a patch: nil fields are left untouched.
type UpdateLoanInput struct {
	LenderName     *string
	AccountNumber  *string
	OriginalAmount *decimal.Decimal
	CurrentBalance *decimal.Decimal
	InterestRate   *decimal.Decimal
	LoanDate       *time.Time
	MaturityDate   *time.Time
	MonthlyPayment *decimal.Decimal
	LoanType       *string
	Notes          *string
	IsActive       *bool
}

type LoanDTO struct {
	LoanID         string              `json:"loan_id"`
	LenderName     string              `json:"lender_name"`
	AccountNumber  *string             `json:"account_number"`
	OriginalAmount decimal.Decimal     `json:"original_amount"`
	CurrentBalance decimal.Decimal     `json:"current_balance"`
	InterestRate   decimal.NullDecimal `json:"interest_rate"`
	LoanDate       *time.Time          `json:"loan_date"`
	MaturityDate   *time.Time          `json:"maturity_date"`
	MonthlyPayment decimal.NullDecimal `json:"monthly_payment"`
	LoanType       *string             `json:"loan_type"`
	Notes          *string             `json:"notes"`
	IsActive       bool                `json:"is_active"`
	CreatedBy      string              `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type LoanListDTO struct {
	PropertyID          string          `json:"property_id"`
	Loans               []LoanDTO       `json:"loans"`
	TotalCurrentDebt    decimal.Decimal `json:"total_current_debt"`
	TotalOriginalAmount decimal.Decimal `json:"total_original_amount"`
	LoanCount           int             `json:"loan_count"`
}

// DebtDTO is the cached debt of a property. It is display data and may lag a
// concurrent loan edit.
type DebtDTO struct {
	PropertyID  string          `json:"property_id"`
	DebtAmount  decimal.Decimal `json:"debt_amount"`
	DebtDetails *string         `json:"debt_details"`
}

// MutationDTO is returned by every loan write together with the debt it produced.
type MutationDTO struct {
	Loan *LoanDTO `json:"loan,omitempty"`
	Debt DebtDTO  `json:"debt"`
}

func toDTO(l *domain.Loan) LoanDTO {
	return LoanDTO{
		LoanID:         l.LoanID,
		LenderName:     l.LenderName,
		AccountNumber:  l.AccountNumber,
		OriginalAmount: l.OriginalAmount,
		CurrentBalance: l.CurrentBalance,
		InterestRate:   l.InterestRate,
		LoanDate:       l.LoanDate,
		MaturityDate:   l.MaturityDate,
		MonthlyPayment: l.MonthlyPayment,
		LoanType:       l.LoanType,
		Notes:          l.Notes,
		IsActive:       l.IsActive,
		CreatedBy:      l.CreatedBy,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

func debtDTO(p *property.Property) DebtDTO {
	return DebtDTO{PropertyID: p.PropertyID, DebtAmount: p.DebtAmount, DebtDetails: p.DebtDetails}
}
