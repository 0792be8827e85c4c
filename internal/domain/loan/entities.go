package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("loan not found")
	ErrMissingDebtFigures = errors.New("existing debt figures could not be read")
	ErrInvalidFeeTotal    = errors.New("fee components must not be negative")
	ErrInvalidDebtAmount  = errors.New("debt amounts must not be negative")
	ErrInvalidLoan        = errors.New("invalid loan")
)

// Loan is one debt instrument on a property (table property_loans).
type Loan struct {
	ID             uint64              `gorm:"primaryKey;column:id" json:"-"`
	LoanID         string              `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_property_loans_loan_id" json:"loan_id"`
	PropertyID     uint64              `gorm:"column:property_id;not null;index:idx_property_loans_property_active" json:"-"`
	LenderName     string              `gorm:"column:lender_name;size:255;not null" json:"lender_name"`
	AccountNumber  *string             `gorm:"column:account_number;size:128" json:"account_number"`
	OriginalAmount decimal.Decimal     `gorm:"column:original_amount;type:decimal(18,2);not null" json:"original_amount"`
	CurrentBalance decimal.Decimal     `gorm:"column:current_balance;type:decimal(18,2);not null" json:"current_balance"`
	InterestRate   decimal.NullDecimal `gorm:"column:interest_rate;type:decimal(9,4)" json:"interest_rate"`
	LoanDate       *time.Time          `gorm:"column:loan_date;type:date" json:"loan_date"`
	MaturityDate   *time.Time          `gorm:"column:maturity_date;type:date" json:"maturity_date"`
	MonthlyPayment decimal.NullDecimal `gorm:"column:monthly_payment;type:decimal(18,2)" json:"monthly_payment"`
	LoanType       *string             `gorm:"column:loan_type;size:64" json:"loan_type"`
	Notes          *string             `gorm:"column:notes;type:text" json:"notes"`
	// no gorm default: a false IsActive must be written as-is
	IsActive bool `gorm:"column:is_active;not null;index:idx_property_loans_property_active" json:"is_active"`

	// Distribution bookkeeping so a refinance or sale can be reversed
	OriginatedByDistributionID *uint64 `gorm:"column:originated_by_distribution_id;index" json:"-"`
	RetiredByDistributionID    *uint64 `gorm:"column:retired_by_distribution_id;index" json:"-"`

	CreatedBy string         `gorm:"column:created_by;size:64" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "property_loans" }
