package distribution

import (
	"time"

	wf "campus-rentals-backend/internal/domain/waterfall"

	"github.com/shopspring/decimal"
)

type ClosingFeeInput struct {
	Category string
	Amount   decimal.Decimal
}

// NewLoanTerms describes the loan a refinance originates.
type NewLoanTerms struct {
	LenderName   string
	InterestRate decimal.NullDecimal
	MaturityDate *time.Time
	LoanType     *string
}

type CreateDistributionInput struct {
	StructureID string
	// required when the structure is a global template
	PropertyID       string
	DistributionType wf.DistributionType
	// Gross cash for OPERATING and SALE; informational for REFINANCE
	Amount decimal.Decimal
	// zero means today; only the UTC calendar day is kept
	DistributionDate time.Time
	Description      *string

	NewDebtAmount     decimal.NullDecimal
	OriginationFees   decimal.NullDecimal
	PrepaymentPenalty decimal.NullDecimal
	ClosingFees       []ClosingFeeInput
	NewLoan           *NewLoanTerms
}

type LineDTO struct {
	RecipientKind wf.RecipientKind `json:"recipient_kind"`
	RecipientID   string           `json:"recipient_id"`
	RecipientName string           `json:"recipient_name"`
	Amount        decimal.Decimal  `json:"amount"`
}

type TierDTO struct {
	TierID     uint64          `json:"tier_id"`
	TierNumber int             `json:"tier_number,omitempty"`
	TierName   string          `json:"tier_name"`
	TierType   wf.TierType     `json:"tier_type"`
	Priority   int             `json:"priority,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Lines      []LineDTO       `json:"lines"`
}

type ClosingFeeDTO struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type RefinanceDTO struct {
	NewDebtAmount     decimal.Decimal `json:"new_debt_amount"`
	OriginationFees   decimal.Decimal `json:"origination_fees"`
	ClosingFees       []ClosingFeeDTO `json:"closing_fees"`
	ClosingFeesTotal  decimal.Decimal `json:"closing_fees_total"`
	PrepaymentPenalty decimal.Decimal `json:"prepayment_penalty"`
	TotalFees         decimal.Decimal `json:"total_fees"`
}

type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DebtDTO struct {
	DebtAmount  decimal.Decimal `json:"debt_amount"`
	DebtDetails *string         `json:"debt_details"`
}

// DistributionDTO is the outcome of Create and Preview. A preview has no
// DistributionID and stops at stage ALLOCATED.
type DistributionDTO struct {
	DistributionID      string              `json:"distribution_id,omitempty"`
	StructureID         string              `json:"structure_id"`
	PropertyID          string              `json:"property_id"`
	DistributionType    wf.DistributionType `json:"distribution_type"`
	DistributionDate    time.Time           `json:"distribution_date"`
	Description         *string             `json:"description"`
	RequestedAmount     decimal.Decimal     `json:"requested_amount"`
	ExistingDebt        DebtDTO             `json:"existing_debt"`
	DistributableAmount decimal.Decimal     `json:"distributable_amount"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	// set when a refinance does not cover the debt it retires
	CapitalCallRequired decimal.NullDecimal `json:"capital_call_required"`
	Refinance           *RefinanceDTO       `json:"refinance,omitempty"`
	Tiers               []TierDTO           `json:"tiers"`
	Warnings            []WarningDTO        `json:"warnings"`
	DebtAfter           *DebtDTO            `json:"debt_after,omitempty"`
	Stage               wf.Stage            `json:"stage"`
	CreatedBy           string              `json:"created_by,omitempty"`
}

type SummaryRowDTO struct {
	DistributionID      string              `json:"distribution_id"`
	StructureID         string              `json:"structure_id"`
	DistributionType    wf.DistributionType `json:"distribution_type"`
	DistributionDate    time.Time           `json:"distribution_date"`
	Description         *string             `json:"description"`
	RequestedAmount     decimal.Decimal     `json:"requested_amount"`
	DistributableAmount decimal.Decimal     `json:"distributable_amount"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	CreatedBy           string              `json:"created_by"`
	CreatedAt           time.Time           `json:"created_at"`
}

type RecipientTotalDTO struct {
	RecipientKind wf.RecipientKind `json:"recipient_kind"`
	RecipientID   string           `json:"recipient_id"`
	RecipientName string           `json:"recipient_name"`
	Total         decimal.Decimal  `json:"total"`
}

type BreakdownSummaryDTO struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TierCount      int             `json:"tier_count"`
	RecipientCount int             `json:"recipient_count"`
	EntityTotal    decimal.Decimal `json:"entity_total"`
	InvestorTotal  decimal.Decimal `json:"investor_total"`
}

type FileDTO struct {
	FileID      string    `json:"file_id"`
	FileName    string    `json:"file_name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

type BreakdownDTO struct {
	Distribution SummaryRowDTO       `json:"distribution"`
	PropertyID   string              `json:"property_id"`
	Refinance    *RefinanceDTO       `json:"refinance,omitempty"`
	Tiers        []TierDTO           `json:"tiers"`
	Recipients   []RecipientTotalDTO `json:"recipients"`
	Summary      BreakdownSummaryDTO `json:"summary"`
	Files        []FileDTO           `json:"files"`
}

type DeleteDTO struct {
	DistributionID string  `json:"distribution_id"`
	LoansRemoved   int64   `json:"loans_removed"`
	LoansRestored  int64   `json:"loans_restored"`
	DebtAfter      DebtDTO `json:"debt_after"`
}
