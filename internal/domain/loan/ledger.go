package loan

import (
	"fmt"
	"strings"

	"campus-rentals-backend/pkg/money"

	"github.com/shopspring/decimal"
)

// Aggregate is the derived debt of a property.
type Aggregate struct {
	DebtAmount decimal.Decimal
	// nil when the property has no active loan
	DebtDetails *string
	ActiveLoans int
}

// AggregateDebt sums the current balance of the active loans and renders the
// "{lender}: ${balance}" detail string joined by "; ". Input order is kept, so
// callers pass loans in creation order.
func AggregateDebt(loans []Loan) Aggregate {
	out := Aggregate{DebtAmount: decimal.Zero}
	parts := make([]string, 0, len(loans))
	for _, l := range loans {
		if !l.IsActive {
			continue
		}
		out.DebtAmount = out.DebtAmount.Add(l.CurrentBalance)
		out.ActiveLoans++
		parts = append(parts, l.LenderName+": "+money.FormatUSD(l.CurrentBalance))
	}
	if len(parts) > 0 {
		details := strings.Join(parts, "; ")
		out.DebtDetails = &details
	}
	return out
}

// ClosingFee is one itemized refinance closing cost.
type ClosingFee struct {
	Category string
	Amount   decimal.Decimal
}

// TotalClosingFees sums itemized fees; a negative item is rejected.
func TotalClosingFees(items []ClosingFee) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		if it.Amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: closing fee %q is %s", ErrInvalidFeeTotal, it.Category, it.Amount)
		}
		total = total.Add(it.Amount)
	}
	return total, nil
}

type RefinanceInput struct {
	NewDebtAmount     decimal.Decimal
	OriginationFees   decimal.Decimal
	ClosingFees       decimal.Decimal
	PrepaymentPenalty decimal.Decimal
	// Debt outstanding right before the refinance, read inside the same transaction
	ExistingDebtAmount decimal.Decimal
}

type RefinanceProceeds struct {
	TotalFees     decimal.Decimal
	Distributable decimal.Decimal
}

// CashIn reports a refinance that needs capital from investors.
func (p RefinanceProceeds) CashIn() bool { return p.Distributable.IsNegative() }

// ComputeRefinanceProceeds derives the distributable amount of a refinance:
// new debt minus every financing cost minus the debt being retired. The
// result is never compared against the old debt; a negative value is a valid
// cash-in refinance.
func ComputeRefinanceProceeds(in RefinanceInput) (RefinanceProceeds, error) {
	for name, fee := range map[string]decimal.Decimal{
		"origination fees":   in.OriginationFees,
		"closing fees":       in.ClosingFees,
		"prepayment penalty": in.PrepaymentPenalty,
	} {
		if fee.IsNegative() {
			return RefinanceProceeds{}, fmt.Errorf("%w: %s is %s", ErrInvalidFeeTotal, name, fee)
		}
	}
	if in.NewDebtAmount.IsNegative() || in.ExistingDebtAmount.IsNegative() {
		return RefinanceProceeds{}, ErrInvalidDebtAmount
	}
	fees := money.Sum(in.OriginationFees, in.ClosingFees, in.PrepaymentPenalty)
	return RefinanceProceeds{
		TotalFees:     fees,
		Distributable: in.NewDebtAmount.Sub(fees).Sub(in.ExistingDebtAmount),
	}, nil
}
