package loan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-rentals-backend/internal/domain/auth"
	domain "campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	"campus-rentals-backend/internal/usecase/debt"
	"campus-rentals-backend/pkg/id"
	"campus-rentals-backend/pkg/money"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
}

// NewUsecase: repos serve plain reads, the UoW runs every write together
// with the debt recompute.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repos: repos, uow: tx}
}

func (u *Usecase) List(ctx context.Context, propertyID string) (*LoanListDTO, error) {
	p, err := u.repos.Properties.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	loans, err := u.repos.Loans.ListByProperty(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	out := &LoanListDTO{
		PropertyID:          p.PropertyID,
		Loans:               make([]LoanDTO, 0, len(loans)),
		TotalCurrentDebt:    decimal.Zero,
		TotalOriginalAmount: decimal.Zero,
		LoanCount:           len(loans),
	}
	for i := range loans {
		l := &loans[i]
		out.Loans = append(out.Loans, toDTO(l))
		out.TotalOriginalAmount = out.TotalOriginalAmount.Add(l.OriginalAmount)
		if l.IsActive {
			out.TotalCurrentDebt = out.TotalCurrentDebt.Add(l.CurrentBalance)
		}
	}
	return out, nil
}

func (u *Usecase) Debt(ctx context.Context, propertyID string) (*DebtDTO, error) {
	p, err := u.repos.Properties.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	dto := debtDTO(p)
	return &dto, nil
}

func (u *Usecase) Create(ctx context.Context, propertyID string, in CreateLoanInput, actor auth.Actor) (*MutationDTO, error) {
	in.LenderName = strings.TrimSpace(in.LenderName)
	if in.LenderName == "" {
		return nil, fmt.Errorf("%w: lender name is required", domain.ErrInvalidLoan)
	}
	if err := checkAmounts(in.OriginalAmount, in.CurrentBalance); err != nil {
		return nil, err
	}

	var out *MutationDTO
	err := u.uow.WithinPropertyTx(ctx, propertyID, func(r uow.Repos, p *property.Property) error {
		active := true
		if in.IsActive != nil {
			active = *in.IsActive
		}
		l := &domain.Loan{
			LoanID:         id.NewID32(),
			PropertyID:     p.ID,
			LenderName:     in.LenderName,
			AccountNumber:  in.AccountNumber,
			OriginalAmount: money.Round(in.OriginalAmount),
			CurrentBalance: money.Round(in.CurrentBalance),
			InterestRate:   in.InterestRate,
			LoanDate:       utcDate(in.LoanDate),
			MaturityDate:   utcDate(in.MaturityDate),
			MonthlyPayment: in.MonthlyPayment,
			LoanType:       in.LoanType,
			Notes:          in.Notes,
			IsActive:       active,
			CreatedBy:      actor.UserID,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if _, err := debt.RecomputeAggregateDebt(ctx, r, p); err != nil {
			return err
		}
		dto := toDTO(l)
		out = &MutationDTO{Loan: &dto, Debt: debtDTO(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logMutation("loan created", propertyID, out, actor)
	return out, nil
}

func (u *Usecase) Update(ctx context.Context, propertyID, loanID string, in UpdateLoanInput, actor auth.Actor) (*MutationDTO, error) {
	var out *MutationDTO
	err := u.uow.WithinPropertyTx(ctx, propertyID, func(r uow.Repos, p *property.Property) error {
		l, err := r.Loans.GetByLoanID(ctx, p.ID, loanID)
		if err != nil {
			return err
		}
		if err := applyPatch(l, in); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if _, err := debt.RecomputeAggregateDebt(ctx, r, p); err != nil {
			return err
		}
		dto := toDTO(l)
		out = &MutationDTO{Loan: &dto, Debt: debtDTO(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logMutation("loan updated", propertyID, out, actor)
	return out, nil
}

func (u *Usecase) Delete(ctx context.Context, propertyID, loanID string, actor auth.Actor) (*MutationDTO, error) {
	var out *MutationDTO
	err := u.uow.WithinPropertyTx(ctx, propertyID, func(r uow.Repos, p *property.Property) error {
		l, err := r.Loans.GetByLoanID(ctx, p.ID, loanID)
		if err != nil {
			return err
		}
		if err := r.Loans.Delete(ctx, l); err != nil {
			return err
		}
		if _, err := debt.RecomputeAggregateDebt(ctx, r, p); err != nil {
			return err
		}
		out = &MutationDTO{Debt: debtDTO(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"property_id": propertyID,
		"loan_id":     loanID,
		"actor":       actor.UserID,
		"role":        actor.Role,
	}).Info("loan deleted")
	return out, nil
}

func applyPatch(l *domain.Loan, in UpdateLoanInput) error {
	if in.LenderName != nil {
		name := strings.TrimSpace(*in.LenderName)
		if name == "" {
			return fmt.Errorf("%w: lender name is required", domain.ErrInvalidLoan)
		}
		l.LenderName = name
	}
	if in.AccountNumber != nil {
		l.AccountNumber = in.AccountNumber
	}
	if in.OriginalAmount != nil {
		l.OriginalAmount = money.Round(*in.OriginalAmount)
	}
	if in.CurrentBalance != nil {
		l.CurrentBalance = money.Round(*in.CurrentBalance)
	}
	if err := checkAmounts(l.OriginalAmount, l.CurrentBalance); err != nil {
		return err
	}
	if in.InterestRate != nil {
		l.InterestRate = decimal.NewNullDecimal(*in.InterestRate)
	}
	if in.LoanDate != nil {
		l.LoanDate = utcDate(in.LoanDate)
	}
	if in.MaturityDate != nil {
		l.MaturityDate = utcDate(in.MaturityDate)
	}
	if in.MonthlyPayment != nil {
		l.MonthlyPayment = decimal.NewNullDecimal(*in.MonthlyPayment)
	}
	if in.LoanType != nil {
		l.LoanType = in.LoanType
	}
	if in.Notes != nil {
		l.Notes = in.Notes
	}
	if in.IsActive != nil {
		l.IsActive = *in.IsActive
	}
	return nil
}

func checkAmounts(original, current decimal.Decimal) error {
	if original.IsNegative() || current.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", domain.ErrInvalidLoan)
	}
	return nil
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func logMutation(msg, propertyID string, out *MutationDTO, actor auth.Actor) {
	log.WithFields(log.Fields{
		"property_id": propertyID,
		"loan_id":     out.Loan.LoanID,
		"debt_amount": out.Debt.DebtAmount.String(),
		"actor":       actor.UserID,
		"role":        actor.Role,
	}).Info(msg)
}
