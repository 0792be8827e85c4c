package distribution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	wf "campus-rentals-backend/internal/domain/waterfall"
	"campus-rentals-backend/internal/usecase/debt"
	"campus-rentals-backend/pkg/money"

	"github.com/shopspring/decimal"
)

// plan is one distribution worked out up to stage ALLOCATED.
type plan struct {
	stages    *wf.StageMachine
	property  *property.Property
	structure *wf.Structure
	in        CreateDistributionInput
	date      time.Time

	existing      loan.Aggregate
	closingFees   []loan.ClosingFee
	closingTotal  decimal.Decimal
	proceeds      *loan.RefinanceProceeds
	distributable decimal.Decimal

	result *wf.AllocationResult
	names  map[wf.Recipient]string
}

// normalize checks the request before any repository is touched.
func normalize(in CreateDistributionInput, now time.Time) (CreateDistributionInput, error) {
	in.DistributionType = wf.DistributionType(strings.ToUpper(string(in.DistributionType)))
	if !in.DistributionType.Valid() {
		return in, fmt.Errorf("%w: %q", wf.ErrInvalidDistributionType, in.DistributionType)
	}
	if in.StructureID == "" {
		return in, fmt.Errorf("%w: structure id is required", wf.ErrInvalidDistribution)
	}
	in.Amount = money.Round(in.Amount)
	if in.Amount.IsNegative() {
		return in, wf.ErrNegativeAmount
	}
	if in.DistributionType != wf.DistributionRefinance {
		if !in.Amount.IsPositive() {
			return in, fmt.Errorf("%w: amount must be positive", wf.ErrInvalidDistribution)
		}
		if in.NewDebtAmount.Valid || in.OriginationFees.Valid || in.PrepaymentPenalty.Valid || len(in.ClosingFees) > 0 || in.NewLoan != nil {
			return in, fmt.Errorf("%w: refinance fields on a %s distribution", wf.ErrInvalidDistribution, in.DistributionType)
		}
	} else if !in.NewDebtAmount.Valid {
		return in, fmt.Errorf("%w: new debt amount is required for a refinance", loan.ErrInvalidDebtAmount)
	}

	if in.DistributionDate.IsZero() {
		in.DistributionDate = now
	}
	d := in.DistributionDate.UTC()
	in.DistributionDate = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return in, nil
}

// loadStructure resolves the structure inside the transaction and checks it
// may distribute on p.
func loadStructure(ctx context.Context, r uow.Repos, structureID string, p *property.Property) (*wf.Structure, error) {
	s, err := r.Structures.GetByStructureID(ctx, structureID)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, wf.ErrStructureInactive
	}
	if !s.Global() && *s.PropertyID != p.ID {
		return nil, fmt.Errorf("%w: structure belongs to another property", wf.ErrInvalidStructure)
	}
	return s, nil
}

func newPlan(p *property.Property, s *wf.Structure, in CreateDistributionInput) *plan {
	return &plan{stages: wf.NewStageMachine(), property: p, structure: s, in: in, date: in.DistributionDate}
}

// computeDebt reads the debt outstanding right now, inside the caller's
// transaction, and derives the distributable amount from it.
func (pl *plan) computeDebt(ctx context.Context, r uow.Repos) error {
	existing, err := debt.Current(ctx, r, pl.property)
	if err != nil {
		return err
	}
	pl.existing = existing

	switch pl.in.DistributionType {
	case wf.DistributionOperating:
		pl.distributable = pl.in.Amount
	case wf.DistributionSale:
		pl.distributable = pl.in.Amount.Sub(existing.DebtAmount)
		if pl.distributable.IsNegative() {
			return fmt.Errorf("%w: proceeds %s, debt %s", wf.ErrSaleShortfall, pl.in.Amount, existing.DebtAmount)
		}
	case wf.DistributionRefinance:
		for _, f := range pl.in.ClosingFees {
			pl.closingFees = append(pl.closingFees, loan.ClosingFee{Category: strings.TrimSpace(f.Category), Amount: money.Round(f.Amount)})
		}
		if pl.closingTotal, err = loan.TotalClosingFees(pl.closingFees); err != nil {
			return err
		}
		proceeds, err := loan.ComputeRefinanceProceeds(loan.RefinanceInput{
			NewDebtAmount:      money.Round(pl.in.NewDebtAmount.Decimal),
			OriginationFees:    money.Round(nullZero(pl.in.OriginationFees)),
			ClosingFees:        pl.closingTotal,
			PrepaymentPenalty:  money.Round(nullZero(pl.in.PrepaymentPenalty)),
			ExistingDebtAmount: existing.DebtAmount,
		})
		if err != nil {
			return err
		}
		pl.proceeds = &proceeds
		pl.distributable = proceeds.Distributable
	}
	return pl.stages.Advance(wf.StageDebtComputed)
}

// allocate runs the engine over the active tiers when there is cash to
// distribute. A cash-in refinance allocates nothing.
func (pl *plan) allocate(ctx context.Context, r uow.Repos) error {
	stakes, names, err := loadStakes(ctx, r, pl.property.ID, pl.date.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	pl.names = names

	if !pl.distributable.IsPositive() {
		pl.result = &wf.AllocationResult{Total: decimal.Zero}
	} else {
		res, err := wf.Allocate(wf.AllocationInput{
			Total:  pl.distributable,
			AsOf:   pl.date,
			Tiers:  pl.structure.ActiveTiers(),
			Stakes: stakes,
		})
		if err != nil {
			return err
		}
		pl.result = res
	}
	return pl.stages.Advance(wf.StageAllocated)
}

// loadOwnership merges investments and entity investments into engine
// stakes, one per recipient.
func loadOwnership(ctx context.Context, r uow.Repos, propertyID uint64) ([]wf.Stake, map[wf.Recipient]string, error) {
	invs, err := r.Investments.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}
	ents, err := r.Investments.ListEntityByProperty(ctx, propertyID)
	if err != nil {
		return nil, nil, err
	}

	var stakes []wf.Stake
	index := map[wf.Recipient]int{}
	names := map[wf.Recipient]string{}
	add := func(rec wf.Recipient, name string, amount, pct decimal.Decimal, at *time.Time, sponsor bool) {
		i, ok := index[rec]
		if !ok {
			i = len(stakes)
			index[rec] = i
			names[rec] = name
			stakes = append(stakes, wf.Stake{Recipient: rec, Name: name, OwnershipPct: decimal.Zero, Capital: decimal.Zero})
		}
		s := &stakes[i]
		s.Capital = s.Capital.Add(amount)
		s.OwnershipPct = s.OwnershipPct.Add(pct)
		s.Sponsor = s.Sponsor || sponsor
		if at != nil && (s.AccrualStart.IsZero() || at.Before(s.AccrualStart)) {
			s.AccrualStart = at.UTC()
		}
	}
	for _, in := range invs {
		add(wf.InvestorRecipient(in.UserID), in.InvestorName, in.InvestmentAmount, in.OwnershipPercentage, in.InvestmentDate, in.IsSponsor)
	}
	for _, e := range ents {
		add(wf.EntityRecipient(e.EntityInvestmentID), e.EntityName, e.InvestmentAmount, e.OwnershipPercentage, e.InvestmentDate, e.IsSponsor)
	}
	return stakes, names, nil
}

// loadStakes is loadOwnership with every payout booked on the property
// before cutoff.
func loadStakes(ctx context.Context, r uow.Repos, propertyID uint64, cutoff time.Time) ([]wf.Stake, map[wf.Recipient]string, error) {
	stakes, names, err := loadOwnership(ctx, r, propertyID)
	if err != nil {
		return nil, nil, err
	}
	totals, err := r.Distributions.PayoutTotals(ctx, propertyID, cutoff)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range totals {
		for i := range stakes {
			if stakes[i].Recipient == (wf.Recipient{Kind: t.RecipientKind, ID: t.RecipientID}) {
				stakes[i].Prior.Add(t.TierType, t.Amount)
			}
		}
	}
	return stakes, names, nil
}

func nullZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func warningCode(err error) string {
	if errors.Is(err, wf.ErrUncoveredResidual) {
		return "UNCOVERED_RESIDUAL"
	}
	return "WARNING"
}

// dto renders the plan; persisted fields are filled by the caller.
func (pl *plan) dto() *DistributionDTO {
	out := &DistributionDTO{
		StructureID:         pl.structure.StructureID,
		PropertyID:          pl.property.PropertyID,
		DistributionType:    pl.in.DistributionType,
		DistributionDate:    pl.date,
		Description:         pl.in.Description,
		RequestedAmount:     pl.in.Amount,
		ExistingDebt:        DebtDTO{DebtAmount: pl.existing.DebtAmount, DebtDetails: pl.existing.DebtDetails},
		DistributableAmount: pl.distributable,
		TotalAmount:         pl.result.Allocated(),
		Tiers:               []TierDTO{},
		Warnings:            []WarningDTO{},
		Stage:               pl.stages.Current(),
	}
	if pl.distributable.IsNegative() {
		out.CapitalCallRequired = decimal.NewNullDecimal(pl.distributable.Abs())
	}
	if pl.proceeds != nil {
		out.Refinance = &RefinanceDTO{
			NewDebtAmount:     money.Round(pl.in.NewDebtAmount.Decimal),
			OriginationFees:   money.Round(nullZero(pl.in.OriginationFees)),
			ClosingFees:       make([]ClosingFeeDTO, 0, len(pl.closingFees)),
			ClosingFeesTotal:  pl.closingTotal,
			PrepaymentPenalty: money.Round(nullZero(pl.in.PrepaymentPenalty)),
			TotalFees:         pl.proceeds.TotalFees,
		}
		for _, f := range pl.closingFees {
			out.Refinance.ClosingFees = append(out.Refinance.ClosingFees, ClosingFeeDTO(f))
		}
	}
	for _, tr := range pl.result.Tiers {
		td := TierDTO{
			TierID:     tr.Tier.ID,
			TierNumber: tr.Tier.TierNumber,
			TierName:   tr.Tier.TierName,
			TierType:   tr.Tier.TierType,
			Priority:   tr.Tier.Priority,
			Amount:     tr.Consumed,
			Lines:      make([]LineDTO, 0, len(tr.Lines)),
		}
		for _, l := range tr.Lines {
			td.Lines = append(td.Lines, LineDTO{
				RecipientKind: l.Recipient.Kind,
				RecipientID:   l.Recipient.ID,
				RecipientName: pl.names[l.Recipient],
				Amount:        l.Amount,
			})
		}
		out.Tiers = append(out.Tiers, td)
	}
	for _, w := range pl.result.Warnings {
		out.Warnings = append(out.Warnings, WarningDTO{Code: warningCode(w), Message: w.Error()})
	}
	return out
}
