package distribution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-rentals-backend/internal/domain/auth"
	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	wf "campus-rentals-backend/internal/domain/waterfall"
	"campus-rentals-backend/internal/usecase/debt"
	"campus-rentals-backend/pkg/id"
	"campus-rentals-backend/pkg/money"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const defaultRefinanceLender = "Refinance lender"

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	now   func() time.Time
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repos: repos, uow: tx, now: time.Now}
}

// resolveProperty finds the public id of the property the request runs on.
// Global templates need it spelled out.
func (u *Usecase) resolveProperty(ctx context.Context, in CreateDistributionInput) (string, error) {
	if in.PropertyID != "" {
		return in.PropertyID, nil
	}
	s, err := u.repos.Structures.GetByStructureID(ctx, in.StructureID)
	if err != nil {
		return "", err
	}
	if s.Global() {
		return "", wf.ErrPropertyRequired
	}
	p, err := u.repos.Properties.GetByID(ctx, *s.PropertyID)
	if err != nil {
		return "", err
	}
	return p.PropertyID, nil
}

// Create runs a distribution end to end while holding the property lock, so
// the debt read in stage DEBT_COMPUTED is the one the new loans replace.
func (u *Usecase) Create(ctx context.Context, in CreateDistributionInput, actor auth.Actor) (*DistributionDTO, error) {
	in, err := normalize(in, u.now())
	if err != nil {
		return nil, err
	}
	propertyID, err := u.resolveProperty(ctx, in)
	if err != nil {
		return nil, err
	}

	entry := log.WithFields(log.Fields{
		"property_id":       propertyID,
		"structure_id":      in.StructureID,
		"distribution_type": in.DistributionType,
		"actor":             actor.UserID,
		"role":              actor.Role,
	})

	var out *DistributionDTO
	err = u.uow.WithinPropertyTx(ctx, propertyID, func(r uow.Repos, p *property.Property) error {
		s, err := loadStructure(ctx, r, in.StructureID, p)
		if err != nil {
			return err
		}
		pl := newPlan(p, s, in)
		if err := pl.computeDebt(ctx, r); err != nil {
			return err
		}
		entry.WithFields(log.Fields{
			"stage":         pl.stages.Current(),
			"existing_debt": pl.existing.DebtAmount.String(),
			"distributable": pl.distributable.String(),
		}).Debug("distribution stage")
		if err := pl.allocate(ctx, r); err != nil {
			return err
		}
		entry.WithField("stage", pl.stages.Current()).Debug("distribution stage")

		d, err := persist(ctx, r, pl, actor)
		if err != nil {
			return err
		}
		if err := pl.stages.Advance(wf.StagePersisted); err != nil {
			return err
		}

		out = pl.dto()
		out.DistributionID = d.DistributionID
		out.CreatedBy = d.CreatedBy
		out.DebtAfter = &DebtDTO{DebtAmount: p.DebtAmount, DebtDetails: p.DebtDetails}
		return nil
	})
	if err != nil {
		if errors.Is(err, wf.ErrAllocationMismatch) {
			entry.WithError(err).Error("allocation does not reconcile")
		}
		return nil, err
	}

	for _, w := range out.Warnings {
		entry.WithField("code", w.Code).Warn(w.Message)
	}
	entry.WithFields(log.Fields{
		"distribution_id": out.DistributionID,
		"total_amount":    out.TotalAmount.String(),
		"stage":           out.Stage,
	}).Info("distribution created")
	return out, nil
}

// persist writes the distribution with its fees and lines and applies the
// debt side effects of sales and refinances.
func persist(ctx context.Context, r uow.Repos, pl *plan, actor auth.Actor) (*wf.Distribution, error) {
	in := pl.in
	d := &wf.Distribution{
		DistributionID:       id.NewID32(),
		WaterfallStructureID: pl.structure.ID,
		PropertyID:           pl.property.ID,
		DistributionType:     in.DistributionType,
		DistributionDate:     pl.date,
		Description:          in.Description,
		RequestedAmount:      in.Amount,
		DistributableAmount:  pl.distributable,
		TotalAmount:          pl.result.Allocated(),
		OldDebtAmount:        decimal.NewNullDecimal(pl.existing.DebtAmount),
		OldDebtDetails:       pl.existing.DebtDetails,
		CreatedBy:            actor.UserID,
	}
	if pl.proceeds != nil {
		d.NewDebtAmount = decimal.NewNullDecimal(money.Round(in.NewDebtAmount.Decimal))
		d.OriginationFees = decimal.NewNullDecimal(money.Round(nullZero(in.OriginationFees)))
		d.PrepaymentPenalty = decimal.NewNullDecimal(money.Round(nullZero(in.PrepaymentPenalty)))
		for _, f := range pl.closingFees {
			d.ClosingFees = append(d.ClosingFees, wf.ClosingFee{Category: f.Category, Amount: f.Amount})
		}
	}
	if err := r.Distributions.Create(ctx, d); err != nil {
		return nil, err
	}

	lines := make([]wf.TierDistribution, 0, len(pl.result.Lines()))
	for _, l := range pl.result.Lines() {
		lines = append(lines, wf.TierDistribution{
			WaterfallDistributionID: d.ID,
			WaterfallTierID:         l.Tier.ID,
			PropertyID:              pl.property.ID,
			TierType:                l.Tier.TierType,
			TierName:                l.Tier.TierName,
			RecipientKind:           l.Recipient.Kind,
			RecipientID:             l.Recipient.ID,
			Amount:                  l.Amount,
			DistributionDate:        pl.date,
		})
	}
	if err := r.Distributions.CreateLines(ctx, lines); err != nil {
		return nil, err
	}

	switch in.DistributionType {
	case wf.DistributionSale:
		if _, err := r.Loans.RetireActive(ctx, pl.property.ID, d.ID); err != nil {
			return nil, err
		}
	case wf.DistributionRefinance:
		if _, err := r.Loans.RetireActive(ctx, pl.property.ID, d.ID); err != nil {
			return nil, err
		}
		if d.NewDebtAmount.Decimal.IsPositive() {
			if err := r.Loans.Create(ctx, newLoan(pl, d, actor)); err != nil {
				return nil, err
			}
		}
	}

	if _, err := debt.RecomputeAggregateDebt(ctx, r, pl.property); err != nil {
		return nil, err
	}
	return d, nil
}

func newLoan(pl *plan, d *wf.Distribution, actor auth.Actor) *loan.Loan {
	terms := NewLoanTerms{LenderName: defaultRefinanceLender}
	if pl.in.NewLoan != nil {
		terms = *pl.in.NewLoan
		if terms.LenderName == "" {
			terms.LenderName = defaultRefinanceLender
		}
	}
	date := pl.date
	distID := d.ID
	return &loan.Loan{
		LoanID:                     id.NewID32(),
		PropertyID:                 pl.property.ID,
		LenderName:                 terms.LenderName,
		OriginalAmount:             d.NewDebtAmount.Decimal,
		CurrentBalance:             d.NewDebtAmount.Decimal,
		InterestRate:               terms.InterestRate,
		LoanDate:                   &date,
		MaturityDate:               terms.MaturityDate,
		LoanType:                   terms.LoanType,
		IsActive:                   true,
		OriginatedByDistributionID: &distID,
		CreatedBy:                  actor.UserID,
	}
}

// Preview computes what Create would distribute without writing anything.
func (u *Usecase) Preview(ctx context.Context, in CreateDistributionInput) (*DistributionDTO, error) {
	in, err := normalize(in, u.now())
	if err != nil {
		return nil, err
	}
	propertyID, err := u.resolveProperty(ctx, in)
	if err != nil {
		return nil, err
	}

	var out *DistributionDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Properties.GetByPropertyID(ctx, propertyID)
		if err != nil {
			return err
		}
		s, err := loadStructure(ctx, r, in.StructureID, p)
		if err != nil {
			return err
		}
		pl := newPlan(p, s, in)
		if err := pl.computeDebt(ctx, r); err != nil {
			return err
		}
		if err := pl.allocate(ctx, r); err != nil {
			return err
		}
		out = pl.dto()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete reverses a distribution: its lines and fees go, loans it originated
// are removed, loans it retired come back, and the debt is recomputed.
func (u *Usecase) Delete(ctx context.Context, distributionID string, actor auth.Actor) (*DeleteDTO, error) {
	out := &DeleteDTO{DistributionID: distributionID}
	var propertyID string
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		found, err := r.Distributions.GetByDistributionID(ctx, distributionID)
		if err != nil {
			return err
		}
		locked, err := r.Properties.GetByIDForUpdate(ctx, found.PropertyID)
		if err != nil {
			return err
		}
		propertyID = locked.PropertyID

		// re-read under the property lock; a concurrent delete may have won
		d, err := r.Distributions.GetByDistributionID(ctx, distributionID)
		if err != nil {
			return err
		}
		if changesDebt(d.DistributionType) {
			later, err := r.Distributions.ListByProperty(ctx, locked.ID)
			if err != nil {
				return err
			}
			for _, o := range later {
				if o.ID > d.ID && changesDebt(o.DistributionType) {
					return fmt.Errorf("%w: %s", wf.ErrDistributionSuperseded, o.DistributionID)
				}
			}
		}

		if out.LoansRemoved, err = r.Loans.DeleteOriginatedBy(ctx, d.ID); err != nil {
			return err
		}
		if out.LoansRestored, err = r.Loans.RestoreRetired(ctx, d.ID); err != nil {
			return err
		}
		if err := r.Distributions.Delete(ctx, d); err != nil {
			return err
		}
		agg, err := debt.RecomputeAggregateDebt(ctx, r, locked)
		if err != nil {
			return err
		}
		out.DebtAfter = DebtDTO{DebtAmount: agg.DebtAmount, DebtDetails: agg.DebtDetails}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"property_id":     propertyID,
		"distribution_id": distributionID,
		"loans_removed":   out.LoansRemoved,
		"loans_restored":  out.LoansRestored,
		"actor":           actor.UserID,
		"role":            actor.Role,
	}).Info("distribution deleted")
	return out, nil
}

func changesDebt(t wf.DistributionType) bool {
	return t == wf.DistributionSale || t == wf.DistributionRefinance
}

// List returns the distributions of a property, newest first.
func (u *Usecase) List(ctx context.Context, propertyID string) ([]SummaryRowDTO, error) {
	p, err := u.repos.Properties.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	list, err := u.repos.Distributions.ListByProperty(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	structureIDs := map[uint64]string{}
	out := make([]SummaryRowDTO, 0, len(list))
	for i := range list {
		sid, err := u.structurePublicID(ctx, structureIDs, list[i].WaterfallStructureID)
		if err != nil {
			return nil, err
		}
		out = append(out, summaryRow(&list[i], sid))
	}
	return out, nil
}

func (u *Usecase) structurePublicID(ctx context.Context, cache map[uint64]string, structureID uint64) (string, error) {
	if sid, ok := cache[structureID]; ok {
		return sid, nil
	}
	s, err := u.repos.Structures.GetByID(ctx, structureID)
	switch {
	case errors.Is(err, wf.ErrStructureNotFound):
		cache[structureID] = ""
		return "", nil
	case err != nil:
		return "", err
	}
	cache[structureID] = s.StructureID
	return s.StructureID, nil
}

func summaryRow(d *wf.Distribution, structureID string) SummaryRowDTO {
	return SummaryRowDTO{
		DistributionID:      d.DistributionID,
		StructureID:         structureID,
		DistributionType:    d.DistributionType,
		DistributionDate:    d.DistributionDate,
		Description:         d.Description,
		RequestedAmount:     d.RequestedAmount,
		DistributableAmount: d.DistributableAmount,
		TotalAmount:         d.TotalAmount,
		CreatedBy:           d.CreatedBy,
		CreatedAt:           d.CreatedAt,
	}
}
