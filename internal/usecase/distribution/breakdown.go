package distribution

import (
	"context"

	wf "campus-rentals-backend/internal/domain/waterfall"

	"github.com/shopspring/decimal"
)

// Breakdown groups the line items of a distribution by tier and by recipient
// and attaches the deal files that mention the distribution id.
func (u *Usecase) Breakdown(ctx context.Context, distributionID string) (*BreakdownDTO, error) {
	d, err := u.repos.Distributions.GetByDistributionID(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	p, err := u.repos.Properties.GetByID(ctx, d.PropertyID)
	if err != nil {
		return nil, err
	}
	lines, err := u.repos.Distributions.ListLines(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	_, names, err := loadOwnership(ctx, u.repos, p.ID)
	if err != nil {
		return nil, err
	}
	sid, err := u.structurePublicID(ctx, map[uint64]string{}, d.WaterfallStructureID)
	if err != nil {
		return nil, err
	}
	files, err := u.repos.Documents.FindByDescription(ctx, p.ID, d.DistributionID)
	if err != nil {
		return nil, err
	}

	out := &BreakdownDTO{
		Distribution: summaryRow(d, sid),
		PropertyID:   p.PropertyID,
		Refinance:    refinanceOf(d),
		Tiers:        []TierDTO{},
		Recipients:   []RecipientTotalDTO{},
		Files:        make([]FileDTO, 0, len(files)),
		Summary: BreakdownSummaryDTO{
			TotalAmount:   decimal.Zero,
			EntityTotal:   decimal.Zero,
			InvestorTotal: decimal.Zero,
		},
	}

	tierIdx := map[uint64]int{}
	recIdx := map[wf.Recipient]int{}
	for _, l := range lines {
		rec := l.Recipient()
		name := names[rec]
		if name == "" {
			name = rec.ID
		}

		ti, ok := tierIdx[l.WaterfallTierID]
		if !ok {
			ti = len(out.Tiers)
			tierIdx[l.WaterfallTierID] = ti
			out.Tiers = append(out.Tiers, TierDTO{
				TierID:   l.WaterfallTierID,
				TierName: l.TierName,
				TierType: l.TierType,
				Amount:   decimal.Zero,
				Lines:    []LineDTO{},
			})
		}
		t := &out.Tiers[ti]
		t.Amount = t.Amount.Add(l.Amount)
		t.Lines = append(t.Lines, LineDTO{RecipientKind: rec.Kind, RecipientID: rec.ID, RecipientName: name, Amount: l.Amount})

		ri, ok := recIdx[rec]
		if !ok {
			ri = len(out.Recipients)
			recIdx[rec] = ri
			out.Recipients = append(out.Recipients, RecipientTotalDTO{RecipientKind: rec.Kind, RecipientID: rec.ID, RecipientName: name, Total: decimal.Zero})
		}
		out.Recipients[ri].Total = out.Recipients[ri].Total.Add(l.Amount)

		out.Summary.TotalAmount = out.Summary.TotalAmount.Add(l.Amount)
		if rec.Kind == wf.RecipientEntity {
			out.Summary.EntityTotal = out.Summary.EntityTotal.Add(l.Amount)
		} else {
			out.Summary.InvestorTotal = out.Summary.InvestorTotal.Add(l.Amount)
		}
	}
	out.Summary.TierCount = len(out.Tiers)
	out.Summary.RecipientCount = len(out.Recipients)

	for _, f := range files {
		out.Files = append(out.Files, FileDTO{
			FileID:      f.FileID,
			FileName:    f.FileName,
			Description: f.Description,
			URL:         f.URL,
			CreatedAt:   f.CreatedAt,
		})
	}
	return out, nil
}

func refinanceOf(d *wf.Distribution) *RefinanceDTO {
	if d.DistributionType != wf.DistributionRefinance {
		return nil
	}
	out := &RefinanceDTO{
		NewDebtAmount:     nullZero(d.NewDebtAmount),
		OriginationFees:   nullZero(d.OriginationFees),
		ClosingFees:       make([]ClosingFeeDTO, 0, len(d.ClosingFees)),
		ClosingFeesTotal:  decimal.Zero,
		PrepaymentPenalty: nullZero(d.PrepaymentPenalty),
	}
	for _, f := range d.ClosingFees {
		out.ClosingFees = append(out.ClosingFees, ClosingFeeDTO{Category: f.Category, Amount: f.Amount})
		out.ClosingFeesTotal = out.ClosingFeesTotal.Add(f.Amount)
	}
	out.TotalFees = out.OriginationFees.Add(out.ClosingFeesTotal).Add(out.PrepaymentPenalty)
	return out
}
