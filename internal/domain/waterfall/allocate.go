package waterfall

import (
	"fmt"
	"time"

	"campus-rentals-backend/pkg/money"

	"github.com/shopspring/decimal"
)

const daysPerYear = 365

// Payouts is what a recipient has received, bucketed by tier type.
type Payouts struct {
	CapitalReturned decimal.Decimal
	Preferred       decimal.Decimal
	Promote         decimal.Decimal
	Residual        decimal.Decimal
}

// Add books amt under the bucket of tier type tt.
func (p *Payouts) Add(tt TierType, amt decimal.Decimal) {
	switch tt {
	case TierReturnOfCapital:
		p.CapitalReturned = p.CapitalReturned.Add(amt)
	case TierPreferredReturn:
		p.Preferred = p.Preferred.Add(amt)
	case TierCatchUp, TierPromote:
		p.Promote = p.Promote.Add(amt)
	case TierResidual:
		p.Residual = p.Residual.Add(amt)
	}
}

// Profit is every payout except returned capital.
func (p Payouts) Profit() decimal.Decimal { return money.Sum(p.Preferred, p.Promote, p.Residual) }

func (p Payouts) plus(o Payouts) Payouts {
	return Payouts{
		CapitalReturned: p.CapitalReturned.Add(o.CapitalReturned),
		Preferred:       p.Preferred.Add(o.Preferred),
		Promote:         p.Promote.Add(o.Promote),
		Residual:        p.Residual.Add(o.Residual),
	}
}

// Stake is one ownership record as seen by the engine.
type Stake struct {
	Recipient    Recipient
	Name         string
	OwnershipPct decimal.Decimal
	Capital      decimal.Decimal
	// Preferred return accrues from here; zero accrues one full year.
	AccrualStart time.Time
	// Sponsor marks the promoted party that takes CATCH_UP and PROMOTE.
	Sponsor bool
	// Prior holds payouts of earlier distributions.
	Prior Payouts
}

type AllocationInput struct {
	Total  decimal.Decimal
	AsOf   time.Time
	Tiers  []Tier
	Stakes []Stake
}

type Line struct {
	Tier      Tier
	Recipient Recipient
	Amount    decimal.Decimal
}

type TierResult struct {
	Tier     Tier
	Consumed decimal.Decimal
	Lines    []Line
}

type AllocationResult struct {
	Total    decimal.Decimal
	Tiers    []TierResult
	Warnings []error
}

// Lines flattens the per-tier line items in processing order.
func (r *AllocationResult) Lines() []Line {
	var out []Line
	for _, t := range r.Tiers {
		out = append(out, t.Lines...)
	}
	return out
}

func (r *AllocationResult) Allocated() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range r.Lines() {
		sum = sum.Add(l.Amount)
	}
	return sum
}

// Allocate splits in.Total across the tiers in priority order and, inside a
// tier, across the stakes. Inactive tiers are skipped. Amounts are in cents and the line items always add
// up to the rounded total. An amount left after the last tier goes to that
// tier and, unless it is RESIDUAL, ErrUncoveredResidual is reported in
// Warnings.
func Allocate(in AllocationInput) (*AllocationResult, error) {
	total := money.Round(in.Total)
	if total.IsNegative() {
		return nil, ErrNegativeAmount
	}
	res := &AllocationResult{Total: total}
	if total.IsZero() {
		return res, nil
	}
	tiers := make([]Tier, 0, len(in.Tiers))
	for _, t := range in.Tiers {
		if t.IsActive {
			tiers = append(tiers, t)
		}
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers configured", ErrUncoveredResidual)
	}
	SortTiers(tiers)
	rules := make([]Rule, len(tiers))
	for i, t := range tiers {
		r, err := t.Rule()
		if err != nil {
			return nil, err
		}
		rules[i] = r
	}

	a := newAllocator(in.Stakes, in.AsOf)
	remaining := total
	var perTier [][]decimal.Decimal
	for i, t := range tiers {
		if !remaining.IsPositive() {
			break
		}
		shares, err := a.shares(rules[i], remaining)
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", t.TierName, err)
		}
		a.credit(rules[i].Type(), shares)
		perTier = append(perTier, shares)
		remaining = remaining.Sub(money.Sum(shares...))
	}

	if remaining.IsPositive() {
		last := len(tiers) - 1
		if rules[last].Type() != TierResidual {
			res.Warnings = append(res.Warnings,
				fmt.Errorf("%w: %s left after tier %q", ErrUncoveredResidual, remaining, tiers[last].TierName))
		}
		extra, err := a.split(remaining, a.poolWeights(rules[last]))
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", tiers[last].TierName, err)
		}
		a.credit(rules[last].Type(), extra)
		for i := range extra {
			perTier[last][i] = perTier[last][i].Add(extra[i])
		}
	}

	for i, shares := range perTier {
		tr := TierResult{Tier: tiers[i], Consumed: money.Sum(shares...)}
		for j, amt := range shares {
			if amt.IsPositive() {
				tr.Lines = append(tr.Lines, Line{Tier: tiers[i], Recipient: a.stakes[j].Recipient, Amount: amt})
			}
		}
		res.Tiers = append(res.Tiers, tr)
	}

	if got := res.Allocated(); !got.Equal(total) {
		return nil, fmt.Errorf("%w: lines %s, total %s", ErrAllocationMismatch, got, total)
	}
	return res, nil
}

type allocator struct {
	stakes []Stake
	run    []Payouts
	asOf   time.Time
}

func newAllocator(stakes []Stake, asOf time.Time) *allocator {
	return &allocator{stakes: stakes, run: make([]Payouts, len(stakes)), asOf: asOf}
}

func (a *allocator) paid(i int) Payouts { return a.stakes[i].Prior.plus(a.run[i]) }

func (a *allocator) credit(tt TierType, shares []decimal.Decimal) {
	for i, amt := range shares {
		a.run[i].Add(tt, amt)
	}
}

func (a *allocator) shares(rule Rule, remaining decimal.Decimal) ([]decimal.Decimal, error) {
	switch r := rule.(type) {
	case PreferredReturn:
		return a.fill(remaining, a.preferredOwed(r.Rate))
	case ReturnOfCapital:
		return a.fill(remaining, a.unreturnedCapital())
	case CatchUp:
		return a.split(money.Min(a.catchUpNeed(r.Percentage, remaining), remaining), a.sponsorWeights())
	case Promote:
		return a.split(money.Floor(remaining.Mul(money.Percent(r.Percentage))), a.sponsorWeights())
	case Residual:
		return a.split(remaining, a.ownershipWeights())
	}
	return nil, ErrInvalidTierConfiguration
}

// fill pays each entitlement in full when remaining covers them all, and
// pro rata by entitlement otherwise.
func (a *allocator) fill(remaining decimal.Decimal, owed []decimal.Decimal) ([]decimal.Decimal, error) {
	if money.Sum(owed...).LessThanOrEqual(remaining) {
		return owed, nil
	}
	return a.split(remaining, owed)
}

// split divides amount by weights. Shares are floored to cents and the last
// positive weight takes the remainder.
func (a *allocator) split(amount decimal.Decimal, weights []decimal.Decimal) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(weights))
	for i := range out {
		out[i] = decimal.Zero
	}
	if !amount.IsPositive() {
		return out, nil
	}
	totalW, last := decimal.Zero, -1
	for i, w := range weights {
		if w.IsPositive() {
			totalW = totalW.Add(w)
			last = i
		}
	}
	if last < 0 {
		return nil, ErrNoRecipients
	}
	given := decimal.Zero
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		if i == last {
			out[i] = amount.Sub(given)
			break
		}
		out[i] = money.Floor(amount.Mul(w).Div(totalW))
		given = given.Add(out[i])
	}
	return out, nil
}

func (a *allocator) years(start time.Time) decimal.Decimal {
	if start.IsZero() {
		return decimal.NewFromInt(1)
	}
	if !a.asOf.After(start) {
		return decimal.Zero
	}
	days := int64(a.asOf.Sub(start).Hours() / 24)
	return decimal.NewFromInt(days).Div(decimal.NewFromInt(daysPerYear))
}

// preferredOwed accrues rate on the capital outstanding before this
// distribution, per stake, net of preferred already paid.
func (a *allocator) preferredOwed(rate decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, len(a.stakes))
	for i, s := range a.stakes {
		basis := money.NonNegative(s.Capital.Sub(s.Prior.CapitalReturned))
		accrued := basis.Mul(money.Percent(rate)).Mul(a.years(s.AccrualStart))
		out[i] = money.Floor(money.NonNegative(accrued.Sub(a.paid(i).Preferred)))
	}
	return out
}

func (a *allocator) unreturnedCapital() []decimal.Decimal {
	out := make([]decimal.Decimal, len(a.stakes))
	for i, s := range a.stakes {
		out[i] = money.NonNegative(s.Capital.Sub(a.paid(i).CapitalReturned))
	}
	return out
}

// catchUpNeed is the amount X that lifts the sponsor's promote S to pct of
// all profits P: (S + X) = pct * (P + X).
func (a *allocator) catchUpNeed(pct, remaining decimal.Decimal) decimal.Decimal {
	p := money.Percent(pct)
	one := decimal.NewFromInt(1)
	if p.GreaterThanOrEqual(one) {
		return remaining
	}
	profits, sponsor := decimal.Zero, decimal.Zero
	for i, s := range a.stakes {
		paid := a.paid(i)
		profits = profits.Add(paid.Profit())
		if s.Sponsor {
			sponsor = sponsor.Add(paid.Promote)
		}
	}
	need := p.Mul(profits).Sub(sponsor).Div(one.Sub(p))
	return money.Floor(money.NonNegative(need))
}

func (a *allocator) ownershipWeights() []decimal.Decimal {
	out := make([]decimal.Decimal, len(a.stakes))
	for i, s := range a.stakes {
		out[i] = money.NonNegative(s.OwnershipPct)
	}
	return out
}

// sponsorWeights splits between sponsors by ownership; sponsors without
// ownership share equally.
func (a *allocator) sponsorWeights() []decimal.Decimal {
	out := make([]decimal.Decimal, len(a.stakes))
	found := false
	for i, s := range a.stakes {
		out[i] = decimal.Zero
		if s.Sponsor && s.OwnershipPct.IsPositive() {
			out[i] = s.OwnershipPct
			found = true
		}
	}
	if !found {
		for i, s := range a.stakes {
			if s.Sponsor {
				out[i] = decimal.NewFromInt(1)
			}
		}
	}
	return out
}

func (a *allocator) poolWeights(rule Rule) []decimal.Decimal {
	switch rule.(type) {
	case CatchUp, Promote:
		return a.sponsorWeights()
	}
	return a.ownershipWeights()
}
