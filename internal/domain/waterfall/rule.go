package waterfall

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rule is the decoded, type-checked form of a tier:
// PreferredReturn | CatchUp | Promote | Residual | ReturnOfCapital.
type Rule interface {
	Type() TierType
	isRule()
}

// PreferredReturn pays Rate percent a year on unreturned capital.
type PreferredReturn struct{ Rate decimal.Decimal }

// CatchUp routes profits to the sponsor until it holds Percentage of all profits.
type CatchUp struct{ Percentage decimal.Decimal }

// Promote gives the sponsor Percentage of whatever is left.
type Promote struct{ Percentage decimal.Decimal }

type Residual struct{}

type ReturnOfCapital struct{}

func (PreferredReturn) Type() TierType { return TierPreferredReturn }
func (CatchUp) Type() TierType         { return TierCatchUp }
func (Promote) Type() TierType         { return TierPromote }
func (Residual) Type() TierType        { return TierResidual }
func (ReturnOfCapital) Type() TierType { return TierReturnOfCapital }

func (PreferredReturn) isRule() {}
func (CatchUp) isRule()         {}
func (Promote) isRule()         {}
func (Residual) isRule()        {}
func (ReturnOfCapital) isRule() {}

// ParseRule builds a Rule from the flat tier columns. The parameter matching
// the type must be set and in (0, 100]; every other parameter must be null.
func ParseRule(tt TierType, returnRate, catchUp, promote decimal.NullDecimal) (Rule, error) {
	var (
		want  *decimal.NullDecimal
		build func(decimal.Decimal) Rule
	)
	switch tt {
	case TierPreferredReturn:
		want, build = &returnRate, func(d decimal.Decimal) Rule { return PreferredReturn{Rate: d} }
	case TierCatchUp:
		want, build = &catchUp, func(d decimal.Decimal) Rule { return CatchUp{Percentage: d} }
	case TierPromote:
		want, build = &promote, func(d decimal.Decimal) Rule { return Promote{Percentage: d} }
	case TierResidual, TierReturnOfCapital:
	default:
		return nil, fmt.Errorf("%w: unknown tier type %q", ErrInvalidTierConfiguration, tt)
	}

	for name, p := range map[string]*decimal.NullDecimal{
		"return_rate":         &returnRate,
		"catch_up_percentage": &catchUp,
		"promote_percentage":  &promote,
	} {
		if p != want && p.Valid {
			return nil, fmt.Errorf("%w: %s must be empty for %s", ErrInvalidTierConfiguration, name, tt)
		}
	}

	switch tt {
	case TierResidual:
		return Residual{}, nil
	case TierReturnOfCapital:
		return ReturnOfCapital{}, nil
	}
	if !want.Valid {
		return nil, fmt.Errorf("%w: %s requires a parameter", ErrInvalidTierConfiguration, tt)
	}
	if !want.Decimal.IsPositive() || want.Decimal.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: %s parameter %s outside (0, 100]", ErrInvalidTierConfiguration, tt, want.Decimal)
	}
	return build(want.Decimal), nil
}

// Rule decodes the tier's parameters.
func (t Tier) Rule() (Rule, error) {
	r, err := ParseRule(t.TierType, t.ReturnRate, t.CatchUpPercentage, t.PromotePercentage)
	if err != nil {
		return nil, fmt.Errorf("tier %q: %w", t.TierName, err)
	}
	return r, nil
}

// SetRule writes r into the flat columns, clearing the others.
func (t *Tier) SetRule(r Rule) {
	t.TierType = r.Type()
	t.ReturnRate, t.CatchUpPercentage, t.PromotePercentage = decimal.NullDecimal{}, decimal.NullDecimal{}, decimal.NullDecimal{}
	switch v := r.(type) {
	case PreferredReturn:
		t.ReturnRate = decimal.NewNullDecimal(v.Rate)
	case CatchUp:
		t.CatchUpPercentage = decimal.NewNullDecimal(v.Percentage)
	case Promote:
		t.PromotePercentage = decimal.NewNullDecimal(v.Percentage)
	}
}
