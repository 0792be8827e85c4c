package waterfall

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidTierConfiguration  = errors.New("invalid tier configuration")
	ErrNoRecipients              = errors.New("tier has no eligible recipients")
	ErrAllocationMismatch        = errors.New("allocated line items do not reconcile with the total")
	ErrUncoveredResidual         = errors.New("tiers do not cover the full distribution amount")
	ErrNegativeAmount            = errors.New("distribution amount must not be negative")
	ErrStructureNotFound         = errors.New("waterfall structure not found")
	ErrStructureInactive         = errors.New("waterfall structure is inactive")
	ErrStructureHasDistributions = errors.New("cannot delete waterfall structure that has distributions")
	ErrNotGlobalStructure        = errors.New("waterfall structure is not a global template")
	ErrDistributionNotFound      = errors.New("waterfall distribution not found")
	ErrInvalidDistributionType   = errors.New("invalid distribution type")
	ErrPropertyRequired          = errors.New("property is required for a global waterfall structure")
	ErrSaleShortfall             = errors.New("sale proceeds do not cover outstanding debt")
	ErrInvalidStructure          = errors.New("invalid waterfall structure")
	ErrInvalidDistribution       = errors.New("invalid distribution request")
	ErrDistributionSuperseded    = errors.New("a later distribution changed the debt of this property")
)

type TierType string

const (
	TierPreferredReturn TierType = "PREFERRED_RETURN"
	TierCatchUp         TierType = "CATCH_UP"
	TierPromote         TierType = "PROMOTE"
	TierResidual        TierType = "RESIDUAL"
	TierReturnOfCapital TierType = "RETURN_OF_CAPITAL"
)

type DistributionType string

const (
	DistributionOperating DistributionType = "OPERATING"
	DistributionSale      DistributionType = "SALE"
	DistributionRefinance DistributionType = "REFINANCE"
)

func (t DistributionType) Valid() bool {
	switch t {
	case DistributionOperating, DistributionSale, DistributionRefinance:
		return true
	}
	return false
}

// Structure is a profit-sharing scheme. A nil PropertyID marks a global
// template that is copied onto properties.
type Structure struct {
	ID          uint64         `gorm:"primaryKey;column:id" json:"-"`
	StructureID string         `gorm:"column:structure_id;size:32;not null;uniqueIndex:ux_waterfall_structures_structure_id" json:"structure_id"`
	PropertyID  *uint64        `gorm:"column:property_id;index" json:"-"`
	Name        string         `gorm:"column:name;size:255;not null" json:"name"`
	Description *string        `gorm:"column:description;type:text" json:"description"`
	IsActive    bool           `gorm:"column:is_active;not null" json:"is_active"`
	Tiers       []Tier         `gorm:"foreignKey:WaterfallStructureID;references:ID" json:"tiers"`
	CreatedBy   string         `gorm:"column:created_by;size:64" json:"created_by"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Structure) TableName() string { return "waterfall_structures" }

func (s Structure) Global() bool { return s.PropertyID == nil }

// ActiveTiers returns active tiers in processing order.
func (s Structure) ActiveTiers() []Tier {
	out := make([]Tier, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		if t.IsActive {
			out = append(out, t)
		}
	}
	SortTiers(out)
	return out
}

// Tier is the persisted form of a waterfall rule. Exactly one of the three
// nullable parameters is set, matching TierType; Rule decodes and checks it.
type Tier struct {
	ID                   uint64              `gorm:"primaryKey;column:id" json:"id"`
	WaterfallStructureID uint64              `gorm:"column:waterfall_structure_id;not null;index" json:"-"`
	TierNumber           int                 `gorm:"column:tier_number;not null" json:"tier_number"`
	TierName             string              `gorm:"column:tier_name;size:255;not null" json:"tier_name"`
	TierType             TierType            `gorm:"column:tier_type;size:32;not null" json:"tier_type"`
	Priority             int                 `gorm:"column:priority;not null" json:"priority"`
	ReturnRate           decimal.NullDecimal `gorm:"column:return_rate;type:decimal(9,4)" json:"return_rate"`
	CatchUpPercentage    decimal.NullDecimal `gorm:"column:catch_up_percentage;type:decimal(9,4)" json:"catch_up_percentage"`
	PromotePercentage    decimal.NullDecimal `gorm:"column:promote_percentage;type:decimal(9,4)" json:"promote_percentage"`
	IsActive             bool                `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt            time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Tier) TableName() string { return "waterfall_tiers" }

// SortTiers orders tiers by priority, then tier number, then creation (id).
func SortTiers(tiers []Tier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		a, b := tiers[i], tiers[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.TierNumber != b.TierNumber {
			return a.TierNumber < b.TierNumber
		}
		return a.ID < b.ID
	})
}

// Distribution is one executed distribution event.
type Distribution struct {
	ID                   uint64           `gorm:"primaryKey;column:id" json:"-"`
	DistributionID       string           `gorm:"column:distribution_id;size:32;not null;uniqueIndex:ux_waterfall_distributions_distribution_id" json:"distribution_id"`
	WaterfallStructureID uint64           `gorm:"column:waterfall_structure_id;not null;index" json:"-"`
	PropertyID           uint64           `gorm:"column:property_id;not null;index" json:"-"`
	DistributionType     DistributionType `gorm:"column:distribution_type;size:32;not null" json:"distribution_type"`
	DistributionDate     time.Time        `gorm:"column:distribution_date;not null" json:"distribution_date"`
	Description          *string          `gorm:"column:description;type:text" json:"description"`

	// RequestedAmount is what the caller asked to distribute (gross sale
	// proceeds, operating cash); refinances derive the amount instead.
	RequestedAmount decimal.Decimal `gorm:"column:requested_amount;type:decimal(18,2);not null" json:"requested_amount"`
	// DistributableAmount may be negative for a cash-in refinance.
	DistributableAmount decimal.Decimal `gorm:"column:distributable_amount;type:decimal(18,2);not null" json:"distributable_amount"`
	// TotalAmount is what the tier lines add up to.
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`

	NewDebtAmount     decimal.NullDecimal `gorm:"column:new_debt_amount;type:decimal(18,2)" json:"new_debt_amount"`
	OriginationFees   decimal.NullDecimal `gorm:"column:origination_fees;type:decimal(18,2)" json:"origination_fees"`
	PrepaymentPenalty decimal.NullDecimal `gorm:"column:prepayment_penalty;type:decimal(18,2)" json:"prepayment_penalty"`
	ClosingFees       []ClosingFee        `gorm:"foreignKey:WaterfallDistributionID;references:ID" json:"closing_fees"`

	OldDebtAmount  decimal.NullDecimal `gorm:"column:old_debt_amount;type:decimal(18,2)" json:"old_debt_amount"`
	OldDebtDetails *string             `gorm:"column:old_debt_details;type:text" json:"old_debt_details"`

	CreatedBy string    `gorm:"column:created_by;size:64" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Distribution) TableName() string { return "waterfall_distributions" }

type ClosingFee struct {
	ID                      uint64          `gorm:"primaryKey;column:id" json:"-"`
	WaterfallDistributionID uint64          `gorm:"column:waterfall_distribution_id;not null;index" json:"-"`
	Category                string          `gorm:"column:category;size:128;not null" json:"category"`
	Amount                  decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	CreatedAt               time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (ClosingFee) TableName() string { return "refinance_closing_fees" }

// TierDistribution is one line item: what one tier paid one recipient.
type TierDistribution struct {
	ID                      uint64          `gorm:"primaryKey;column:id" json:"-"`
	WaterfallDistributionID uint64          `gorm:"column:waterfall_distribution_id;not null;index" json:"-"`
	WaterfallTierID         uint64          `gorm:"column:waterfall_tier_id;not null;index" json:"-"`
	PropertyID              uint64          `gorm:"column:property_id;not null;index:idx_tier_distributions_property_recipient" json:"-"`
	TierType                TierType        `gorm:"column:tier_type;size:32;not null" json:"tier_type"`
	TierName                string          `gorm:"column:tier_name;size:255;not null" json:"tier_name"`
	RecipientKind           RecipientKind   `gorm:"column:recipient_kind;size:16;not null;index:idx_tier_distributions_property_recipient" json:"recipient_kind"`
	RecipientID             string          `gorm:"column:recipient_id;size:32;not null;index:idx_tier_distributions_property_recipient" json:"recipient_id"`
	Amount                  decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	DistributionDate        time.Time       `gorm:"column:distribution_date;not null" json:"distribution_date"`
	CreatedAt               time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (TierDistribution) TableName() string { return "waterfall_tier_distributions" }

func (td TierDistribution) Recipient() Recipient {
	return Recipient{Kind: td.RecipientKind, ID: td.RecipientID}
}

// PayoutTotal is the cumulative amount a recipient received from one tier type.
type PayoutTotal struct {
	RecipientKind RecipientKind
	RecipientID   string
	TierType      TierType
	Amount        decimal.Decimal
}
