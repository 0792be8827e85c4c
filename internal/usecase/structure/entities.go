package structure

import (
	"time"

	wf "campus-rentals-backend/internal/domain/waterfall"

	"github.com/shopspring/decimal"
)

type TierInput struct {
	TierNumber        int
	TierName          string
	TierType          wf.TierType
	Priority          int
	ReturnRate        decimal.NullDecimal
	CatchUpPercentage decimal.NullDecimal
	PromotePercentage decimal.NullDecimal
	// nil creates an active tier
	IsActive *bool
}

type CreateStructureInput struct {
	// empty creates a global template
	PropertyID  string
	Name        string
	Description *string
	Tiers       []TierInput
}

// UpdateStructureInput is a patch. A non-nil Tiers replaces every tier.
type UpdateStructureInput struct {
	Name        *string
	Description *string
	IsActive    *bool
	Tiers       []TierInput
}

type ApplyInput struct {
	PropertyID string
	// defaults to the template's name
	Name *string
}

type TierDTO struct {
	ID                uint64              `json:"id"`
	TierNumber        int                 `json:"tier_number"`
	TierName          string              `json:"tier_name"`
	TierType          wf.TierType         `json:"tier_type"`
	Priority          int                 `json:"priority"`
	ReturnRate        decimal.NullDecimal `json:"return_rate"`
	CatchUpPercentage decimal.NullDecimal `json:"catch_up_percentage"`
	PromotePercentage decimal.NullDecimal `json:"promote_percentage"`
	IsActive          bool                `json:"is_active"`
}

type StructureDTO struct {
	StructureID string    `json:"structure_id"`
	PropertyID  *string   `json:"property_id"`
	Global      bool      `json:"is_global"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	Tiers       []TierDTO `json:"tiers"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDTO(s *wf.Structure, propertyID *string) StructureDTO {
	tiers := append([]wf.Tier(nil), s.Tiers...)
	wf.SortTiers(tiers)
	out := StructureDTO{
		StructureID: s.StructureID,
		PropertyID:  propertyID,
		Global:      s.Global(),
		Name:        s.Name,
		Description: s.Description,
		IsActive:    s.IsActive,
		Tiers:       make([]TierDTO, 0, len(tiers)),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, t := range tiers {
		out.Tiers = append(out.Tiers, TierDTO{
			ID:                t.ID,
			TierNumber:        t.TierNumber,
			TierName:          t.TierName,
			TierType:          t.TierType,
			Priority:          t.Priority,
			ReturnRate:        t.ReturnRate,
			CatchUpPercentage: t.CatchUpPercentage,
			PromotePercentage: t.PromotePercentage,
			IsActive:          t.IsActive,
		})
	}
	return out
}
