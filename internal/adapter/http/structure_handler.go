package http

import (
	"net/http"

	wf "campus-rentals-backend/internal/domain/waterfall"
	"campus-rentals-backend/internal/usecase/structure"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type StructureHandler struct{ uc *structure.Usecase }

func NewStructureHandler(uc *structure.Usecase) *StructureHandler {
	return &StructureHandler{uc: uc}
}

type tierReq struct {
	TierNumber        int                 `json:"tier_number"         validate:"gte=1"`
	TierName          string              `json:"tier_name"           validate:"required,max=255"`
	TierType          string              `json:"tier_type"           validate:"required"`
	Priority          int                 `json:"priority"            validate:"gte=0"`
	ReturnRate        decimal.NullDecimal `json:"return_rate"         validate:"omitempty,gte=0"`
	CatchUpPercentage decimal.NullDecimal `json:"catch_up_percentage" validate:"omitempty,gte=0,lte=100"`
	PromotePercentage decimal.NullDecimal `json:"promote_percentage"  validate:"omitempty,gte=0,lte=100"`
	IsActive          *bool               `json:"is_active"`
}

type createStructureReq struct {
	// empty creates a global template
	PropertyID  string    `json:"property_id" validate:"omitempty,hex32"`
	Name        string    `json:"name"        validate:"required,max=255"`
	Description *string   `json:"description"`
	Tiers       []tierReq `json:"tiers"       validate:"required,min=1,dive"`
}

type updateStructureReq struct {
	Name        *string   `json:"name"        validate:"omitempty,max=255"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"is_active"`
	Tiers       []tierReq `json:"tiers"       validate:"omitempty,min=1,dive"`
}

type applyStructureReq struct {
	PropertyID string  `json:"property_id" validate:"required,hex32"`
	Name       *string `json:"name"        validate:"omitempty,max=255"`
}

func tierInputs(in []tierReq) []structure.TierInput {
	if in == nil {
		return nil
	}
	out := make([]structure.TierInput, 0, len(in))
	for _, t := range in {
		out = append(out, structure.TierInput{
			TierNumber:        t.TierNumber,
			TierName:          t.TierName,
			TierType:          wf.TierType(t.TierType),
			Priority:          t.Priority,
			ReturnRate:        t.ReturnRate,
			CatchUpPercentage: t.CatchUpPercentage,
			PromotePercentage: t.PromotePercentage,
			IsActive:          t.IsActive,
		})
	}
	return out
}

func (h *StructureHandler) ListByProperty(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	out, err := h.uc.ListByProperty(c.Request().Context(), propertyID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, out, "")
}

func (h *StructureHandler) ListGlobal(c echo.Context) error {
	out, err := h.uc.ListGlobal(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, out, "")
}

func (h *StructureHandler) Create(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createStructureReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), structure.CreateStructureInput{
		PropertyID:  req.PropertyID,
		Name:        req.Name,
		Description: req.Description,
		Tiers:       tierInputs(req.Tiers),
	}, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, dto, "waterfall structure created")
}

func (h *StructureHandler) Update(c echo.Context) error {
	structureID, ok := hexParam(c, "structure_id")
	if !ok {
		return badParam(c, "structure_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateStructureReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), structureID, structure.UpdateStructureInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Tiers:       tierInputs(req.Tiers),
	}, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "waterfall structure updated")
}

func (h *StructureHandler) Apply(c echo.Context) error {
	structureID, ok := hexParam(c, "structure_id")
	if !ok {
		return badParam(c, "structure_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req applyStructureReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), structureID, structure.ApplyInput{
		PropertyID: req.PropertyID,
		Name:       req.Name,
	}, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, dto, "waterfall structure applied")
}

func (h *StructureHandler) Deactivate(c echo.Context) error {
	structureID, ok := hexParam(c, "structure_id")
	if !ok {
		return badParam(c, "structure_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.uc.Deactivate(c.Request().Context(), structureID, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "waterfall structure deactivated")
}

func (h *StructureHandler) Delete(c echo.Context) error {
	structureID, ok := hexParam(c, "structure_id")
	if !ok {
		return badParam(c, "structure_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), structureID, actor); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, nil, "waterfall structure deleted")
}
