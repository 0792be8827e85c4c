package http

import (
	"net/http"

	wf "campus-rentals-backend/internal/domain/waterfall"
	"campus-rentals-backend/internal/usecase/distribution"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type DistributionHandler struct{ uc *distribution.Usecase }

func NewDistributionHandler(uc *distribution.Usecase) *DistributionHandler {
	return &DistributionHandler{uc: uc}
}

type closingFeeReq struct {
	Category string           `json:"category" validate:"required,max=100"`
	Amount   *decimal.Decimal `json:"amount"   validate:"required,dec2"`
}

type newLoanReq struct {
	LenderName   string              `json:"lender_name"   validate:"omitempty,max=255"`
	InterestRate decimal.NullDecimal `json:"interest_rate" validate:"omitempty,gte=0,lte=100"`
	MaturityDate *string             `json:"maturity_date" validate:"omitempty,datetime=2006-01-02"`
	LoanType     *string             `json:"loan_type"     validate:"omitempty,max=50"`
}

type createDistributionReq struct {
	StructureID      string           `json:"structure_id"           validate:"required,hex32"`
	PropertyID       string           `json:"property_id"            validate:"omitempty,hex32"`
	DistributionType string           `json:"distribution_type"      validate:"required"`
	Amount           *decimal.Decimal `json:"amount"                 validate:"required,gte=0,dec2"`
	DistributionDate *string          `json:"distribution_date"      validate:"omitempty,datetime=2006-01-02"`
	Description      *string          `json:"description"`

	NewDebtAmount     decimal.NullDecimal `json:"new_debt_amount"    validate:"omitempty,dec2"`
	OriginationFees   decimal.NullDecimal `json:"origination_fees"   validate:"omitempty,dec2"`
	PrepaymentPenalty decimal.NullDecimal `json:"prepayment_penalty" validate:"omitempty,dec2"`
	ClosingFees       []closingFeeReq     `json:"closing_fees"       validate:"omitempty,dive"`
	NewLoan           *newLoanReq         `json:"new_loan"`
}

func (r createDistributionReq) input() distribution.CreateDistributionInput {
	in := distribution.CreateDistributionInput{
		StructureID:       r.StructureID,
		PropertyID:        r.PropertyID,
		DistributionType:  wf.DistributionType(r.DistributionType),
		Amount:            *r.Amount,
		Description:       r.Description,
		NewDebtAmount:     r.NewDebtAmount,
		OriginationFees:   r.OriginationFees,
		PrepaymentPenalty: r.PrepaymentPenalty,
	}
	if d := parseDate(r.DistributionDate); d != nil {
		in.DistributionDate = *d
	}
	for _, f := range r.ClosingFees {
		in.ClosingFees = append(in.ClosingFees, distribution.ClosingFeeInput{Category: f.Category, Amount: *f.Amount})
	}
	if r.NewLoan != nil {
		in.NewLoan = &distribution.NewLoanTerms{
			LenderName:   r.NewLoan.LenderName,
			InterestRate: r.NewLoan.InterestRate,
			MaturityDate: parseDate(r.NewLoan.MaturityDate),
			LoanType:     r.NewLoan.LoanType,
		}
	}
	return in
}

func (h *DistributionHandler) List(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	out, err := h.uc.List(c.Request().Context(), propertyID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, out, "")
}

func (h *DistributionHandler) Create(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createDistributionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), req.input(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, dto, "waterfall distribution created")
}

// Preview runs the waterfall without persisting anything.
func (h *DistributionHandler) Preview(c echo.Context) error {
	var req createDistributionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Preview(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "")
}

func (h *DistributionHandler) Breakdown(c echo.Context) error {
	distributionID, ok := hexParam(c, "distribution_id")
	if !ok {
		return badParam(c, "distribution_id")
	}
	dto, err := h.uc.Breakdown(c.Request().Context(), distributionID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "")
}

func (h *DistributionHandler) Delete(c echo.Context) error {
	distributionID, ok := hexParam(c, "distribution_id")
	if !ok {
		return badParam(c, "distribution_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.uc.Delete(c.Request().Context(), distributionID, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "waterfall distribution deleted")
}
