package http

import (
	"net/http"
	"strings"
	"time"

	"campus-rentals-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	LenderName     string              `json:"lender_name"     validate:"required,max=255"`
	AccountNumber  *string             `json:"account_number"  validate:"omitempty,max=100"`
	OriginalAmount *decimal.Decimal    `json:"original_amount" validate:"required,gte=0,dec2"`
	CurrentBalance *decimal.Decimal    `json:"current_balance" validate:"required,gte=0,dec2"`
	InterestRate   decimal.NullDecimal `json:"interest_rate"   validate:"omitempty,gte=0,lte=100"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	LoanDate       *string             `json:"loan_date"       validate:"omitempty,datetime=2006-01-02"`
	MaturityDate   *string             `json:"maturity_date"   validate:"omitempty,datetime=2006-01-02"`
	MonthlyPayment decimal.NullDecimal `json:"monthly_payment" validate:"omitempty,gte=0,dec2"`
	LoanType       *string             `json:"loan_type"       validate:"omitempty,max=50"`
	Notes          *string             `json:"notes"`
	IsActive       *bool               `json:"is_active"`
}

type updateLoanReq struct {
	LenderName     *string          `json:"lender_name"     validate:"omitempty,max=255"`
	AccountNumber  *string          `json:"account_number"  validate:"omitempty,max=100"`
	OriginalAmount *decimal.Decimal `json:"original_amount" validate:"omitempty,gte=0,dec2"`
	CurrentBalance *decimal.Decimal `json:"current_balance" validate:"omitempty,gte=0,dec2"`
	InterestRate   *decimal.Decimal `json:"interest_rate"   validate:"omitempty,gte=0,lte=100"`
	LoanDate       *string          `json:"loan_date"       validate:"omitempty,datetime=2006-01-02"`
	MaturityDate   *string          `json:"maturity_date"   validate:"omitempty,datetime=2006-01-02"`
	MonthlyPayment *decimal.Decimal `json:"monthly_payment" validate:"omitempty,gte=0,dec2"`
	LoanType       *string          `json:"loan_type"       validate:"omitempty,max=50"`
	Notes          *string          `json:"notes"`
	IsActive       *bool            `json:"is_active"`
}

// parseDate reads a validated YYYY-MM-DD value.
func parseDate(s *string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
}

func (h *LoanHandler) List(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	dto, err := h.uc.List(c.Request().Context(), propertyID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "")
}

func (h *LoanHandler) Debt(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	dto, err := h.uc.Debt(c.Request().Context(), propertyID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "")
}

func (h *LoanHandler) Create(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := loan.CreateLoanInput{
		LenderName:     req.LenderName,
		AccountNumber:  req.AccountNumber,
		OriginalAmount: *req.OriginalAmount,
		CurrentBalance: *req.CurrentBalance,
		InterestRate:   req.InterestRate,
		LoanDate:       parseDate(req.LoanDate),
		MaturityDate:   parseDate(req.MaturityDate),
		MonthlyPayment: req.MonthlyPayment,
		LoanType:       req.LoanType,
		Notes:          req.Notes,
		IsActive:       req.IsActive,
	}
	dto, err := h.uc.Create(c.Request().Context(), propertyID, in, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, dto, "loan created")
}

func (h *LoanHandler) Update(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	loanID, ok := hexParam(c, "loan_id")
	if !ok {
		return badParam(c, "loan_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := loan.UpdateLoanInput{
		LenderName:     req.LenderName,
		AccountNumber:  req.AccountNumber,
		OriginalAmount: req.OriginalAmount,
		CurrentBalance: req.CurrentBalance,
		InterestRate:   req.InterestRate,
		LoanDate:       parseDate(req.LoanDate),
		MaturityDate:   parseDate(req.MaturityDate),
		MonthlyPayment: req.MonthlyPayment,
		LoanType:       req.LoanType,
		Notes:          req.Notes,
		IsActive:       req.IsActive,
	}
	dto, err := h.uc.Update(c.Request().Context(), propertyID, loanID, in, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "loan updated")
}

func (h *LoanHandler) Delete(c echo.Context) error {
	propertyID, ok := hexParam(c, "property_id")
	if !ok {
		return badParam(c, "property_id")
	}
	loanID, ok := hexParam(c, "loan_id")
	if !ok {
		return badParam(c, "loan_id")
	}
	actor, err := actorOf(c)
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.uc.Delete(c.Request().Context(), propertyID, loanID, actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, dto, "loan deleted")
}
