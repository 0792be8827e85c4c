package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campus-rentals-backend/internal/domain/auth"
	domain "campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	"campus-rentals-backend/internal/domain/uow"
	"campus-rentals-backend/internal/testutil/loanmock"
	"campus-rentals-backend/internal/testutil/propertymock"
	"campus-rentals-backend/internal/testutil/uowmock"
	uc "campus-rentals-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// -------- helpers --------

var (
	propHex = strings.Repeat("a", 32)
	loanHex = strings.Repeat("c", 32)
	manager = auth.Actor{UserID: "u-1", Role: auth.RoleManager}
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// newCtx builds an echo context for method/path, optionally authenticated as
// actor, with the given path params as name/value pairs.
func newCtx(e *echo.Echo, method, path string, body *bytes.Reader, actor *auth.Actor, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if actor != nil {
		req = req.WithContext(auth.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	if er.Success {
		t.Fatalf("error body must carry success=false: %s", rec.Body.String())
	}
	return er
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("success = false: %s", rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("bad data: %v; raw=%s", err, string(env.Data))
		}
	}
	return env
}

// loanFixture wires a loan usecase over one property and an in-memory loan list.
func loanFixture() (*uc.Usecase, *[]domain.Loan) {
	p := &property.Property{ID: 7, PropertyID: propHex}
	rows := &[]domain.Loan{}
	loans := &loanmock.Repo{
		CreateFn: func(_ context.Context, l *domain.Loan) error {
			*rows = append(*rows, *l)
			return nil
		},
		ListByPropertyFn:       func(context.Context, uint64) ([]domain.Loan, error) { return *rows, nil },
		ListActiveByPropertyFn: func(context.Context, uint64) ([]domain.Loan, error) { return *rows, nil },
		GetByLoanIDFn: func(context.Context, uint64, string) (*domain.Loan, error) {
			return nil, domain.ErrNotFound
		},
	}
	props := &propertymock.Repo{
		GetByPropertyIDFn: func(_ context.Context, id string) (*property.Property, error) {
			if id != propHex {
				return nil, property.ErrNotFound
			}
			return p, nil
		},
	}
	repos := uow.Repos{Properties: props, Loans: loans}
	return uc.NewUsecase(repos, uowmock.Passthrough(repos, p)), rows
}

// -------- tests --------

func TestCreateLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	usecase, rows := loanFixture()
	h := NewLoanHandler(usecase)

	body := map[string]any{
		"lender_name":     "  First Bank ",
		"original_amount": "1000000",
		"current_balance": "950000.50",
		"interest_rate":   "6.25",
		"loan_date":       "2024-01-15",
	}
	c, rec := newCtx(e, stdhttp.MethodPost, "/properties/"+propHex+"/loans", mustJSON(body), &manager, "property_id", propHex)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	var got uc.MutationDTO
	env := decodeData(t, rec, &got)
	if env.Message != "loan created" {
		t.Fatalf("message = %q", env.Message)
	}
	if got.Loan == nil || got.Loan.LenderName != "First Bank" || got.Loan.CreatedBy != "u-1" {
		t.Fatalf("unexpected loan: %+v", got.Loan)
	}
	if got.Loan.LoanDate == nil || got.Loan.LoanDate.Format(dateLayout) != "2024-01-15" {
		t.Fatalf("loan_date = %v", got.Loan.LoanDate)
	}
	if !got.Debt.DebtAmount.Equal(decimal.RequireFromString("950000.50")) {
		t.Fatalf("debt = %s", got.Debt.DebtAmount)
	}
	if len(*rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(*rows))
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanFixture()
	h := NewLoanHandler(usecase)

	req := httptest.NewRequest(stdhttp.MethodPost, "/properties/"+propHex+"/loans", strings.NewReader(`{"lender_name":`)) // broken JSON
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(auth.WithActor(req.Context(), manager))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("property_id")
	c.SetParamValues(propHex)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if er := decodeError(t, rec); er.Error != "invalid body" || er.Code != codeInvalidBody {
		t.Fatalf("unexpected error body: %+v", er)
	}
}

func TestCreateLoan_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	usecase, rows := loanFixture()
	h := NewLoanHandler(usecase)

	body := map[string]any{
		"original_amount": "-5",
		"current_balance": "10.123",
		"loan_date":       "15/01/2024",
	}
	c, rec := newCtx(e, stdhttp.MethodPost, "/properties/"+propHex+"/loans", mustJSON(body), &manager, "property_id", propHex)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	er := decodeError(t, rec)
	if er.Code != codeValidationFailed {
		t.Fatalf("code = %q", er.Code)
	}
	if !containsFieldMsg(er.Details, "lender_name", "is required") {
		t.Fatalf("missing lender_name detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "original_amount", "greater than or equal to 0") {
		t.Fatalf("missing original_amount detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "current_balance", "at most 2 decimal places") {
		t.Fatalf("missing current_balance detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "loan_date", "2006-01-02") {
		t.Fatalf("missing loan_date detail: %+v", er.Details)
	}
	if len(*rows) != 0 {
		t.Fatalf("nothing should be written")
	}
}

func TestCreateLoan_BlankLenderName(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanFixture()
	h := NewLoanHandler(usecase)

	body := map[string]any{"lender_name": "   ", "original_amount": "100", "current_balance": "80"}
	c, rec := newCtx(e, stdhttp.MethodPost, "/", mustJSON(body), &manager, "property_id", propHex)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateLoan_Unauthenticated(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanFixture()
	h := NewLoanHandler(usecase)

	body := map[string]any{"lender_name": "Bank", "original_amount": "1", "current_balance": "1"}
	c, rec := newCtx(e, stdhttp.MethodPost, "/", mustJSON(body), nil, "property_id", propHex)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != "UNAUTHENTICATED" {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestCreateLoan_UnknownProperty(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanFixture()
	h := NewLoanHandler(usecase)

	other := strings.Repeat("b", 32)
	body := map[string]any{"lender_name": "Bank", "original_amount": "1", "current_balance": "1"}
	c, rec := newCtx(e, stdhttp.MethodPost, "/", mustJSON(body), &manager, "property_id", other)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != "NOT_FOUND" {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestListLoans(t *testing.T) {
	e := newEchoWithValidator()
	usecase, rows := loanFixture()
	*rows = append(*rows,
		domain.Loan{LoanID: "l1", LenderName: "A", OriginalAmount: decimal.NewFromInt(500), CurrentBalance: decimal.NewFromInt(400), IsActive: true},
		domain.Loan{LoanID: "l2", LenderName: "B", OriginalAmount: decimal.NewFromInt(300), CurrentBalance: decimal.NewFromInt(300), IsActive: false},
	)
	h := NewLoanHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodGet, "/", nil, &manager, "property_id", propHex)
	if err := h.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got uc.LoanListDTO
	decodeData(t, rec, &got)
	if got.LoanCount != 2 || !got.TotalCurrentDebt.Equal(decimal.NewFromInt(400)) || !got.TotalOriginalAmount.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestListLoans_BadPropertyParam(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanFixture()
	h := NewLoanHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodGet, "/", nil, &manager, "property_id", "xxx")
	if err := h.List(c); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if er := decodeError(t, rec); !containsFieldMsg(er.Details, "property_id", "32-char lowercase hex") {
		t.Fatalf("unexpected details: %+v", er.Details)
	}
}

func TestDebt_StoreFailureIsInternal(t *testing.T) {
	e := newEchoWithValidator()
	// unset reads fail with context.Canceled
	repos := uow.Repos{Properties: &propertymock.Repo{}, Loans: &loanmock.Repo{}}
	h := NewLoanHandler(uc.NewUsecase(repos, uowmock.New()))

	c, rec := newCtx(e, stdhttp.MethodGet, "/", nil, &manager, "property_id", propHex)
	if err := h.Debt(c); err != nil {
		t.Fatalf("Debt error: %v", err)
	}
	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != "INTERNAL" || er.Error != "internal error" {
		t.Fatalf("unexpected error body: %+v", er)
	}
}

func TestDeleteLoan_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	usecase, _ := loanFixture()
	h := NewLoanHandler(usecase)

	c, rec := newCtx(e, stdhttp.MethodDelete, "/", nil, &manager, "property_id", propHex, "loan_id", loanHex)
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
