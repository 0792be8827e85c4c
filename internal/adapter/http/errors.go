package http

import (
	"errors"
	"net/http"

	"campus-rentals-backend/internal/domain/auth"
	"campus-rentals-backend/internal/domain/loan"
	"campus-rentals-backend/internal/domain/property"
	wf "campus-rentals-backend/internal/domain/waterfall"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

type errorKind struct {
	err    error
	status int
	code   string
}

// Ordered: the first match wins.
var errorKinds = []errorKind{
	{property.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{loan.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{wf.ErrStructureNotFound, http.StatusNotFound, "NOT_FOUND"},
	{wf.ErrDistributionNotFound, http.StatusNotFound, "NOT_FOUND"},

	{wf.ErrInvalidTierConfiguration, http.StatusBadRequest, "INVALID_TIER_CONFIGURATION"},
	{loan.ErrInvalidFeeTotal, http.StatusBadRequest, "INVALID_FEE_TOTAL"},
	{wf.ErrSaleShortfall, http.StatusBadRequest, "SALE_SHORTFALL"},
	{wf.ErrNoRecipients, http.StatusUnprocessableEntity, "NO_RECIPIENTS"},
	{wf.ErrAllocationMismatch, http.StatusInternalServerError, "ALLOCATION_MISMATCH"},
	{loan.ErrMissingDebtFigures, http.StatusServiceUnavailable, "MISSING_DEBT_FIGURES"},

	{wf.ErrStructureHasDistributions, http.StatusConflict, "STRUCTURE_HAS_DISTRIBUTIONS"},
	{wf.ErrDistributionSuperseded, http.StatusConflict, "DISTRIBUTION_SUPERSEDED"},

	{loan.ErrInvalidLoan, http.StatusUnprocessableEntity, codeValidationFailed},
	{loan.ErrInvalidDebtAmount, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrInvalidStructure, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrInvalidDistribution, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrInvalidDistributionType, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrNegativeAmount, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrPropertyRequired, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrNotGlobalStructure, http.StatusUnprocessableEntity, codeValidationFailed},
	{wf.ErrStructureInactive, http.StatusUnprocessableEntity, codeValidationFailed},

	{auth.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
}

func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// Map domain errors → HTTP codes
func respondError(c echo.Context, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
			"code":   code,
		}).WithError(err).Error("request failed")
		if code == "INTERNAL" {
			msg = "internal error"
		}
	}
	return fail(c, status, code, msg)
}
