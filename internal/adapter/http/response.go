package http

import (
	"net/http"

	"campus-rentals-backend/internal/domain/auth"

	"github.com/labstack/echo/v4"
)

type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

const (
	codeInvalidBody      = "INVALID_BODY"
	codeValidationFailed = "VALIDATION_FAILED"
)

func respond(c echo.Context, status int, data any, msg string) error {
	return c.JSON(status, SuccessResponse{Success: true, Data: data, Message: msg})
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func invalidBody(c echo.Context) error {
	return fail(c, http.StatusBadRequest, codeInvalidBody, "invalid body")
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Code:    codeValidationFailed,
		Details: ToFieldErrors(err),
	})
}

// bindAndValidate binds the JSON body into req and runs the validator. The
// returned bool is false when a response has already been written.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, invalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

func actorOf(c echo.Context) (auth.Actor, error) {
	a, ok := auth.FromContext(c.Request().Context())
	if !ok || a.UserID == "" {
		return auth.Actor{}, auth.ErrUnauthenticated
	}
	return a, nil
}

// hexParam reads a path parameter holding a public id.
func hexParam(c echo.Context, name string) (string, bool) {
	v := c.Param(name)
	return v, reHex32.MatchString(v)
}

func badParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid path param",
		Code:    codeValidationFailed,
		Details: []FieldError{{Field: name, Message: "must be 32-char lowercase hex"}},
	})
}
