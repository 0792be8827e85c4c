package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-rentals-backend/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var secret = []byte("test-secret")

func setupAuthEcho(roles ...auth.Role) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	g := e.Group("", Authenticate(secret))
	g.GET("/me", func(c echo.Context) error {
		a, _ := auth.FromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{"user": a.UserID, "role": string(a.Role)})
	}, RequireRoles(roles...))
	return e
}

func authReq(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func mustToken(t *testing.T, key []byte, userID string, role auth.Role, ttl time.Duration) string {
	t.Helper()
	tok, err := SignToken(key, userID, role, ttl)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	return tok
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := setupAuthEcho(auth.RoleAdmin, auth.RoleManager)
	rec := authReq(e, "Bearer "+mustToken(t, secret, "u-7", auth.RoleManager, time.Hour))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != "{\"role\":\"MANAGER\",\"user\":\"u-7\"}\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	e := setupAuthEcho(auth.RoleAdmin)

	other := mustToken(t, []byte("other-secret"), "u-7", auth.RoleAdmin, time.Hour)
	expired := mustToken(t, secret, "u-7", auth.RoleAdmin, -time.Minute)
	noRole := mustToken(t, secret, "u-7", auth.Role("GUEST"), time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "ADMIN", RegisteredClaims: jwt.RegisteredClaims{Subject: "u-7"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, h := range map[string]string{
		"missing header": "",
		"not bearer":     "Basic dXNlcjpwYXNz",
		"empty bearer":   "Bearer ",
		"garbage":        "Bearer abc.def.ghi",
		"wrong secret":   "Bearer " + other,
		"expired":        "Bearer " + expired,
		"unknown role":   "Bearer " + noRole,
		"alg none":       "Bearer " + none,
	} {
		if rec := authReq(e, h); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestRequireRoles_Forbidden(t *testing.T) {
	e := setupAuthEcho(auth.RoleAdmin, auth.RoleManager)
	rec := authReq(e, "bearer "+mustToken(t, secret, "u-9", auth.RoleInvestor, time.Hour))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoles_NoActor(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRoles(auth.RoleAdmin))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
