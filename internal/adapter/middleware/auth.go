package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"campus-rentals-backend/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims carried by the bearer token. The subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for userID and role.
func SignToken(secret []byte, userID string, role auth.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, raw string) (auth.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return auth.Actor{}, fmt.Errorf("%w: %v", auth.ErrUnauthenticated, err)
	}
	role := auth.ParseRole(claims.Role)
	if claims.Subject == "" || role == "" {
		return auth.Actor{}, fmt.Errorf("%w: token lacks subject or role", auth.ErrUnauthenticated)
	}
	return auth.Actor{UserID: claims.Subject, Role: role}, nil
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// Authenticate resolves the bearer token into an auth.Actor on the request
// context. It does not check roles.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject(c, http.StatusUnauthorized, "UNAUTHENTICATED", "missing bearer token")
			}
			actor, err := parseToken(secret, raw)
			if err != nil {
				return reject(c, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token")
			}
			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithActor(req.Context(), actor)))
			return next(c)
		}
	}
}

// RequireRoles lets the request through only for actors holding one of roles.
func RequireRoles(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := auth.FromContext(c.Request().Context())
			if !ok {
				return reject(c, http.StatusUnauthorized, "UNAUTHENTICATED", auth.ErrUnauthenticated.Error())
			}
			if !actor.Allowed(roles...) {
				return reject(c, http.StatusForbidden, "FORBIDDEN", auth.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
