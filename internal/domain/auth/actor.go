package auth

import (
	"context"
	"errors"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleInvestor Role = "INVESTOR"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
)

// ParseRole normalizes a role claim; unknown roles yield "".
func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleInvestor:
		return r
	}
	return ""
}

// Actor is the authenticated caller on whose behalf a use case runs.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) CanMutate() bool { return a.Role == RoleAdmin || a.Role == RoleManager }

func (a Actor) CanRead() bool { return a.CanMutate() || a.Role == RoleInvestor }

// Allowed reports whether the actor holds one of roles.
func (a Actor) Allowed(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
