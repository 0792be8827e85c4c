package http

import (
	"time"

	mw "campus-rentals-backend/internal/adapter/middleware"
	"campus-rentals-backend/internal/domain/auth"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Routes bundles what Register needs to mount the API.
type Routes struct {
	Health        *Handler
	Loans         *LoanHandler
	Structures    *StructureHandler
	Distributions *DistributionHandler

	JWTSecret []byte
	Redis     *redis.Client
	IdempTTL  time.Duration
}

// Register mounts every route on e. Reads are open to all roles; writes need
// ADMIN or MANAGER and an Idempotency-Key. Preview writes nothing and skips
// the idempotency store.
func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)

	api := e.Group("", mw.Authenticate(r.JWTSecret))
	read := mw.RequireRoles(auth.RoleAdmin, auth.RoleManager, auth.RoleInvestor)
	mutate := mw.RequireRoles(auth.RoleAdmin, auth.RoleManager)
	idem := mw.Idempotency(r.Redis, r.IdempTTL)

	api.GET("/properties/:property_id/loans", r.Loans.List, read)
	api.GET("/properties/:property_id/debt", r.Loans.Debt, read)
	api.POST("/properties/:property_id/loans", r.Loans.Create, mutate, idem)
	api.PUT("/properties/:property_id/loans/:loan_id", r.Loans.Update, mutate, idem)
	api.DELETE("/properties/:property_id/loans/:loan_id", r.Loans.Delete, mutate, idem)

	api.GET("/properties/:property_id/waterfall-structures", r.Structures.ListByProperty, read)
	api.GET("/waterfall-structures/global", r.Structures.ListGlobal, read)
	api.POST("/waterfall-structures", r.Structures.Create, mutate, idem)
	api.POST("/waterfall-structures/:structure_id/apply", r.Structures.Apply, mutate, idem)
	api.PUT("/waterfall-structures/:structure_id", r.Structures.Update, mutate, idem)
	api.POST("/waterfall-structures/:structure_id/deactivate", r.Structures.Deactivate, mutate, idem)
	api.DELETE("/waterfall-structures/:structure_id", r.Structures.Delete, mutate, idem)

	api.GET("/properties/:property_id/waterfall-distributions", r.Distributions.List, read)
	api.POST("/waterfall-distributions", r.Distributions.Create, mutate, idem)
	api.POST("/waterfall-distributions/preview", r.Distributions.Preview, mutate)
	api.GET("/waterfall-distributions/:distribution_id/breakdown", r.Distributions.Breakdown, read)
	api.DELETE("/waterfall-distributions/:distribution_id", r.Distributions.Delete, mutate, idem)
}
