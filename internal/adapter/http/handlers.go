package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// Check probes one backing service for /health.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

// Health reports "ok" when every check passes and "degraded" with 503
// otherwise. Each check gets two seconds.
func (h *Handler) Health(c echo.Context) error {
	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(names))
	for _, n := range names {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		err := h.checks[n](ctx)
		cancel()
		if err != nil {
			log.WithError(err).WithField("check", n).Warn("health check failed")
			results[n] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[n] = "ok"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(results) > 0 {
		body["checks"] = results
	}
	return c.JSON(code, body)
}
