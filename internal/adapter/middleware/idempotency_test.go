package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-rentals-backend/internal/domain/auth"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testKey = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// withActor stands in for Authenticate in idempotency tests.
func withActor(userID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(auth.WithActor(req.Context(), auth.Actor{UserID: userID, Role: auth.RoleManager})))
			}
			return next(c)
		}
	}
}

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, userID string, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(withActor(userID), Idempotency(rdb, ttl))
	e.POST("/loans", handler)
	e.GET("/loans", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// counting handler to exercise respRecorder capture & saveFinal
func countingHandler(n *int, status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		*n++
		return c.JSON(status, map[string]any{"success": status < 400, "call": *n})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, 30*time.Second, "", countingHandler(&calls, http.StatusOK))

	rec := doReq(t, e, http.MethodGet, "/loans", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, 30*time.Second, "u-1", countingHandler(&calls, http.StatusCreated))

	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing key => want 400, got %d", rec.Code)
	}

	rec = doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), map[string]string{HeaderIdempotencyKey: "NOT-VALID"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid key => want 400, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run, ran %d times", calls)
	}
}

func Test_RequiresActor(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, 30*time.Second, "", countingHandler(&calls, http.StatusCreated))

	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no actor => want 401, got %d", rec.Code)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, "u-1", countingHandler(&calls, http.StatusCreated))

	h := map[string]string{HeaderIdempotencyKey: testKey}

	rec1 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]any{"amount": "5000"}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	// Same key & body -> stored response, handler not called again
	rec2 := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]any{"amount": "5000"}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}
	if calls != 1 {
		t.Fatalf("handler calls = %d, want 1", calls)
	}
}

func Test_KeysAreScopedPerActor(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	handler := countingHandler(&calls, http.StatusCreated)
	h := map[string]string{HeaderIdempotencyKey: testKey}

	doReq(t, setupEcho(rdb, time.Minute, "u-1", handler), http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
	rec := doReq(t, setupEcho(rdb, time.Minute, "u-2", handler), http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
	if rec.Code != http.StatusCreated || calls != 2 {
		t.Fatalf("second actor must reach the handler: status=%d calls=%d", rec.Code, calls)
	}
}

func Test_ServerErrorsAreNotStored(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, time.Minute, "u-1", countingHandler(&calls, http.StatusServiceUnavailable))
	h := map[string]string{HeaderIdempotencyKey: testKey}

	doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
	rec := doReq(t, e, http.MethodPost, "/loans", mkJSONBody(t, map[string]int{"x": 1}), h)
	if rec.Code != http.StatusServiceUnavailable || calls != 2 {
		t.Fatalf("retry after 5xx must run again: status=%d calls=%d", rec.Code, calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, "u-1", countingHandler(&calls, http.StatusCreated))

	body := []byte(`{"x":1}`)

	// Seed provisional "in-progress" entry (so SetNX will fail and loadEntry sees InProgress=true)
	key := buildKey(http.MethodPost, "/loans", "u-1", testKey)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(body), Key: testKey, CreatedAt: nowUTC()}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader(body), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	calls := 0
	e := setupEcho(rdb, 2*time.Minute, "u-1", countingHandler(&calls, http.StatusCreated))

	key := buildKey(http.MethodPost, "/loans", "u-1", testKey)
	final := idempEntry{
		Code:       http.StatusCreated,
		Body:       []byte(`{"success":true}`),
		BodySHA256: bodyHash([]byte(`{"x":1}`)),
		Key:        testKey,
		CreatedAt:  nowUTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader([]byte(`{"x":2}`)), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address → SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	calls := 0
	e := setupEcho(rdb, time.Minute, "u-1", countingHandler(&calls, http.StatusCreated))

	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader([]byte(`{}`)), map[string]string{HeaderIdempotencyKey: testKey})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run")
	}
}
