package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/credgate/credgate/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGinGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()

	engine := newGuardEngine(t)
	router := gin.New()
	router.GET("/users/me", GinGuard(engine), func(c *gin.Context) {
		userID := c.GetString(GinUserIDKey)
		if userID == "" {
			t.Error("guarded handler reached without user id in gin context")
		}
		c.String(http.StatusOK, userID)
	})
	return router
}

func TestGinGuardAcceptsValidBearer(t *testing.T) {
	router := newGinGuardedRouter(t)
	access := signAccess(t, "u-1")

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "u-1" {
		t.Fatalf("body %q, want user id u-1", got)
	}
}

func TestGinGuardRejections(t *testing.T) {
	router := newGinGuardedRouter(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwdw=="},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", w.Code)
			}
			if body := w.Body.String(); !strings.Contains(body, "unauthorized") {
				t.Fatalf("body %q, want unauthorized error", body)
			}
		})
	}
}

func newGinThrottledRouter() *gin.Engine {
	policy := ratelimit.Policy{
		"/auth/login": {Limit: 3, Window: time.Minute},
	}
	limiter := ratelimit.NewLimiter(policy, ratelimit.NewMemoryBackend(), nil)

	router := gin.New()
	router.Use(GinThrottle(limiter, nil))
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func doGinRequest(t *testing.T, router *gin.Engine, method, path string, headers map[string]string) int {
	t.Helper()

	r := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w.Code
}

func TestGinThrottleEnforcesBudget(t *testing.T) {
	router := newGinThrottledRouter()
	headers := map[string]string{"X-Forwarded-For": "1.2.3.4"}

	for i := 0; i < 3; i++ {
		if code := doGinRequest(t, router, http.MethodPost, "/auth/login", headers); code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, code)
		}
	}
	if code := doGinRequest(t, router, http.MethodPost, "/auth/login", headers); code != http.StatusTooManyRequests {
		t.Fatalf("request 4: status %d, want 429", code)
	}

	// Another client has its own budget.
	other := map[string]string{"X-Forwarded-For": "5.6.7.8"}
	if code := doGinRequest(t, router, http.MethodPost, "/auth/login", other); code != http.StatusOK {
		t.Fatalf("other client: status %d, want 200", code)
	}

	// Unthrottled paths never hit the limiter.
	if code := doGinRequest(t, router, http.MethodGet, "/healthz", headers); code != http.StatusOK {
		t.Fatalf("unthrottled path: status %d, want 200", code)
	}
}

func TestGinThrottleHeaderPrecedence(t *testing.T) {
	router := newGinThrottledRouter()

	// A user header and a forwarded header from the same machine must land
	// in the user bucket, not the IP bucket.
	both := map[string]string{"X-User-ID": "u-1", "X-Forwarded-For": "1.2.3.4"}
	for i := 0; i < 3; i++ {
		doGinRequest(t, router, http.MethodPost, "/auth/login", both)
	}
	if code := doGinRequest(t, router, http.MethodPost, "/auth/login", both); code != http.StatusTooManyRequests {
		t.Fatalf("user bucket: status %d, want 429", code)
	}

	// The IP-only identity is a different bucket and still has budget.
	ipOnly := map[string]string{"X-Forwarded-For": "1.2.3.4"}
	if code := doGinRequest(t, router, http.MethodPost, "/auth/login", ipOnly); code != http.StatusOK {
		t.Fatalf("ip bucket: status %d, want 200", code)
	}
}

func TestGinThrottleNilLimiterDenies(t *testing.T) {
	router := gin.New()
	router.Use(GinThrottle(nil, nil))
	router.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	if code := doGinRequest(t, router, http.MethodPost, "/auth/login", nil); code != http.StatusTooManyRequests {
		t.Fatalf("nil limiter: status %d, want 429", code)
	}
}
