package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/credgate/credgate/ratelimit"
)

func newThrottledHandler() http.Handler {
	policy := ratelimit.Policy{
		"/auth/login": {Limit: 3, Window: time.Minute},
	}
	limiter := ratelimit.NewLimiter(policy, ratelimit.NewMemoryBackend(), nil)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Throttle(limiter)(ok)
}

func doRequest(t *testing.T, handler http.Handler, path string, headers map[string]string) int {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, path, nil)
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w.Code
}

func TestThrottleEnforcesBudget(t *testing.T) {
	handler := newThrottledHandler()
	headers := map[string]string{"X-Forwarded-For": "1.2.3.4"}

	for i := 0; i < 3; i++ {
		if code := doRequest(t, handler, "/auth/login", headers); code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, code)
		}
	}
	if code := doRequest(t, handler, "/auth/login", headers); code != http.StatusTooManyRequests {
		t.Fatalf("request 4: status %d, want 429", code)
	}

	// Another client has its own budget.
	other := map[string]string{"X-Forwarded-For": "5.6.7.8"}
	if code := doRequest(t, handler, "/auth/login", other); code != http.StatusOK {
		t.Fatalf("other client: status %d, want 200", code)
	}

	// Unthrottled paths never hit the limiter.
	if code := doRequest(t, handler, "/healthz", headers); code != http.StatusOK {
		t.Fatalf("unthrottled path: status %d, want 200", code)
	}
}

func TestThrottleHeaderPrecedence(t *testing.T) {
	handler := newThrottledHandler()

	// A user header and a forwarded header from the same machine must land
	// in the user bucket, not the IP bucket.
	both := map[string]string{"X-User-ID": "u-1", "X-Forwarded-For": "1.2.3.4"}
	for i := 0; i < 3; i++ {
		doRequest(t, handler, "/auth/login", both)
	}
	if code := doRequest(t, handler, "/auth/login", both); code != http.StatusTooManyRequests {
		t.Fatalf("user bucket: status %d, want 429", code)
	}

	// The IP-only identity is a different bucket and still has budget.
	ipOnly := map[string]string{"X-Forwarded-For": "1.2.3.4"}
	if code := doRequest(t, handler, "/auth/login", ipOnly); code != http.StatusOK {
		t.Fatalf("ip bucket: status %d, want 200", code)
	}
}

func TestThrottleAnonymousSharedBucket(t *testing.T) {
	handler := newThrottledHandler()

	// No identifying headers at all: everyone shares one bucket.
	for i := 0; i < 3; i++ {
		doRequest(t, handler, "/auth/login", nil)
	}
	if code := doRequest(t, handler, "/auth/login", nil); code != http.StatusTooManyRequests {
		t.Fatalf("anonymous bucket: status %d, want 429", code)
	}
}

func TestClientIdentifierFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ClientIdentifier(r); got != "unknown" {
		t.Fatalf("bare request identity = %q, want unknown", got)
	}

	r.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	if got := ClientIdentifier(r); got != "ip:1.2.3.4" {
		t.Fatalf("forwarded identity = %q, want ip:1.2.3.4", got)
	}

	r.Header.Set("X-User-ID", "u-9")
	if got := ClientIdentifier(r); got != "user:u-9" {
		t.Fatalf("user identity = %q, want user:u-9", got)
	}
}
