package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIPGenericDirect(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/campaigns", nil)
	r.RemoteAddr = "203.0.113.9:51234"
	r.Header.Set("X-Forwarded-For", "10.0.0.1")

	got := clientIPGeneric(r, nil)
	if got != "203.0.113.9" {
		t.Fatalf("untrusted remote must not honor XFF, got %q", got)
	}
}

func TestClientIPGenericTrustedProxy(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/campaigns", nil)
	r.RemoteAddr = "10.1.2.3:443"
	r.Header.Set("X-Forwarded-For", "198.51.100.44, 10.1.2.3")

	got := clientIPGeneric(r, []string{"10.0.0.0/8"})
	if got != "198.51.100.44" {
		t.Fatalf("expected first XFF hop, got %q", got)
	}
}

func TestClientIPGenericTrustedExactIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/users/info", nil)
	r.RemoteAddr = "192.0.2.7:8080"
	r.Header.Set("X-Real-IP", "198.51.100.9")

	got := clientIPGeneric(r, []string{"192.0.2.7"})
	if got != "198.51.100.9" {
		t.Fatalf("expected X-Real-IP from trusted proxy, got %q", got)
	}
}

func TestPruneWindow(t *testing.T) {
	now := time.Now().UnixNano()
	window := int64(time.Minute)
	arr := timestamps{now - int64(2*time.Minute), now - int64(30*time.Second), now}

	filtered := pruneWindow(arr, now, window)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 entries inside window, got %d", len(filtered))
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	now := time.Now().UnixNano()
	window := int64(time.Minute)
	arr := timestamps{now - int64(50*time.Second), now}

	got := retryAfterSeconds(arr, now, window)
	if got < 1 || got > 10 {
		t.Fatalf("expected retry-after around 10s, got %d", got)
	}
}

func TestRouteCategory(t *testing.T) {
	cases := map[string]string{
		"/v1/campaigns/3/tasks/9/proof": "upload",
		"/v1/admin/campaigns":           "admin",
		"/v1/users/info":                "api",
	}
	for path, want := range cases {
		if got := routeCategory(path); got != want {
			t.Fatalf("routeCategory(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLockoutDuration(t *testing.T) {
	if d := lockoutDuration(lockoutThreshold); d != time.Minute {
		t.Fatalf("first lockout should be 1 minute, got %v", d)
	}
	if d := lockoutDuration(lockoutThreshold + 10); d != 30*time.Minute {
		t.Fatalf("capped lockout should be 30 minutes, got %v", d)
	}
}
