package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func testSecConfig() SecConfig {
	return SecConfig{
		BackendKeys:  map[string]struct{}{"bk": {}},
		FrontendKeys: map[string]struct{}{"fk": {}},
		AdminKeys:    map[string]struct{}{"ak": {}},
	}
}

func gatewayFor(cfg SecConfig, inner http.HandlerFunc) http.Handler {
	if inner == nil {
		inner = func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	}
	return AuthenticateRequestMiddleware(cfg)(inner)
}

func TestGatewayRejectsMissingKey(t *testing.T) {
	h := gatewayFor(testSecConfig(), nil)
	req := httptest.NewRequest("GET", "/v1/threads", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGatewayRejectsUnknownKey(t *testing.T) {
	h := gatewayFor(testSecConfig(), nil)
	req := httptest.NewRequest("GET", "/v1/threads", nil)
	req.Header.Set("X-API-Key", "nope")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGatewayResolvesRoles(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"fk", "frontend"},
		{"bk", "backend"},
		{"ak", "admin"},
	}
	for _, tc := range cases {
		var seen string
		h := gatewayFor(testSecConfig(), func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get("X-Role-Name")
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest("GET", "/v1/threads", nil)
		req.Header.Set("Authorization", "Bearer "+tc.key)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("key %s: status %d", tc.key, rr.Code)
		}
		if seen != tc.want {
			t.Fatalf("key %s: role %s, want %s", tc.key, seen, tc.want)
		}
	}
}

func TestGatewayScopesFrontendKeys(t *testing.T) {
	h := gatewayFor(testSecConfig(), nil)

	req := httptest.NewRequest("GET", "/v1/admin/stats", nil)
	req.Header.Set("X-API-Key", "fk")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("frontend on admin route: expected 403, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/v1/threads/t1/events", nil)
	req.Header.Set("X-API-Key", "fk")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("frontend on chat route: expected 200, got %d", rr.Code)
	}
}

func TestGatewayAllowsHealthProbesWithoutKey(t *testing.T) {
	h := gatewayFor(testSecConfig(), nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestGatewayCORSPreflight(t *testing.T) {
	cfg := testSecConfig()
	cfg.AllowedOrigins = []string{"https://clinic.example"}
	h := gatewayFor(cfg, nil)

	req := httptest.NewRequest("OPTIONS", "/v1/threads", nil)
	req.Header.Set("Origin", "https://clinic.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "https://clinic.example" {
		t.Fatalf("missing CORS allow-origin header")
	}

	// disallowed origin gets no CORS headers
	req = httptest.NewRequest("OPTIONS", "/v1/threads", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("CORS header leaked to disallowed origin")
	}
}

func TestGatewayIPWhitelist(t *testing.T) {
	cfg := testSecConfig()
	cfg.IPWhitelist = []string{"10.1.2.3"}
	h := gatewayFor(cfg, nil)

	req := httptest.NewRequest("GET", "/v1/threads", nil)
	req.RemoteAddr = "192.0.2.9:4444"
	req.Header.Set("X-API-Key", "bk")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-whitelisted ip: expected 403, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/v1/threads", nil)
	req.RemoteAddr = "10.1.2.3:4444"
	req.Header.Set("X-API-Key", "bk")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("whitelisted ip: expected 200, got %d", rr.Code)
	}
}

func TestGatewayRateLimits(t *testing.T) {
	cfg := testSecConfig()
	cfg.RPS = 1
	cfg.Burst = 1
	h := gatewayFor(cfg, nil)

	req := httptest.NewRequest("GET", "/v1/threads", nil)
	req.Header.Set("X-API-Key", "fk")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded: expected 429, got %d", rr.Code)
	}
}
