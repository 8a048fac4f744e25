package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinichat/pkg/config"
)

func setSigningKeys(t *testing.T, keys ...string) {
	t.Helper()
	rc := &config.RuntimeConfig{BackendKeys: map[string]struct{}{}, SigningKeys: map[string]struct{}{}}
	for _, k := range keys {
		rc.SigningKeys[k] = struct{}{}
	}
	config.SetRuntime(rc)
	t.Cleanup(func() { config.SetRuntime(nil) })
}

func signedUserHandler(t *testing.T, gotUser *string) http.Handler {
	t.Helper()
	return RequireSignedUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestSignedUserAccepted(t *testing.T) {
	setSigningKeys(t, "secret")
	var got string
	h := signedUserHandler(t, &got)

	req := httptest.NewRequest("POST", "/v1/threads", nil)
	req.Header.Set("X-Role-Name", "frontend")
	req.Header.Set("X-User-ID", "patient-7")
	req.Header.Set("X-User-Signature", SignUserID("secret", "patient-7"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got != "patient-7" {
		t.Fatalf("verified user not in context: %q", got)
	}
}

func TestSignedUserRejectsBadSignature(t *testing.T) {
	setSigningKeys(t, "secret")
	var got string
	h := signedUserHandler(t, &got)

	req := httptest.NewRequest("POST", "/v1/threads", nil)
	req.Header.Set("X-Role-Name", "frontend")
	req.Header.Set("X-User-ID", "patient-7")
	req.Header.Set("X-User-Signature", SignUserID("wrong-key", "patient-7"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSignedUserRequiresHeaders(t *testing.T) {
	setSigningKeys(t, "secret")
	var got string
	h := signedUserHandler(t, &got)

	req := httptest.NewRequest("POST", "/v1/threads", nil)
	req.Header.Set("X-Role-Name", "frontend")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without signature headers, got %d", rr.Code)
	}
}

func TestBackendMayOmitSignature(t *testing.T) {
	setSigningKeys(t, "secret")
	var got string
	h := signedUserHandler(t, &got)

	req := httptest.NewRequest("GET", "/v1/threads", nil)
	req.Header.Set("X-Role-Name", "backend")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("backend without signature: expected 200, got %d", rr.Code)
	}
	if got != "" {
		t.Fatalf("no verified user expected, got %q", got)
	}
}

func TestProbesSkipSignatureCheck(t *testing.T) {
	setSigningKeys(t, "secret")
	var got string
	h := signedUserHandler(t, &got)

	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Role-Name", "unauth")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("probe should bypass identity check, got %d", rr.Code)
	}
}
