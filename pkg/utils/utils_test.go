package utils

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenIDsAreUniqueAndPrefixed(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := GenMessageID()
		if !strings.HasPrefix(id, "msg-") {
			t.Fatalf("bad prefix: %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
	if !strings.HasPrefix(GenThreadID(), "thread-") {
		t.Fatalf("bad thread prefix")
	}
}

func TestJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, 404, "thread not found")
	if rr.Code != 404 {
		t.Fatalf("status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type: %s", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["error"] != "thread not found" {
		t.Fatalf("body: %s", rr.Body.String())
	}
}

func TestJSONWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	if err := JSONWrite(rr, 200, map[string]int{"n": 3}); err != nil {
		t.Fatalf("JSONWrite: %v", err)
	}
	if rr.Body.String() != "{\"n\":3}\n" {
		t.Fatalf("body: %q", rr.Body.String())
	}
}
