package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	// The same client on changing source ports shares one bucket.
	for i := 0; i < 3; i++ {
		if rr := send(fmt.Sprintf("10.0.0.1:%d", 40000+i)); rr.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	rr := send("10.0.0.1:9999")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 over the limit, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on a limited response")
	}

	// A different client is unaffected.
	if rr := send("10.0.0.2:1234"); rr.Code != http.StatusOK {
		t.Errorf("Expected 200 for a fresh client, got %d", rr.Code)
	}
}
