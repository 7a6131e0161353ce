package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBearerAuthMiddleware(t *testing.T) {
	ts := newTestServer(&stubAsker{}, &stubPinger{}, []string{"secret-key"})
	defer ts.Close()

	doAsk := func(t *testing.T, header string) int {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/ask",
			strings.NewReader(`{"question": "q"}`))
		if err != nil {
			t.Fatal(err)
		}
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	t.Run("missing header", func(t *testing.T) {
		if got := doAsk(t, ""); got != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", got)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		if got := doAsk(t, "Basic secret-key"); got != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", got)
		}
	})

	t.Run("invalid key", func(t *testing.T) {
		if got := doAsk(t, "Bearer wrong"); got != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", got)
		}
	})

	t.Run("valid key", func(t *testing.T) {
		if got := doAsk(t, "Bearer secret-key"); got != http.StatusOK {
			t.Errorf("status = %d, want 200", got)
		}
	})

	t.Run("health is exempt", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestBearerAuthMiddleware_DisabledWhenNoKeys(t *testing.T) {
	handler := BearerAuthMiddleware(nil)(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ask", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want pass-through 204", rec.Code)
	}
}
