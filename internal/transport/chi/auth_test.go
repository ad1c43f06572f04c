package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_NoKeysPassThrough(t *testing.T) {
	for _, keys := range [][]string{nil, {"", "  "}} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/recommendations", http.NoBody))

		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestBearerAuth(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	tests := []struct {
		name   string
		header string
		want   int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "authorization header must use Bearer scheme"},
		{"no token", "Bearer ", http.StatusUnauthorized, "empty bearer token"},
		{"wrong key", "Bearer wrong-key", http.StatusUnauthorized, "invalid api key"},
		{"prefix of key", "Bearer key", http.StatusUnauthorized, "invalid api key"},
		{"first key", "Bearer key1", http.StatusOK, ""},
		{"second key", "Bearer key2", http.StatusOK, ""},
		{"lowercase scheme", "bearer key1", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/sessions/s1/selections", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
			if tc.want == http.StatusOK {
				return
			}

			var errResp errorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != codeUnauthorized {
				t.Errorf("code = %s, want %s", errResp.Code, codeUnauthorized)
			}
			if errResp.Message != tc.msg {
				t.Errorf("message = %q, want %q", errResp.Message, tc.msg)
			}
		})
	}
}

func TestBearerAuth_PublicPaths(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	for _, path := range []string{"/", "/health", "/metrics"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))

		if rr.Code != http.StatusOK {
			t.Errorf("public path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
