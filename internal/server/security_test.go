package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	apiKey := "secret-key"
	detector := NewSuspiciousActivityDetector()
	handler := AuthMiddleware(apiKey, nil, detector)(okHandler())

	tests := []struct {
		name           string
		providedKey    string
		path           string
		expectedStatus int
	}{
		{"Valid API Key", apiKey, "/api/v1/characters/ann", http.StatusOK},
		{"Invalid API Key", "wrong-key", "/api/v1/characters/ann", http.StatusUnauthorized},
		{"Missing API Key", "", "/api/v1/duels", http.StatusUnauthorized},
		{"Public Path - Healthz", "", "/healthz", http.StatusOK},
		{"Public Path - Readyz", "", "/readyz", http.StatusOK},
		{"Public Path - Metrics", "", "/metrics", http.StatusOK},
		{"Public Path - Swagger", "", "/swagger/index.html", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.providedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.providedKey)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}

	detector.mu.Lock()
	defer detector.mu.Unlock()
	assert.Equal(t, 2, detector.failedAuth["192.0.2.1"], "httptest requests come from 192.0.2.1")
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct peer", "10.0.0.5:4000", "", nil, "10.0.0.5"},
		{"untrusted peer ignores header", "10.0.0.5:4000", "1.2.3.4", nil, "10.0.0.5"},
		{"trusted proxy uses last hop", "10.0.0.1:4000", "6.6.6.6, 1.2.3.4", []string{"10.0.0.1"}, "1.2.3.4"},
		{"trusted proxy without header", "10.0.0.1:4000", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"no port", "10.0.0.9", "", nil, "10.0.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		if _, err := r.Body.Read(buf); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is far too long"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSuspiciousActivityDetector_WindowRolls(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewSuspiciousActivityDetector()
	d.now = func() time.Time { return current }
	d.reset()
	d.RequestLimit = 2

	assert.True(t, d.RecordRequest("a"))
	assert.True(t, d.RecordRequest("a"))
	assert.False(t, d.RecordRequest("a"))
	assert.True(t, d.RecordRequest("b"), "limits are per client")

	current = current.Add(d.Window + time.Second)
	assert.True(t, d.RecordRequest("a"), "a new window resets the count")
}
