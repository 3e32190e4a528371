package server

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/TaskArena_Go/internal/logger"
)

// isPublicPath reports whether path bypasses authentication
func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthMiddleware rejects requests without the shared API key. Failures are
// counted per client IP.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousActivityDetector counts failed logins and request volume per IP
// over a fixed window
type SuspiciousActivityDetector struct {
	mu          sync.Mutex
	failedAuth  map[string]int
	requests    map[string]int
	windowStart time.Time

	Window          time.Duration
	FailedAuthAlert int
	RequestLimit    int
	now             func() time.Time
}

// NewSuspiciousActivityDetector creates a detector with the default window
// and limits
func NewSuspiciousActivityDetector() *SuspiciousActivityDetector {
	d := &SuspiciousActivityDetector{
		Window:          DefaultDetectorWindow,
		FailedAuthAlert: DefaultFailedAuthAlert,
		RequestLimit:    DefaultRequestLimit,
		now:             time.Now,
	}
	d.reset()
	return d
}

func (s *SuspiciousActivityDetector) reset() {
	s.failedAuth = make(map[string]int)
	s.requests = make(map[string]int)
	s.windowStart = s.now()
}

// rollWindow starts a new window once the current one has elapsed.
// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) rollWindow() {
	if s.now().Sub(s.windowStart) > s.Window {
		s.reset()
	}
}

// RecordFailedAuth counts a failed authentication attempt and alerts once
// the threshold is reached
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollWindow()
	s.failedAuth[ip]++
	if n := s.failedAuth[ip]; n >= s.FailedAuthAlert {
		logger.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// RecordRequest counts a request and reports whether ip is still under the limit
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rollWindow()
	s.requests[ip]++
	n := s.requests[ip]
	if n <= s.RequestLimit {
		return true
	}
	// one line per hundred blocked requests
	if n%100 == 0 {
		logger.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

// RateLimitMiddleware answers 429 once a client exceeds the detector's limit
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(extractIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP returns the client address. X-Forwarded-For is honoured only
// when the direct peer is a trusted proxy, and then only its last hop.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	for _, proxy := range trustedProxies {
		if proxy != remoteIP {
			continue
		}
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			return strings.TrimSpace(hops[len(hops)-1])
		}
		break
	}
	return remoteIP
}

// SecurityHeadersMiddleware sets the standard hardening headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}
