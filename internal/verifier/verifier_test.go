package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoApprove(t *testing.T) {
	v := AutoApprove{}

	got, err := v.Verify(context.Background(), Request{EvidenceRef: "s3://proof/1.png"})
	require.NoError(t, err)
	assert.True(t, got.Approved)

	got, err = v.Verify(context.Background(), Request{EvidenceRef: "   "})
	require.NoError(t, err)
	assert.False(t, got.Approved)
	assert.Equal(t, ReasonMissingEvidence, got.Reason)
}

func newTestClient(url string) *HTTPClient {
	c := NewHTTPClient(url, "secret", time.Second)
	c.RetryDelay = time.Millisecond
	return c
}

func TestHTTPClient_Approves(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, VerifyPath, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(HeaderAPIKey))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Run 5k", req.TaskTitle)

		_ = json.NewEncoder(w).Encode(Verdict{Approved: true, Reason: "looks legit", Confidence: 0.92})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Verify(context.Background(), Request{EvidenceRef: "ref", TaskTitle: "Run 5k"})
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.InDelta(t, 0.92, got.Confidence, 0.0001)
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(Verdict{Approved: false, Reason: "blurry"})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Verify(context.Background(), Request{EvidenceRef: "ref"})
	require.NoError(t, err)
	assert.False(t, got.Approved)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Verify(context.Background(), Request{EvidenceRef: "ref"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnexpectedCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Verify(context.Background(), Request{EvidenceRef: "ref"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errServer)
	assert.Equal(t, int32(DefaultMaxRetries+1), calls.Load())
}
