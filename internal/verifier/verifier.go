// Package verifier judges duel evidence. The judge itself lives outside this
// service; HTTPClient talks to it and AutoApprove stands in for development.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/osse101/TaskArena_Go/internal/logger"
)

// Request describes the evidence submitted for one duel task
type Request struct {
	EvidenceRef     string `json:"evidence_ref"`
	TaskTitle       string `json:"task_title"`
	TaskDescription string `json:"task_description"`
}

// Verdict is the judge's decision
type Verdict struct {
	Approved   bool    `json:"approved"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Verifier decides whether evidence proves a task was completed
type Verifier interface {
	Verify(ctx context.Context, req Request) (Verdict, error)
}

// Func adapts a plain function to Verifier
type Func func(ctx context.Context, req Request) (Verdict, error)

// Verify calls f
func (f Func) Verify(ctx context.Context, req Request) (Verdict, error) {
	return f(ctx, req)
}

// AutoApprove approves any non-empty evidence reference
type AutoApprove struct{}

// Verify implements Verifier
func (AutoApprove) Verify(_ context.Context, req Request) (Verdict, error) {
	if strings.TrimSpace(req.EvidenceRef) == "" {
		return Verdict{Approved: false, Reason: ReasonMissingEvidence, Confidence: 1}, nil
	}
	return Verdict{Approved: true, Reason: ReasonAutoApproved, Confidence: 1}, nil
}

// HTTPClient posts evidence to an external judge as JSON
type HTTPClient struct {
	BaseURL    string
	APIKey     string
	Client     *http.Client
	MaxRetries uint64
	RetryDelay time.Duration
}

// NewHTTPClient creates a judge client with default retry settings
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

var errServer = errors.New(ErrMsgServerError)

// Verify implements Verifier. Transport failures and 5xx responses are
// retried with exponential backoff; 4xx responses are returned immediately.
func (c *HTTPClient) Verify(ctx context.Context, req Request) (Verdict, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("%s: %w", ErrMsgMarshalRequest, err)
	}

	backoff := retry.WithMaxRetries(c.MaxRetries, retry.NewExponential(c.RetryDelay))
	attempt := 0

	var verdict Verdict
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			logger.FromContext(ctx).Info(LogMsgVerifyRetry, "attempt", attempt)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+VerifyPath, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgCreateRequest, err)
		}
		httpReq.Header.Set("Content-Type", ContentTypeJSON)
		if c.APIKey != "" {
			httpReq.Header.Set(HeaderAPIKey, c.APIKey)
		}

		resp, err := c.Client.Do(httpReq)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%s: %w", ErrMsgRequestFailed, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("%w: %d", errServer, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: %d", ErrMsgUnexpectedCode, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgDecodeResponse, err)
		}
		return nil
	})
	if err != nil {
		return Verdict{}, err
	}

	logger.FromContext(ctx).Debug(LogMsgVerified, "approved", verdict.Approved, "confidence", verdict.Confidence)
	return verdict, nil
}
