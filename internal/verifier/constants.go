package verifier

import "time"

// HTTP client defaults
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
	VerifyPath        = "/verify"
	HeaderAPIKey      = "X-API-Key"
	ContentTypeJSON   = "application/json"
)

// Error messages
const (
	ErrMsgMarshalRequest = "failed to marshal verification request"
	ErrMsgCreateRequest  = "failed to create verification request"
	ErrMsgRequestFailed  = "verification request failed"
	ErrMsgServerError    = "verifier server error"
	ErrMsgUnexpectedCode = "verifier returned unexpected status"
	ErrMsgDecodeResponse = "failed to decode verification response"
)

// Verdict reasons produced by AutoApprove
const (
	ReasonAutoApproved    = "auto-approved"
	ReasonMissingEvidence = "no evidence provided"
)

// Log messages
const (
	LogMsgVerifyRetry = "Retrying evidence verification"
	LogMsgVerified    = "Evidence verified"
)
