package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionUnavailable means no valid access token could be obtained:
// refresh and login both failed, or the caller gave up waiting.
var ErrSessionUnavailable = errors.New("apiclient: session unavailable")

// Link error codes returned by /api/link/confirm.
const (
	CodeLinkNotFound         = "code_not_found"
	CodeLinkIdentityMismatch = "identity_mismatch"
	CodeLinkAlreadyUsed      = "already_used"
	CodeLinkExpired          = "expired"
	CodeInvalidToken         = "invalid_token"
	CodeInvalidSignature     = "invalid_signature"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api %d: %s: %s", e.StatusCode, e.Code, e.Detail)
}

// ErrorCode returns the API error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func parseErrorResponse(status int, body []byte) error {
	var e struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return &APIError{StatusCode: status, Code: e.Error, Detail: e.Detail}
	}
	return &APIError{StatusCode: status, Code: "http_error", Detail: http.StatusText(status)}
}
