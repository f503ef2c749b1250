package loyverse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken is returned before any request when the client has no API token.
var ErrNoToken = errors.New("loyverse api token is not configured")

// UpstreamError is a non-2xx answer from the Loyverse API.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("loyverse %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// AsUpstreamError unwraps err into an *UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

type errorBody struct {
	Errors []struct {
		Code    string `json:"code"`
		Details string `json:"details"`
		Field   string `json:"field"`
	} `json:"errors"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// upstreamMessage picks errors[0].details, then message, then the raw body.
func upstreamMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if len(eb.Errors) > 0 {
			if eb.Errors[0].Details != "" {
				return eb.Errors[0].Details
			}
			if eb.Errors[0].Code != "" {
				return eb.Errors[0].Code
			}
		}
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return msg
}
