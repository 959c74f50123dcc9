package freebox

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// Error codes the dispatcher acts upon.
const (
	errorCodeAuthRequired       = "auth_required"
	errorCodeInvalidSession     = "invalid_session"
	errorCodeInsufficientRights = "insufficient_rights"
)

// apiResult is the outcome of one HTTP exchange with the Freebox.
type apiResult struct {
	OK        bool            `json:"success"`
	ErrorCode string          `json:"error_code,omitempty"`
	Msg       string          `json:"msg,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`

	statusCode  int
	contentType string
	raw         []byte
}

// RawResponse receives a response body as is. Pass a *RawResponse as the output of
// Get/Post/Put/Delete to read endpoints that do not answer JSON.
type RawResponse struct {
	ContentType string
	Body        []byte
}

func newAPIResult(statusCode int, contentType string, body []byte) (*apiResult, error) {
	res := &apiResult{statusCode: statusCode, contentType: contentType, raw: body}
	if !res.isJSON() {
		return res, nil
	}
	if err := json.Unmarshal(body, res); err != nil {
		return nil, fmt.Errorf("failed to parse API response (HTTP %d): %w", statusCode, err)
	}
	return res, nil
}

func (r *apiResult) isJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		return strings.HasPrefix(r.contentType, "application/json")
	}
	return mediaType == "application/json"
}

// needsNewSession reports whether the Freebox rejected the session token.
func (r *apiResult) needsNewSession() bool {
	if !r.isJSON() {
		return false
	}
	switch r.ErrorCode {
	case errorCodeAuthRequired, errorCodeInvalidSession:
		return true
	}
	return false
}

// err translates an unsuccessful JSON envelope.
func (r *apiResult) err() error {
	if !r.isJSON() || r.OK {
		return nil
	}

	kind := ErrorKindRequest
	if r.ErrorCode == errorCodeInsufficientRights {
		kind = ErrorKindInsufficientRights
	}
	msg := "request failed"
	if r.Msg != "" {
		msg = fmt.Sprintf("request failed: %s", r.Msg)
	}
	return &Error{Kind: kind, Message: msg, Code: r.ErrorCode, Response: r.raw}
}

// decode stores the result into out. A nil out discards it.
func (r *apiResult) decode(out any) error {
	switch v := out.(type) {
	case nil:
		return nil
	case *RawResponse:
		v.ContentType = r.contentType
		v.Body = r.raw
		return nil
	case *[]byte:
		if r.isJSON() {
			*v = r.Result
		} else {
			*v = r.raw
		}
		return nil
	}

	if !r.isJSON() {
		return &Error{Kind: ErrorKindRequest, Message: fmt.Sprintf("unexpected %q response", r.contentType)}
	}
	if len(r.Result) == 0 || string(r.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return fmt.Errorf("failed to decode API result: %w", err)
	}
	return nil
}
