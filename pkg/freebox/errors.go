package freebox

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failures reported by the client.
type ErrorKind string

const (
	// ErrorKindInvalidAppDesc: the application descriptor lacks one of its four fields.
	ErrorKindInvalidAppDesc ErrorKind = "invalid-app-desc"
	// ErrorKindAuthorization: pairing, challenge or session opening failed.
	ErrorKindAuthorization ErrorKind = "authorization"
	// ErrorKindInsufficientRights: the session lacks the permission the endpoint requires.
	ErrorKindInsufficientRights ErrorKind = "insufficient-rights"
	// ErrorKindRequest: any other unsuccessful API response.
	ErrorKindRequest ErrorKind = "request"
	// ErrorKindNotOpen: the client was used before Open succeeded.
	ErrorKindNotOpen ErrorKind = "not-open"
)

// Error is returned for every failure reported by the Freebox or detected by the client.
type Error struct {
	Kind    ErrorKind
	Message string
	// Code is the error_code of the API response, if any.
	Code string
	// Response is the raw API envelope, if any.
	Response json.RawMessage
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s (error_code: %s)", msg, e.Code)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvalidAppDesc reports whether err comes from an incomplete application descriptor.
func IsInvalidAppDesc(err error) bool { return kindOf(err) == ErrorKindInvalidAppDesc }

// IsAuthorization reports whether err is a pairing or session failure.
func IsAuthorization(err error) bool { return kindOf(err) == ErrorKindAuthorization }

// IsInsufficientRights reports whether the Freebox refused the call for lack of permission.
func IsInsufficientRights(err error) bool { return kindOf(err) == ErrorKindInsufficientRights }

// IsRequest reports whether err is an unsuccessful API response, including permission failures.
func IsRequest(err error) bool {
	k := kindOf(err)
	return k == ErrorKindRequest || k == ErrorKindInsufficientRights
}

// IsNotOpen reports whether the client was used before being opened.
func IsNotOpen(err error) bool { return kindOf(err) == ErrorKindNotOpen }

func authorizationError(message string, res *apiResult, err error) *Error {
	e := &Error{Kind: ErrorKindAuthorization, Message: message, Err: err}
	if res != nil {
		e.Code = res.ErrorCode
		e.Response = res.raw
		if res.Msg != "" {
			e.Message = fmt.Sprintf("%s: %s", message, res.Msg)
		}
	}
	return e
}
