package pwinty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidArgument is returned before any request is dispatched when an
// argument fails client-side validation.
var ErrInvalidArgument = errors.New("invalid argument")

// statusMessages maps remote HTTP status codes to the messages reported to
// callers. Codes missing from the table use genericStatusMessage.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad or Missing Input Parameters",
	http.StatusUnauthorized:        "Request Unauthorized",
	http.StatusForbidden:           "Forbidden. The request is not valid for the resource in its current state",
	http.StatusNotFound:            "Resource not Found",
	http.StatusLengthRequired:      "Empty HTTP Request",
	http.StatusInternalServerError: "Server Error",
}

const genericStatusMessage = "Invalid HTTP code"

// StatusError reports a non-2xx response from the API. Body carries the raw
// response payload so callers can inspect upstream details.
type StatusError struct {
	Code    int
	Message string
	Body    json.RawMessage
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP Code %d: %s", e.Code, e.Message)
}

// newStatusError builds the error for code. A 400 response also carries the
// upstream errorMessage field when the body has one.
func newStatusError(code int, body json.RawMessage) *StatusError {
	msg, ok := statusMessages[code]
	if !ok {
		msg = genericStatusMessage
	}
	if code == http.StatusBadRequest {
		if detail := upstreamMessage(body); detail != "" {
			msg += "; " + detail
		}
	}
	return &StatusError{Code: code, Message: msg, Body: body}
}

func upstreamMessage(body json.RawMessage) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.ErrorMessage
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a remote status.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is a remote 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// Kind classifies err for logs and exit codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case IsUnauthorized(err):
		return "unauthorized"
	case IsNotFound(err):
		return "not_found"
	case StatusCode(err) != 0:
		return "remote"
	default:
		return "transport"
	}
}
