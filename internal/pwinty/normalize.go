package pwinty

import (
	"encoding/json"
	"errors"
)

var errNoResponse = errors.New("transport returned no response")

// Result is the normalized outcome of a request. On a remote status error
// both fields are set: Err is a *StatusError and Body holds the payload.
type Result struct {
	Err  error
	Body json.RawMessage
}

// Normalize folds a transport outcome into a Result. Transport errors pass
// through unchanged; 2xx responses yield the body; anything else yields a
// *StatusError alongside the body. An empty 2xx body leaves Body nil.
func Normalize(resp *Response, err error) Result {
	if err != nil {
		return Result{Err: err}
	}
	if resp == nil {
		return Result{Err: errNoResponse}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return Result{Body: resp.Body}
	}
	return Result{
		Err:  newStatusError(resp.StatusCode, resp.Body),
		Body: resp.Body,
	}
}
