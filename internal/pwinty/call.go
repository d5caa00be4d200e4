package pwinty

import (
	"context"
	"encoding/json"
)

// Callback receives the outcome of a Call. It runs exactly once.
type Callback func(body json.RawMessage, err error)

// Call is a prepared request that can be consumed blocking, with a callback,
// or as a Future. All three read the same Result from Client.Execute.
type Call struct {
	client *Client
	req    Request
	err    error
}

func (c Call) result(ctx context.Context) Result {
	if c.err != nil {
		return Result{Err: c.err}
	}
	return c.client.Execute(ctx, c.req)
}

// Do dispatches the call and blocks until it completes. On a remote status
// error both the body and a *StatusError are returned.
func (c Call) Do(ctx context.Context) (json.RawMessage, error) {
	res := c.result(ctx)
	return res.Body, res.Err
}

// Then dispatches the call on its own goroutine and hands the outcome to fn.
// It returns immediately.
func (c Call) Then(ctx context.Context, fn Callback) {
	go func() {
		res := c.result(ctx)
		if fn != nil {
			fn(res.Body, res.Err)
		}
	}()
}

// Async dispatches the call and returns a Future for its outcome.
func (c Call) Async(ctx context.Context) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		f.res = c.result(ctx)
		close(f.done)
	}()
	return f
}

// Future is a handle on an in-flight Call.
type Future struct {
	done chan struct{}
	res  Result
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Await blocks until the call completes or ctx ends. Cancelling ctx only
// stops the wait; the request itself runs under the context passed to Async.
func (f *Future) Await(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-f.done:
		return f.res.Body, f.res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome once Done is closed. It blocks until then.
func (f *Future) Result() Result {
	<-f.done
	return f.res
}
