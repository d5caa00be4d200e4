package pwinty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// countingTransport returns a canned outcome and counts dispatches.
type countingTransport struct {
	calls atomic.Int32
	resp  *Response
	err   error
	last  atomic.Pointer[Request]
}

func (c *countingTransport) Dispatch(_ context.Context, req Request) (*Response, error) {
	c.calls.Add(1)
	c.last.Store(&req)
	return c.resp, c.err
}

func TestClient_InvalidStatusesNeverDispatch(t *testing.T) {
	tr := &countingTransport{resp: &Response{StatusCode: 200}}
	c := NewClient("m", "k", "", WithTransport(tr))
	ctx := context.Background()

	for _, status := range []OrderStatus{"", "Shipped", "Lost"} {
		if _, err := c.OrdersWithStatus(ctx, status); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("OrdersWithStatus(%q) error = %v, want ErrInvalidArgument", status, err)
		}
	}
	for _, status := range []OrderStatus{"Complete", "NotYetSubmitted", "x"} {
		_, err := c.UpdateOrderStatus(ctx, StatusParams{ID: "1", Status: status})
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("UpdateOrderStatus(%q) error = %v, want ErrInvalidArgument", status, err)
		}
	}

	done := make(chan error, 1)
	c.Prepare(c.Requests().OrdersWithStatus("Nope")).Then(ctx, func(_ json.RawMessage, err error) {
		done <- err
	})
	select {
	case err := <-done:
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("callback error = %v, want ErrInvalidArgument", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("callback never ran")
	}

	if n := tr.calls.Load(); n != 0 {
		t.Fatalf("transport dispatched %d times, want 0", n)
	}
}

func TestClient_CallbackAndFutureAgree(t *testing.T) {
	outcomes := []struct {
		name string
		resp *Response
		err  error
	}{
		{"success", &Response{StatusCode: 200, Body: json.RawMessage(`{"id":"abc"}`)}, nil},
		{"not found", &Response{StatusCode: 404, Body: json.RawMessage(`{"errorMessage":"no"}`)}, nil},
		{"transport", nil, errors.New("connection reset")},
	}

	for _, tt := range outcomes {
		t.Run(tt.name, func(t *testing.T) {
			tr := &countingTransport{resp: tt.resp, err: tt.err}
			c := NewClient("m", "k", "", WithTransport(tr))
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			t.Cleanup(cancel)

			call := c.Prepare(c.Requests().Order("123"), nil)

			type outcome struct {
				body json.RawMessage
				err  error
			}
			cb := make(chan outcome, 1)
			call.Then(ctx, func(body json.RawMessage, err error) {
				cb <- outcome{body, err}
			})
			var fromCallback outcome
			select {
			case fromCallback = <-cb:
			case <-ctx.Done():
				t.Fatalf("callback never ran")
			}

			body, err := call.Async(ctx).Await(ctx)
			blockBody, blockErr := call.Do(ctx)

			if string(fromCallback.body) != string(body) || string(body) != string(blockBody) {
				t.Fatalf("bodies differ: callback=%s future=%s blocking=%s", fromCallback.body, body, blockBody)
			}
			if errString(fromCallback.err) != errString(err) || errString(err) != errString(blockErr) {
				t.Fatalf("errors differ: callback=%v future=%v blocking=%v", fromCallback.err, err, blockErr)
			}
			if n := tr.calls.Load(); n != 3 {
				t.Fatalf("transport dispatched %d times, want 3", n)
			}
		})
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	tr := TransportFunc(func(ctx context.Context, _ Request) (*Response, error) {
		<-release
		return &Response{StatusCode: 200}, nil
	})
	c := NewClient("m", "k", "", WithTransport(tr))
	fut := c.Prepare(c.Requests().Countries(), nil).Async(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := fut.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Await error = %v, want context.Canceled", err)
	}

	close(release)
	<-fut.Done()
	if res := fut.Result(); res.Err != nil {
		t.Fatalf("Result().Err = %v, want nil", res.Err)
	}
}

func TestClient_SendsHeadersAndBodies(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, query, merchant, key, accept, contentType, userAgent string
		body                                                               string
	}
	got := make(chan seen, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		got <- seen{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			merchant:    r.Header.Get("X-Pwinty-MerchantId"),
			key:         r.Header.Get("X-Pwinty-REST-API-Key"),
			accept:      r.Header.Get("Accept"),
			contentType: r.Header.Get("Content-Type"),
			userAgent:   r.Header.Get("User-Agent"),
			body:        string(raw),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"status":"NotYetSubmitted"}`))
	}))
	t.Cleanup(server.Close)

	c := NewClient("merchant-7", "key-7", server.URL+"/v2.3", WithUserAgent("pwinty-test/1"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	photos := []PhotoParams{{Type: "4x6", URL: "https://img.test/a.jpg", Copies: 2}}
	body, err := c.AddPhotosToOrder(ctx, "42", photos)
	if err != nil {
		t.Fatalf("AddPhotosToOrder returned error: %v", err)
	}
	s := <-got
	if s.method != http.MethodPost || s.path != "/v2.3/Orders/42/Photos/Batch" {
		t.Fatalf("request = %s %s, want POST /v2.3/Orders/42/Photos/Batch", s.method, s.path)
	}
	if s.merchant != "merchant-7" || s.key != "key-7" || s.accept != "application/json" {
		t.Fatalf("auth headers = %+v", s)
	}
	if s.contentType != "application/json" || s.userAgent != "pwinty-test/1" {
		t.Fatalf("content-type/user-agent = %q/%q", s.contentType, s.userAgent)
	}
	var sent []PhotoParams
	if err := json.Unmarshal([]byte(s.body), &sent); err != nil || len(sent) != 1 || sent[0].Copies != 2 {
		t.Fatalf("request body = %s, want encoded photos", s.body)
	}

	order, err := Decode[Order](body)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if order.ID != 42 || order.Status != StatusNotYetSubmitted {
		t.Fatalf("order = %+v, want id 42 NotYetSubmitted", order)
	}

	if _, err := c.OrdersWithStatus(ctx, StatusSubmitted); err != nil {
		t.Fatalf("OrdersWithStatus returned error: %v", err)
	}
	s = <-got
	if s.path != "/v2.3/Orders" || s.query != "orderStatus=Submitted" || s.body != "" {
		t.Fatalf("request = %s?%s body=%q, want filtered orders without body", s.path, s.query, s.body)
	}
}

func TestClient_RemoteErrorsCarryBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/Orders/1"):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errorMessage":"recipientName is required"}`))
		case strings.HasSuffix(r.URL.Path, "/Country"):
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient("m", "k", server.URL)
	ctx := context.Background()

	body, err := c.UpdateOrder(ctx, OrderParams{ID: "1"})
	if err == nil || err.Error() != "HTTP Code 400: Bad or Missing Input Parameters; recipientName is required" {
		t.Fatalf("UpdateOrder error = %v", err)
	}
	if !strings.Contains(string(body), "recipientName is required") {
		t.Fatalf("UpdateOrder body = %s, want upstream payload", body)
	}

	body, err = c.Countries(ctx)
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("Countries error = %v, want 502", err)
	}
	var text string
	if jerr := json.Unmarshal(body, &text); jerr != nil || text != "upstream exploded" {
		t.Fatalf("Countries body = %s, want non-JSON payload as JSON string", body)
	}

	_, err = c.OrderSubmissionStatus(ctx, "9")
	if !IsNotFound(err) || err.Error() != "HTTP Code 404: Resource not Found" {
		t.Fatalf("OrderSubmissionStatus error = %v, want 404", err)
	}
}

func TestClient_TransportErrorIsReturned(t *testing.T) {
	c := NewClient("m", "k", "http://127.0.0.1:1/", WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := c.Orders(context.Background())
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("Orders error = %v, want execute request error", err)
	}
	if StatusCode(err) != 0 {
		t.Fatalf("StatusCode = %d, want 0 for transport error", StatusCode(err))
	}
}

func TestClient_DeleteWithEmptyResponse(t *testing.T) {
	tr := &countingTransport{resp: &Response{StatusCode: http.StatusNoContent}}
	c := NewClient("m", "k", "", WithTransport(tr))

	body, err := c.DeleteOrderPhoto(context.Background(), "5", "6")
	if err != nil || body != nil {
		t.Fatalf("DeleteOrderPhoto = %s, %v; want nil, nil", body, err)
	}
	req := tr.last.Load()
	if req.Method != http.MethodDelete || !strings.HasSuffix(req.URL, "Orders/5/Photos/6") {
		t.Fatalf("request = %s %s", req.Method, req.URL)
	}
}

func TestClient_ParamsKeepZeroValuesAndExtraFields(t *testing.T) {
	t.Parallel()

	bodies := make(chan []byte, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies <- raw
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	var order OrderParams
	input := `{"recipientName":"Grace","useTrackedShipping":false,"invoiceCurrency":"GBP",` +
		`"photos":[{"type":"4x6","copies":1}],"ID":"ignored"}`
	if err := json.Unmarshal([]byte(input), &order); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if order.UseTrackedShipping == nil || *order.UseTrackedShipping {
		t.Fatalf("UseTrackedShipping = %v, want explicit false", order.UseTrackedShipping)
	}
	if _, ok := order.Extra["ID"]; ok {
		t.Fatalf("Extra = %v, known field captured as extra", order.Extra)
	}
	order.ID = "7"

	c := NewClient("m", "k", server.URL)
	ctx := context.Background()
	if _, err := c.UpdateOrder(ctx, order); err != nil {
		t.Fatalf("UpdateOrder returned error: %v", err)
	}
	var sent map[string]any
	if err := json.Unmarshal(<-bodies, &sent); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if sent["id"] != "7" || sent["recipientName"] != "Grace" || sent["invoiceCurrency"] != "GBP" {
		t.Fatalf("body = %v", sent)
	}
	if v, ok := sent["useTrackedShipping"]; !ok || v != false {
		t.Fatalf("useTrackedShipping = %v (present %t), want false", v, ok)
	}
	if photos, _ := sent["photos"].([]any); len(photos) != 1 {
		t.Fatalf("photos = %v, want one photo", sent["photos"])
	}
	if _, ok := sent["ID"]; ok {
		t.Fatalf("body = %v, extra shadowed a named field", sent)
	}

	zero := 0
	photo := PhotoParams{Type: "4x6", Copies: 1, PriceToUser: &zero,
		Extra: map[string]json.RawMessage{"frameColour": json.RawMessage(`"black"`)}}
	if _, err := c.AddPhotoToOrder(ctx, "7", photo); err != nil {
		t.Fatalf("AddPhotoToOrder returned error: %v", err)
	}
	raw := <-bodies
	if !bytes.Contains(raw, []byte(`"priceToUser":0`)) || !bytes.Contains(raw, []byte(`"frameColour":"black"`)) {
		t.Fatalf("photo body = %s", raw)
	}

	var omitted map[string]any
	if err := json.Unmarshal(mustMarshal(t, OrderParams{RecipientName: "Ada"}), &omitted); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := omitted["useTrackedShipping"]; ok {
		t.Fatalf("unset useTrackedShipping sent: %v", omitted)
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return raw
}

func TestHTTPTransport_RejectsOversizedResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`"`))
		_, _ = w.Write(bytes.Repeat([]byte("a"), maxResponseBytes))
		_, _ = w.Write([]byte(`"`))
	}))
	t.Cleanup(server.Close)

	c := NewClient("m", "k", server.URL)
	body, err := c.Countries(context.Background())
	if err == nil || !strings.Contains(err.Error(), "body exceeds") {
		t.Fatalf("Countries error = %v, want size error", err)
	}
	if body != nil {
		t.Fatalf("Countries body has %d bytes, want none", len(body))
	}
	if StatusCode(err) != 0 || Kind(err) != "transport" {
		t.Fatalf("status = %d kind = %s, want transport error", StatusCode(err), Kind(err))
	}
}

func TestClient_LogsCarryMerchant(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := &countingTransport{resp: &Response{StatusCode: http.StatusOK}}
	c := NewClient("merchant-9", "k", "", WithTransport(tr), WithLogger(logger))

	if _, err := c.Countries(context.Background()); err != nil {
		t.Fatalf("Countries returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"merchant":"merchant-9"`) {
		t.Fatalf("log = %s, want merchant attribute", buf.String())
	}
	if got := c.Config().MerchantID(); got != "merchant-9" {
		t.Fatalf("MerchantID = %q", got)
	}
}
