package pwinty

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// API is the full operation surface of the Pwinty client. It is implemented
// by *Client and can be faked in tests.
type API interface {
	Catalogue(ctx context.Context, countryCode string, quality QualityLevel) (json.RawMessage, error)
	Countries(ctx context.Context) (json.RawMessage, error)
	Orders(ctx context.Context) (json.RawMessage, error)
	OrdersWithStatus(ctx context.Context, status OrderStatus) (json.RawMessage, error)
	Order(ctx context.Context, id string) (json.RawMessage, error)
	CreateOrder(ctx context.Context, params OrderParams) (json.RawMessage, error)
	UpdateOrder(ctx context.Context, params OrderParams) (json.RawMessage, error)
	UpdateOrderStatus(ctx context.Context, params StatusParams) (json.RawMessage, error)
	OrderSubmissionStatus(ctx context.Context, id string) (json.RawMessage, error)
	OrderPhoto(ctx context.Context, orderID, photoID string) (json.RawMessage, error)
	DeleteOrderPhoto(ctx context.Context, orderID, photoID string) (json.RawMessage, error)
	OrderPhotos(ctx context.Context, orderID string) (json.RawMessage, error)
	AddPhotoToOrder(ctx context.Context, orderID string, photo PhotoParams) (json.RawMessage, error)
	AddPhotosToOrder(ctx context.Context, orderID string, photos []PhotoParams) (json.RawMessage, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the Pwinty HTTP API.
type Client struct {
	cfg       Config
	build     Builder
	transport Transport
	logger    *slog.Logger
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	transport  Transport
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// WithTransport replaces the HTTP transport, typically with a fake in tests.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) { o.userAgent = ua }
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient builds a Client for the given merchant. An empty host selects the
// sandbox endpoint.
func NewClient(merchantID, apiKey, host string, opts ...Option) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(o.httpClient, o.userAgent)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	cfg := NewConfig(merchantID, apiKey, host)
	return &Client{
		cfg:       cfg,
		build:     NewBuilder(cfg),
		transport: o.transport,
		logger:    o.logger.With("component", "pwinty", "merchant", cfg.MerchantID()),
	}
}

// Config returns the client's configuration.
func (c *Client) Config() Config { return c.cfg }

// Requests returns the request builder bound to this client's Config.
func (c *Client) Requests() Builder { return c.build }

// Execute dispatches req and normalizes the outcome. Every other way of
// issuing a request goes through here.
func (c *Client) Execute(ctx context.Context, req Request) Result {
	start := time.Now()
	resp, err := c.transport.Dispatch(ctx, req)
	res := Normalize(resp, err)

	attrs := []any{"method", req.Method, "url", req.URL, "duration", time.Since(start)}
	if resp != nil {
		attrs = append(attrs, "status", resp.StatusCode)
	}
	if res.Err != nil {
		c.logger.Debug("request failed", append(attrs, "kind", Kind(res.Err), "error", res.Err)...)
	} else {
		c.logger.Debug("request completed", attrs...)
	}
	return res
}

// Prepare binds a built request, or the error that prevented building it, to
// the client. The arguments line up with the (Request, error) returns of the
// validating Builder methods.
func (c *Client) Prepare(req Request, err error) Call {
	return Call{client: c, req: req, err: err}
}

func (c *Client) call(ctx context.Context, req Request) (json.RawMessage, error) {
	return c.Prepare(req, nil).Do(ctx)
}

// Catalogue lists products for a country and quality tier.
func (c *Client) Catalogue(ctx context.Context, countryCode string, quality QualityLevel) (json.RawMessage, error) {
	return c.call(ctx, c.build.Catalogue(countryCode, quality))
}

// Countries lists shipping destinations.
func (c *Client) Countries(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, c.build.Countries())
}

// Orders lists all orders.
func (c *Client) Orders(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, c.build.Orders())
}

// OrdersWithStatus lists orders in status. Unknown statuses return
// ErrInvalidArgument without contacting the API.
func (c *Client) OrdersWithStatus(ctx context.Context, status OrderStatus) (json.RawMessage, error) {
	return c.Prepare(c.build.OrdersWithStatus(status)).Do(ctx)
}

// Order fetches one order.
func (c *Client) Order(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, c.build.Order(id))
}

// CreateOrder creates an order.
func (c *Client) CreateOrder(ctx context.Context, params OrderParams) (json.RawMessage, error) {
	return c.call(ctx, c.build.CreateOrder(params))
}

// UpdateOrder updates the order identified by params.ID.
func (c *Client) UpdateOrder(ctx context.Context, params OrderParams) (json.RawMessage, error) {
	return c.call(ctx, c.build.UpdateOrder(params))
}

// UpdateOrderStatus requests a status change. Statuses outside
// UpdatableStatuses return ErrInvalidArgument without contacting the API.
func (c *Client) UpdateOrderStatus(ctx context.Context, params StatusParams) (json.RawMessage, error) {
	return c.Prepare(c.build.UpdateOrderStatus(params)).Do(ctx)
}

// OrderSubmissionStatus reports whether an order is ready to submit.
func (c *Client) OrderSubmissionStatus(ctx context.Context, id string) (json.RawMessage, error) {
	return c.call(ctx, c.build.OrderSubmissionStatus(id))
}

// OrderPhoto fetches one photo.
func (c *Client) OrderPhoto(ctx context.Context, orderID, photoID string) (json.RawMessage, error) {
	return c.call(ctx, c.build.OrderPhoto(orderID, photoID))
}

// DeleteOrderPhoto removes a photo from an order.
func (c *Client) DeleteOrderPhoto(ctx context.Context, orderID, photoID string) (json.RawMessage, error) {
	return c.call(ctx, c.build.DeleteOrderPhoto(orderID, photoID))
}

// OrderPhotos lists an order's photos.
func (c *Client) OrderPhotos(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.call(ctx, c.build.OrderPhotos(orderID))
}

// AddPhotoToOrder attaches one photo.
func (c *Client) AddPhotoToOrder(ctx context.Context, orderID string, photo PhotoParams) (json.RawMessage, error) {
	return c.call(ctx, c.build.AddPhotoToOrder(orderID, photo))
}

// AddPhotosToOrder attaches several photos in one request.
func (c *Client) AddPhotosToOrder(ctx context.Context, orderID string, photos []PhotoParams) (json.RawMessage, error) {
	return c.call(ctx, c.build.AddPhotosToOrder(orderID, photos))
}
