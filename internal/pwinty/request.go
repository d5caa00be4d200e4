package pwinty

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request fully describes one API call. Builders return a fresh Request per
// call and nothing mutates it after dispatch.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// Builder turns operation arguments into Requests. It only reads its Config
// and is safe for concurrent use.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg Config) Builder {
	return Builder{cfg: cfg}
}

func (b Builder) request(method string, body any, segments ...string) Request {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return Request{
		Method: method,
		URL:    b.cfg.host + strings.Join(escaped, "/"),
		Header: b.cfg.Headers(),
		Body:   body,
	}
}

// Catalogue lists products for a country and quality tier.
func (b Builder) Catalogue(countryCode string, quality QualityLevel) Request {
	return b.request(http.MethodGet, nil, "Catalogue", countryCode, string(quality))
}

// Countries lists shipping destinations.
func (b Builder) Countries() Request {
	return b.request(http.MethodGet, nil, "Country")
}

// Orders lists every order for the merchant.
func (b Builder) Orders() Request {
	return b.request(http.MethodGet, nil, "Orders")
}

// OrdersWithStatus lists orders filtered by status. Unknown statuses fail
// with ErrInvalidArgument.
func (b Builder) OrdersWithStatus(status OrderStatus) (Request, error) {
	if !status.Valid() {
		return Request{}, fmt.Errorf("%w: invalid status %q", ErrInvalidArgument, status)
	}
	req := b.request(http.MethodGet, nil, "Orders")
	req.URL += "?" + url.Values{"orderStatus": {string(status)}}.Encode()
	return req, nil
}

// Order fetches a single order.
func (b Builder) Order(id string) Request {
	return b.request(http.MethodGet, nil, "Orders", id)
}

// CreateOrder creates an order from params.
func (b Builder) CreateOrder(params OrderParams) Request {
	return b.request(http.MethodPost, params, "Orders")
}

// UpdateOrder replaces the order identified by params.ID.
func (b Builder) UpdateOrder(params OrderParams) Request {
	return b.request(http.MethodPut, params, "Orders", params.ID)
}

// UpdateOrderStatus moves an order to params.Status. Only UpdatableStatuses
// are accepted.
func (b Builder) UpdateOrderStatus(params StatusParams) (Request, error) {
	if !params.Status.Updatable() {
		return Request{}, fmt.Errorf("%w: invalid status %q", ErrInvalidArgument, params.Status)
	}
	return b.request(http.MethodPost, params, "Orders", params.ID, "Status"), nil
}

// OrderSubmissionStatus checks whether an order is ready to submit.
func (b Builder) OrderSubmissionStatus(id string) Request {
	return b.request(http.MethodGet, nil, "Orders", id, "SubmissionStatus")
}

// OrderPhoto fetches one photo of an order.
func (b Builder) OrderPhoto(orderID, photoID string) Request {
	return b.request(http.MethodGet, nil, "Orders", orderID, "Photos", photoID)
}

// DeleteOrderPhoto removes a photo from an order.
func (b Builder) DeleteOrderPhoto(orderID, photoID string) Request {
	return b.request(http.MethodDelete, nil, "Orders", orderID, "Photos", photoID)
}

// OrderPhotos lists the photos of an order.
func (b Builder) OrderPhotos(orderID string) Request {
	return b.request(http.MethodGet, nil, "Orders", orderID, "Photos")
}

// AddPhotoToOrder attaches one photo.
func (b Builder) AddPhotoToOrder(orderID string, photo PhotoParams) Request {
	return b.request(http.MethodPost, photo, "Orders", orderID, "Photos")
}

// AddPhotosToOrder attaches photos in a single batch call.
func (b Builder) AddPhotosToOrder(orderID string, photos []PhotoParams) Request {
	return b.request(http.MethodPost, photos, "Orders", orderID, "Photos", "Batch")
}
