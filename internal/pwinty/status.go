package pwinty

import "fmt"

// OrderStatus is the server-side state of an order. The remote service owns
// all transitions; the client only filters by these values.
type OrderStatus string

const (
	StatusNotYetSubmitted OrderStatus = "NotYetSubmitted"
	StatusSubmitted       OrderStatus = "Submitted"
	StatusAwaitingPayment OrderStatus = "AwaitingPayment"
	StatusComplete        OrderStatus = "Complete"
	StatusCancelled       OrderStatus = "Cancelled"
)

// OrderStatuses lists every known OrderStatus in display order.
var OrderStatuses = []OrderStatus{
	StatusNotYetSubmitted,
	StatusSubmitted,
	StatusAwaitingPayment,
	StatusComplete,
	StatusCancelled,
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// UpdatableStatuses are the statuses a client may request via
// UpdateOrderStatus.
var UpdatableStatuses = []OrderStatus{
	StatusCancelled,
	StatusAwaitingPayment,
	StatusSubmitted,
}

// Updatable reports whether s may be set by the client.
func (s OrderStatus) Updatable() bool {
	for _, known := range UpdatableStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a user supplied value into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	s := OrderStatus(value)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidArgument, value)
	}
	return s, nil
}
