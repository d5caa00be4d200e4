// Package pwinty provides an HTTP client for the Pwinty print-fulfillment API.
//
// # Overview
//
// Every operation maps to exactly one request against the v2.x REST surface:
// orders, order status, photos, countries and the product catalogue. The
// package is split into three layers:
//
//   - config.go: immutable merchant identity, host and default headers
//   - request.go: Builder, one pure method per operation returning a Request
//   - normalize.go: folds transport outcomes into a Result
//
// transport.go sends Requests over net/http; client.go and call.go tie the
// layers together.
//
// # Client Usage
//
//	client := pwinty.NewClient(merchantID, apiKey, "")
//
//	body, err := client.Order(ctx, "1234")
//	if err != nil {
//		log.Printf("order fetch failed: %v", err)
//	}
//	order, err := pwinty.Decode[pwinty.Order](body)
//
// An empty host selects https://sandbox.pwinty.com/v2.3/.
//
// # Callbacks and Futures
//
// Any request can also be consumed with a callback or as a Future. Both go
// through Client.Execute, so they see the same outcome as the blocking call:
//
//	call := client.Prepare(client.Requests().OrdersWithStatus(pwinty.StatusSubmitted))
//	call.Then(ctx, func(body json.RawMessage, err error) { ... })
//
//	fut := client.Prepare(client.Requests().Order("1234"), nil).Async(ctx)
//	body, err := fut.Await(ctx)
//
// # Headers
//
// All requests carry:
//   - Accept: application/json
//   - X-Pwinty-MerchantId
//   - X-Pwinty-REST-API-Key
//
// Each Request gets its own copy of these headers.
//
// # Error Handling
//
//   - ErrInvalidArgument: an order status outside the allowed set. Returned
//     before anything is sent.
//   - Transport errors: DNS, connection refused, timeouts. Returned as-is.
//   - *StatusError: any non-2xx response, e.g. "HTTP Code 404: Resource not
//     Found". The response body is returned alongside the error.
//
// Nothing is retried. Kind classifies an error for logging.
//
// # Empty Responses
//
// A 2xx response with no body (such as 204) yields a nil json.RawMessage.
package pwinty
