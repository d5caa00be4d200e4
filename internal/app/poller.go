package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/pwinty/internal/pwinty"
	"github.com/five82/pwinty/internal/state"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 30 * time.Second
)

// Poller refreshes the store from the API at a fixed cadence, backing off
// while the API keeps failing.
type Poller struct {
	api      pwinty.API
	store    *state.Store
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	filter pwinty.OrderStatus
	kick   chan struct{}
}

// NewPoller builds a Poller. A non-positive interval uses the default.
func NewPoller(api pwinty.API, store *state.Store, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		api:      api,
		store:    store,
		interval: interval,
		logger:   logger.With("component", "poller"),
		kick:     make(chan struct{}, 1),
	}
}

// SetFilter changes the order status filter and triggers an immediate
// refresh. An empty status fetches every order.
func (p *Poller) SetFilter(status pwinty.OrderStatus) {
	p.mu.Lock()
	p.filter = status
	p.mu.Unlock()
	p.Kick()
}

// Filter returns the current order status filter.
func (p *Poller) Filter() pwinty.OrderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Kick requests a refresh without waiting for the next tick.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Start launches the poll loop in a goroutine and returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	failures := 0
	for {
		// a refresh about to start satisfies any kick already queued
		select {
		case <-p.kick:
		default:
		}
		if err := p.Refresh(ctx); err != nil {
			failures++
			p.logger.Warn("order poll failed", "error", err, "kind", pwinty.Kind(err), "failures", failures)
		} else {
			failures = 0
		}

		timer := time.NewTimer(calculateBackoff(failures, p.interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-p.kick:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Refresh fetches orders, and countries when the store has none yet, and
// records the outcome in the store.
func (p *Poller) Refresh(ctx context.Context) error {
	filter := p.Filter()
	needCountries := len(p.store.Snapshot().Countries) == 0

	var (
		orders    []pwinty.Order
		countries []pwinty.Country
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var (
			body json.RawMessage
			err  error
		)
		if filter == "" {
			body, err = p.api.Orders(gctx)
		} else {
			body, err = p.api.OrdersWithStatus(gctx, filter)
		}
		if err != nil {
			return fmt.Errorf("fetch orders: %w", err)
		}
		orders, err = pwinty.Decode[[]pwinty.Order](body)
		return err
	})
	if needCountries {
		g.Go(func() error {
			body, err := p.api.Countries(gctx)
			if err != nil {
				return fmt.Errorf("fetch countries: %w", err)
			}
			countries, err = pwinty.Decode[[]pwinty.Country](body)
			return err
		})
	}

	err := g.Wait()
	p.store.Update(filter, orders, countries, err)
	return err
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
