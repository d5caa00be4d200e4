package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/pwinty/internal/pwinty"
)

// Snapshot is the latest order data available to the UI.
type Snapshot struct {
	Orders              []pwinty.Order
	Countries           []pwinty.Country
	HasData             bool
	Filter              pwinty.OrderStatus // status the orders were fetched with; empty means all
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the API has failed on consecutive polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// CountryName returns the display name for code, or code itself when the
// country list does not include it.
func (s Snapshot) CountryName(code string) string {
	for _, c := range s.Countries {
		if c.CountryCode == code {
			return c.Name
		}
	}
	return code
}

// Store coordinates concurrent access to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. When err is non-nil the previous orders and
// countries are kept and the failure is counted. A nil countries slice on
// success keeps the previous list, since countries change rarely.
func (s *Store) Update(filter pwinty.OrderStatus, orders []pwinty.Order, countries []pwinty.Country, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Orders = slices.Clone(orders)
	if countries != nil {
		s.snapshot.Countries = slices.Clone(countries)
	}
	s.snapshot.Filter = filter
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Orders = slices.Clone(s.snapshot.Orders)
	snap.Countries = slices.Clone(s.snapshot.Countries)
	return snap
}
