// Package state shares polled order data between the background poller and
// the order browser.
//
// # Overview
//
// The poller writes with Store.Update; the UI reads with Store.Snapshot.
// Store guards a single Snapshot with a sync.RWMutex and hands out copies, so
// the UI can render without holding the lock.
//
//	Poller:                        UI:
//	┌────────────────────┐        ┌────────────────────┐
//	│ Orders()           │        │                    │
//	│ Countries()        │        │                    │
//	│ store.Update()     │───────→│ store.Snapshot()   │
//	└────────────────────┘ (mutex)└────────────────────┘
//
// # Update Semantics
//
//   - Success replaces the orders, records the filter used, clears
//     LastError and resets ConsecutiveFailures.
//   - Failure keeps the previous orders, records LastError and increments
//     ConsecutiveFailures.
//
// IsOffline reports true after two consecutive failures.
package state
