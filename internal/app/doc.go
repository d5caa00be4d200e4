// Package app wires configuration, the Pwinty client, the state store, the
// poller and the terminal UI into the order browser.
//
// # Startup
//
//  1. Load ~/.config/pwinty/config.toml and require merchant credentials
//  2. Open the log file and build a slog.Logger over it
//  3. Load UI preferences (theme, status filter)
//  4. Build the pwinty.Client and a shared state.Store
//  5. Start the poller and run the UI until the user quits or ctx ends
//
// # Polling
//
// Poller.Refresh fetches orders for the current status filter and, until the
// store has them, the country list. Both calls run in one errgroup. A failed
// refresh keeps the previous orders in the store and records the error.
//
// The loop waits one interval between refreshes and doubles that wait for
// each consecutive failure, capped at 30 seconds. Kick and SetFilter skip the
// wait.
//
// # Logging
//
// NewLogger builds text or JSON slog handlers at a named level. The browser
// logs to the configured file because the terminal belongs to the UI; the
// CLI logs to stderr.
package app
