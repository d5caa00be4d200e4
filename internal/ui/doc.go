// Package ui provides the terminal order browser.
//
// The browser is a Bubble Tea program. A poller outside the package keeps a
// state.Store current; the model reads snapshots from the store on a tick and
// never blocks on the network in Update. Detail loads and status changes run
// as tea.Cmd functions against a pwinty.API.
//
// # Views
//
//   - Orders: a table of orders above a detail pane. Enter loads the order,
//     its photos and its submission status concurrently.
//   - Logs: the tail of the configured log file, optionally limited to
//     warnings and errors.
//
// # Actions
//
// "s" submits and "c" cancels the selected order. Both ask for confirmation
// in the footer before calling UpdateOrderStatus, then trigger a refresh.
//
// The status filter ("f") and theme ("T") are saved to the prefs file so the
// next session starts where this one ended.
package ui
