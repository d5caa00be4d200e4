// Package logtail reads the tail of the pwinty log file for the order
// browser's log view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// O(maxLines) regardless of file size, and returns them oldest first.
//
// The log is written by slog's text handler, one record per line:
//
//	time=2026-10-17T10:00:02Z level=WARN msg="order poll failed" kind=transport
//
// ParseLevel reads the level attribute and Filter drops records below a
// minimum level.
package logtail
