// Package logtail reads the tail of curator's log file and splits its lines
// into time, level, component, message, and trailing fields.
//
// The log file is written by zerolog's ConsoleWriter without color, so a
// line looks like:
//
//	2026-10-18 14:32:15 INF gallery refreshed component=controller count=12
//
// Read keeps only the last N lines in a ring buffer, so large files are
// scanned once without being held in memory. Parse is used by the TUI log
// pane for highlighting and by the logs subcommand for level filtering.
// Lines that do not match the layout are returned unchanged by callers.
package logtail
