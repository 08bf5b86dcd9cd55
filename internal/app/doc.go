// Package app is curator's composition root.
//
// Build wires one object graph from a loaded config:
//
//	config.Config
//	   ├─> gallery.NewClient()        HTTP client for the backend
//	   ├─> state.Store{}              snapshot shared with the UI
//	   ├─> controller.New()           refresh/delete/upload operations
//	   ├─> controller.NewScheduler()  periodic refresh, visibility gated
//	   ├─> controller.NewVisibility() focus/suspend event source
//	   ├─> controller.NewSession()    probe-gated activation
//	   └─> upload.NewClient()         only when [upload] is configured
//
// Run adds file logging and preferences and hands the graph to the TUI. The
// CLI subcommands call Build directly with a stderr logger and never activate
// the session, so no scheduler runs for one-shot commands.
//
// Fatal errors (returned before anything starts):
//   - invalid or unreadable config
//   - invalid api_url
//   - log file cannot be opened
//
// An [upload] table without both cloud_name and preset leaves uploads
// disabled rather than failing.
//
// Everything after startup is recoverable and surfaces through the store.
package app
