// Package controller drives the gallery: health probing, single-flight
// fetching, visibility-aware auto-refresh, and confirmed deletes.
//
// # Components
//
//   - controller.go: Controller with Probe and Refresh; owns the RefreshFlag
//   - scheduler.go: Scheduler arming one recurring timer at a time
//   - visibility.go: Visibility event source with explicit unsubscribe
//   - delete.go: Delete with confirmation and control relabeling
//   - upload.go: Upload followed by a delayed refresh
//   - session.go: Session tying startup to a successful probe
//
// # Single-flight
//
// Refresh claims the RefreshFlag with a compare-and-swap. A call that loses
// the race returns false immediately and issues no request. The flag is
// released in a deferred func, so it is clear again on every exit path.
//
// # Errors
//
// Nothing returned by the backend escapes an operation. Refresh turns errors
// into a state.ErrorPanel; Delete and Upload turn them into notices.
// Timeouts get their own wording in both.
package controller
