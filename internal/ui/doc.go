// Package ui implements curator's Bubble Tea terminal interface.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────────────┐
//	│ curator  Server Online  Total Images: 3  auto 1m  updated … │ header
//	│ <r> Refresh <x> Delete <u> Upload <a> Auto <L> Logs …       │ command bar
//	│ ✓ Image "cat.png" deleted successfully!                     │ notice (4s)
//	│ ╭────────────────────────────────────────────╮              │
//	│ │ cat.png                                    │              │
//	│ │ gallery/cat                                │ one card per │
//	│ │ https://res.cloudinary.com/…/cat.png       │ image        │
//	│ │ Uploaded May 1, 2024 10:00       [Delete]  │              │
//	│ ╰────────────────────────────────────────────╯              │
//	└─────────────────────────────────────────────────────────────┘
//
// The gallery pane shows, in priority order, an error panel with a retry
// hint, a loading line before the first fetch, the "No Images Yet" empty
// state, or the card list.
//
// # Data Flow
//
// The model never performs network I/O in Update. Every backend operation runs
// as a tea.Cmd against the controller, which writes into state.Store and
// posts changedMsg through the program bridge. A one-second tick re-reads the
// store as a fallback and expires notices.
//
// Delete confirmation runs the other way: the controller's Confirmer is the
// program bridge, which posts confirmRequestMsg and blocks on a buffered reply
// channel that the confirm modal answers.
//
// # Visibility
//
// Terminal focus events (tea.WithReportFocus) and ctrl+z suspend/resume drive
// controller.Visibility, so the scheduler pauses while the terminal is in the
// background. Quitting closes the session, which stops the scheduler and
// drops the subscription.
//
// # Log Pane
//
// L swaps the gallery pane for the tail of the log file, highlighted by
// level and component. The pane follows new output while scrolled to the
// bottom and reloads on every UI tick; esc or L returns to the gallery.
//
// # Themes
//
// The palettes listed by ThemeNames cycle with T. The choice and the
// auto-refresh toggle persist through package prefs.
package ui
