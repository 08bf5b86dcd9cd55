package ui

import "time"

// Layout constants.
const (
	// headerLines covers the status bar and the command bar.
	headerLines = 2

	// noticeLines is reserved under the header for notifications.
	noticeLines = 1

	// cardLines is the rendered height of one image card including borders.
	cardLines = 6

	// maxCardWidth caps card width on wide terminals.
	maxCardWidth = 100
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the store and expires
	// notices.
	DefaultUIInterval = time.Second
)
