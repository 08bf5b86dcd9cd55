package controller

import "sync"

// Control is the UI element that triggered an operation. It is passed to the
// operation explicitly so the operation can disable and relabel it.
type Control struct {
	mu       sync.Mutex
	label    string
	disabled bool
}

// NewControl returns an enabled control showing label.
func NewControl(label string) *Control {
	return &Control{label: label}
}

// Label returns the current label.
func (c *Control) Label() string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Disabled reports whether the control is currently disabled.
func (c *Control) Disabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Begin disables the control and shows pending. The returned func restores
// the label and enabled state captured at the time of the call.
func (c *Control) Begin(pending string) (restore func()) {
	if c == nil {
		return func() {}
	}
	c.mu.Lock()
	origLabel, origDisabled := c.label, c.disabled
	c.label = pending
	c.disabled = true
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.label = origLabel
		c.disabled = origDisabled
	}
}
