package controller

import "sync"

// Visibility tracks whether the operator can currently see the gallery and
// fans transitions out to subscribers.
type Visibility struct {
	mu      sync.Mutex
	visible bool
	nextID  int
	subs    map[int]func(bool)
}

// NewVisibility returns a Visibility starting in the given state.
func NewVisibility(visible bool) *Visibility {
	return &Visibility{visible: visible, subs: make(map[int]func(bool))}
}

// Visible reports the current state. A nil Visibility is always visible.
func (v *Visibility) Visible() bool {
	if v == nil {
		return true
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// Set updates the state. Subscribers are called only on transitions, outside
// the lock, in subscription order.
func (v *Visibility) Set(visible bool) {
	v.mu.Lock()
	if v.visible == visible {
		v.mu.Unlock()
		return
	}
	v.visible = visible
	fns := make([]func(bool), 0, len(v.subs))
	for i := 0; i < v.nextID; i++ {
		if fn, ok := v.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(visible)
	}
}

// Subscribe registers fn for transitions. The returned func removes it and
// is safe to call more than once.
func (v *Visibility) Subscribe(fn func(bool)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (v *Visibility) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
