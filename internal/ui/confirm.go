package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmRequestMsg asks the model to show a confirmation modal. The answer
// goes to reply, which is buffered so the model never blocks.
type confirmRequestMsg struct {
	prompt string
	reply  chan bool
}

// programBridge lets goroutines outside the update loop post messages to the
// running program. send is installed after tea.NewProgram returns.
type programBridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (b *programBridge) setSend(fn func(tea.Msg)) {
	b.mu.Lock()
	b.send = fn
	b.mu.Unlock()
}

// Send posts msg to the program without blocking, so controller callbacks
// fired from inside Update cannot deadlock the event loop. It reports false
// when no program is attached.
func (b *programBridge) Send(msg tea.Msg) bool {
	b.mu.Lock()
	fn := b.send
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	go fn(msg)
	return true
}

// Confirm implements controller.Confirmer by routing the prompt through a
// modal and blocking until the operator answers or ctx ends.
func (b *programBridge) Confirm(ctx context.Context, prompt string) bool {
	reply := make(chan bool, 1)
	if !b.Send(confirmRequestMsg{prompt: prompt, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}
