package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// dismissable modals must release whoever is waiting on them when the
// program quits.
type dismissable interface {
	Dismiss()
}

// confirmModal answers a pending Confirmer call.
type confirmModal struct {
	prompt   string
	reply    chan<- bool
	answered bool
}

func newConfirmModal(prompt string, reply chan<- bool) *confirmModal {
	return &confirmModal{prompt: prompt, reply: reply}
}

func (c *confirmModal) answer(ok bool) {
	if c.answered {
		return
	}
	c.answered = true
	c.reply <- ok
}

// Dismiss declines the prompt if it is still open.
func (c *confirmModal) Dismiss() {
	c.answer(false)
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes), key.Matches(keyMsg, keys.Confirm):
		c.answer(true)
		return c, nil, true
	case key.Matches(keyMsg, keys.No), key.Matches(keyMsg, keys.Cancel):
		c.answer(false)
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete image"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(styles.WarningText.Render("y/enter"))
	b.WriteString(styles.MutedText.Render(" delete   "))
	b.WriteString(styles.WarningText.Render("n/esc"))
	b.WriteString(styles.MutedText.Render(" cancel"))
	return placeModal(theme, width, height, theme.Danger, b.String())
}

// uploadSubmitMsg carries the path entered in the upload modal.
type uploadSubmitMsg struct {
	path string
}

// uploadModal collects a local file path to upload.
type uploadModal struct {
	input textinput.Model
	hint  string
}

func newUploadModal(hint string) *uploadModal {
	ti := textinput.New()
	ti.Placeholder = "~/Pictures/photo.png"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 48
	ti.Focus()
	return &uploadModal{input: ti, hint: hint}
}

func (u *uploadModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Cancel):
			return u, nil, true
		case key.Matches(keyMsg, keys.Confirm):
			path := strings.TrimSpace(u.input.Value())
			if path == "" {
				return u, nil, false
			}
			return u, func() tea.Msg { return uploadSubmitMsg{path: path} }, true
		}
	}
	var cmd tea.Cmd
	u.input, cmd = u.input.Update(msg)
	return u, cmd, false
}

func (u *uploadModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Upload image"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(u.input.View())
	b.WriteString("\n\n")
	if u.hint != "" {
		b.WriteString(styles.MutedText.Render(u.hint))
		b.WriteString("\n")
	}
	b.WriteString(styles.WarningText.Render("enter"))
	b.WriteString(styles.MutedText.Render(" upload   "))
	b.WriteString(styles.WarningText.Render("esc"))
	b.WriteString(styles.MutedText.Render(" cancel"))
	return placeModal(theme, width, height, theme.Accent, b.String())
}

func placeModal(theme Theme, width, height int, border, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(min(60, max(width-4, 20))).
		Render(content)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
