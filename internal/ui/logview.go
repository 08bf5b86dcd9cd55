package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/curator/internal/logtail"
)

// logViewLines is how much of the log file the log pane keeps.
const logViewLines = 400

type logsMsg struct {
	lines []string
	err   error
}

func loadLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logViewLines)
		return logsMsg{lines: lines, err: err}
	}
}

func (m Model) openLogs() (tea.Model, tea.Cmd) {
	m.showLogs = true
	m.logFollow = true
	return m, loadLogsCmd(m.logPath)
}

// handleLogKey processes input while the log pane is open.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Logs, m.keys.Cancel):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Refresh):
		return m, loadLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logFollow = true
		m.logView.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	m.logFollow = m.logView.AtBottom()
	return m, cmd
}

func (m *Model) applyLogs(msg logsMsg) {
	if msg.err != nil {
		m.logger.Debug().Err(msg.err).Msg("read log file")
		m.logLines = []string{"Unable to read " + m.logPath + ": " + msg.err.Error()}
	} else {
		m.logLines = msg.lines
	}
	m.logView.SetContent(m.renderLogLines())
	if m.logFollow {
		m.logView.GotoBottom()
	}
}

func (m Model) renderLogPane() string {
	vp := m.logView
	vp.SetContent(m.renderLogLines())
	return vp.View()
}

func (m Model) renderLogLines() string {
	styles := m.theme.Styles()
	if len(m.logLines) == 0 {
		return styles.MutedText.Render("No log output yet in " + m.logPath)
	}
	rendered := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		rendered = append(rendered, m.highlightLogLine(line))
	}
	return strings.Join(rendered, "\n")
}

// highlightLogLine colors the parts of one log file line.
func (m Model) highlightLogLine(line string) string {
	styles := m.theme.Styles()
	entry, ok := logtail.Parse(line)
	if !ok {
		return styles.MutedText.Render(line)
	}

	parts := []string{
		styles.FaintText.Render(entry.Time),
		m.logLevelStyle(entry.Level).Render(entry.LevelText),
	}
	if entry.Component != "" {
		parts = append(parts, styles.AccentText.Render("["+entry.Component+"]"))
	}
	if entry.Message != "" {
		parts = append(parts, styles.Text.Render(entry.Message))
	}
	for _, f := range entry.Fields {
		parts = append(parts, styles.MutedText.Render(f.Key+"=")+styles.Text.Render(f.Value))
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(strings.Join(parts, " "))
}

func (m Model) logLevelStyle(level zerolog.Level) lipgloss.Style {
	styles := m.theme.Styles()
	switch {
	case level >= zerolog.ErrorLevel:
		return styles.DangerText
	case level == zerolog.WarnLevel:
		return styles.WarningText.Bold(true)
	case level == zerolog.InfoLevel:
		return styles.SuccessText
	default:
		return styles.InfoText
	}
}
