package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/curator/internal/controller"
	"github.com/five82/curator/internal/prefs"
	"github.com/five82/curator/internal/state"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Session      *controller.Session
	Store        *state.Store
	Uploader     controller.Uploader // nil disables the upload modal
	UploadDelay  time.Duration
	UploadHint   string
	Logger       zerolog.Logger
	ThemeName    string
	AutoRefresh  bool
	PrefsPath    string
	BackendLabel string
	LogFile      string
	UITick       time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	session      *controller.Session
	store        *state.Store
	uploader     controller.Uploader
	uploadDelay  time.Duration
	uploadHint   string
	logger       zerolog.Logger
	prefsPath    string
	backendLabel string
	logPath      string
	uiTick       time.Duration
	bridge       *programBridge
	keys         keyMap
	clock        func() time.Time

	// UI state
	theme       Theme
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal
	spinner     spinner.Model
	viewport    viewport.Model
	autoRefresh bool
	activating  bool
	showLogs    bool
	logFollow   bool
	logView     viewport.Model
	logLines    []string

	// Data state
	snapshot state.Snapshot
	selected int
	controls map[string]*controller.Control
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uiTick := opts.UITick
	if uiTick <= 0 {
		uiTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	delay := opts.UploadDelay
	if delay <= 0 {
		delay = controller.DefaultUploadRefreshDelay
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:          ctx,
		session:      opts.Session,
		store:        opts.Store,
		uploader:     opts.Uploader,
		uploadDelay:  delay,
		uploadHint:   opts.UploadHint,
		logger:       opts.Logger,
		prefsPath:    prefsPath,
		backendLabel: opts.BackendLabel,
		logPath:      opts.LogFile,
		uiTick:       uiTick,
		bridge:       &programBridge{},
		keys:         DefaultKeyMap(),
		clock:        time.Now,
		theme:        GetTheme(themeName),
		spinner:      sp,
		autoRefresh:  opts.AutoRefresh,
		activating:   opts.Session != nil,
		controls:     make(map[string]*controller.Control),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.uiTick),
		m.spinner.Tick,
	}
	if m.session != nil {
		cmds = append(cmds, m.activateCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.contentHeight())
			m.logView = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.viewport.Width = msg.Width
		m.viewport.Height = m.contentHeight()
		m.logView.Width = msg.Width
		m.logView.Height = m.contentHeight()
		m.updateViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{fetchSnapshotCmd(m.store), tickCmd(m.uiTick)}
		if m.showLogs {
			cmds = append(cmds, loadLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case logsMsg:
		m.applyLogs(msg)
		return m, nil

	case changedMsg:
		return m, fetchSnapshotCmd(m.store)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.FocusMsg:
		m.setVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.setVisible(false)
		return m, nil

	case tea.ResumeMsg:
		m.setVisible(true)
		return m, nil

	case activatedMsg:
		m.activating = false
		if msg.ok && !m.autoRefresh {
			m.session.Scheduler.Stop()
		}
		return m, fetchSnapshotCmd(m.store)

	case confirmRequestMsg:
		if m.modal != nil {
			// Only one prompt at a time; a second request is declined.
			msg.reply <- false
			return m, nil
		}
		m.modal = newConfirmModal(msg.prompt, msg.reply)
		return m, nil

	case uploadSubmitMsg:
		return m, m.uploadCmd(msg.path)

	case opDoneMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Str("op", msg.op).Msg("operation finished with error")
		}
		return m, fetchSnapshotCmd(m.store)
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showLogs {
		return m.handleLogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateViewport()
		return m, nil

	case key.Matches(msg, m.keys.Suspend):
		m.setVisible(false)
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refreshOrActivate()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelectedCmd()

	case key.Matches(msg, m.keys.Upload):
		return m.openUpload()

	case key.Matches(msg, m.keys.AutoRefresh):
		m.toggleAutoRefresh()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		return m.openLogs()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.selected + 1)
	case key.Matches(msg, m.keys.Top):
		m.moveSelection(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(len(m.snapshot.Images) - 1)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if d, ok := m.modal.(dismissable); ok {
		d.Dismiss()
	}
	m.modal = nil
	if m.session != nil {
		m.session.Close()
	}
	return m, tea.Quit
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	live := make(map[string]bool, len(snap.Images))
	for _, img := range snap.Images {
		live[img.PublicID] = true
	}
	for id := range m.controls {
		if !live[id] {
			delete(m.controls, id)
		}
	}
	m.moveSelection(m.selected)
}

func (m *Model) moveSelection(idx int) {
	n := len(m.snapshot.Images)
	switch {
	case n == 0:
		idx = 0
	case idx < 0:
		idx = 0
	case idx >= n:
		idx = n - 1
	}
	m.selected = idx
	m.updateViewport()
}

// control returns the delete button state for publicID, creating it on
// first use so it survives re-renders until the image disappears.
func (m *Model) control(publicID string) *controller.Control {
	ctl, ok := m.controls[publicID]
	if !ok {
		ctl = controller.NewControl("Delete")
		m.controls[publicID] = ctl
	}
	return ctl
}

func (m *Model) setVisible(visible bool) {
	if m.session == nil || m.session.Visibility == nil {
		return
	}
	m.session.Visibility.Set(visible)
	if visible && !m.autoRefresh {
		m.session.Scheduler.Stop()
	}
}

func (m *Model) toggleAutoRefresh() {
	m.autoRefresh = !m.autoRefresh
	if m.session != nil && m.session.Active() {
		if m.autoRefresh && m.session.Visibility.Visible() {
			m.session.Scheduler.Start()
		} else {
			m.session.Scheduler.Stop()
		}
	}
	m.savePrefs()

	ctl := m.controller()
	if ctl == nil {
		return
	}
	if m.autoRefresh {
		ctl.Notify(state.NoticeSuccess, fmt.Sprintf("Auto-refresh every %s", m.refreshPeriod()))
	} else {
		ctl.Notify(state.NoticeSuccess, "Auto-refresh paused")
	}
	m.snapshot = m.store.Snapshot()
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, AutoRefreshOff: !m.autoRefresh}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn().Err(err).Msg("save prefs")
	}
}

func (m Model) openUpload() (tea.Model, tea.Cmd) {
	if m.uploader == nil {
		if ctl := m.controller(); ctl != nil {
			ctl.Notify(state.NoticeError, "Upload is not configured (set [upload] cloud_name and preset)")
		}
		return m, fetchSnapshotCmd(m.store)
	}
	m.modal = newUploadModal(m.uploadHint)
	return m, textinput.Blink
}

func (m Model) controller() *controller.Controller {
	if m.session == nil {
		return nil
	}
	return m.session.Controller
}

func (m Model) refreshPeriod() time.Duration {
	if m.session == nil || m.session.Scheduler == nil {
		return controller.DefaultRefreshPeriod
	}
	return m.session.Scheduler.Period()
}

func (m Model) contentHeight() int {
	return max(m.height-headerLines-noticeLines, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderNotice())
	b.WriteString("\n")

	if m.showLogs {
		b.WriteString(m.renderLogPane())
		return b.String()
	}

	// Re-render cards on every frame so button labels and the spinner stay live.
	vp := m.viewport
	vp.SetContent(m.renderGallery())
	b.WriteString(vp.View())
	return b.String()
}

// updateViewport re-renders the gallery pane and keeps the selected card in view.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderGallery())
	if m.snapshot.Failed() || len(m.snapshot.Images) == 0 {
		m.viewport.GotoTop()
		return
	}
	top := m.selected * cardLines
	bottom := top + cardLines
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m Model) cardWidth() int {
	return max(min(m.width-2, maxCardWidth), 24)
}

func (m Model) statusBadge(name string) lipgloss.Style {
	return m.theme.Styles().StatusStyle(name)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// changedMsg is posted by the controller after every store mutation.
type changedMsg struct{}

type activatedMsg struct {
	ok bool
}

// opDoneMsg reports the end of a background refresh, delete, or upload.
type opDoneMsg struct {
	op  string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(m.ctx),
	)
	m.bridge.setSend(p.Send)
	if ctl := m.controller(); ctl != nil {
		ctl.SetOnChange(func() { m.bridge.Send(changedMsg{}) })
		defer ctl.SetOnChange(nil)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
