package ui

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/curator/internal/config"
	"github.com/five82/curator/internal/controller"
	"github.com/five82/curator/internal/state"
)

// activateCmd runs the probe-gated startup sequence.
func (m Model) activateCmd() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return activatedMsg{ok: session.Activate(ctx)}
	}
}

// refreshOrActivate retries the whole startup sequence until the session is
// active and runs a plain refresh afterwards. An in-flight refresh makes the
// key a no-op.
func (m *Model) refreshOrActivate() tea.Cmd {
	if m.session == nil {
		return nil
	}
	if !m.session.Active() {
		if m.activating {
			return nil
		}
		m.activating = true
		return m.activateCmd()
	}

	ctl, ctx, logger := m.session.Controller, m.ctx, m.logger
	if ctl.Refreshing() {
		logger.Debug().Msg("manual refresh ignored; refresh in flight")
		return nil
	}
	return func() tea.Msg {
		if !ctl.Refresh(ctx) {
			logger.Debug().Msg("manual refresh skipped")
		}
		return opDoneMsg{op: "refresh"}
	}
}

// deleteSelectedCmd starts a delete for the highlighted card. Confirmation
// comes back through the program bridge as a modal.
func (m *Model) deleteSelectedCmd() tea.Cmd {
	ctl := m.controller()
	if ctl == nil || m.snapshot.Failed() || len(m.snapshot.Images) == 0 {
		return nil
	}
	img := m.snapshot.Images[m.selected]
	button := m.control(img.PublicID)
	if button.Disabled() {
		return nil
	}

	req := controller.DeleteRequest{
		PublicID:    img.PublicID,
		DisplayName: img.FileName(),
		Control:     button,
		Confirm:     m.bridge,
	}
	ctx := m.ctx
	return func() tea.Msg {
		outcome := ctl.Delete(ctx, req)
		return opDoneMsg{op: "delete " + outcome.String()}
	}
}

// uploadCmd sends path through the configured uploader.
func (m Model) uploadCmd(path string) tea.Cmd {
	ctl := m.controller()
	if ctl == nil || m.uploader == nil {
		return nil
	}
	up, delay, ctx := m.uploader, m.uploadDelay, m.ctx
	ctl.Notify(state.NoticeSuccess, "Uploading "+uploadLabel(path)+"...")
	return tea.Batch(
		fetchSnapshotCmd(m.store),
		func() tea.Msg {
			err := ctl.Upload(ctx, up, expandHome(path), delay)
			return opDoneMsg{op: "upload", err: err}
		},
	)
}

var _ controller.Confirmer = (*programBridge)(nil)

func uploadLabel(path string) string {
	return filepath.Base(strings.TrimSpace(path))
}

func expandHome(path string) string {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return strings.TrimSpace(path)
	}
	return expanded
}
