package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/curator/internal/gallery"
	"github.com/five82/curator/internal/state"
)

// renderHeader renders the status bar: connectivity, count, and refresh state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)
	snap := m.snapshot

	parts := []string{bg.Render("curator", styles.Logo)}

	switch {
	case !snap.HasStatus:
		parts = append(parts, m.statusBadge("connecting").Render("Connecting"))
	case snap.Online:
		parts = append(parts, m.statusBadge("online").Render("Server Online"))
	default:
		parts = append(parts, m.statusBadge("offline").Render("Server Offline"))
	}

	parts = append(parts, bg.Render(fmt.Sprintf("Total Images: %d", snap.Count()), styles.Text.Bold(true)))

	if m.autoRefresh {
		parts = append(parts, bg.Render("auto "+formatPeriod(m.refreshPeriod()), styles.MutedText))
	} else {
		parts = append(parts, m.statusBadge("paused").Render("auto off"))
	}

	switch {
	case snap.Loading || m.activating:
		parts = append(parts, bg.Render(m.spinner.View()+" Refreshing", styles.InfoText))
	case !snap.LastUpdated.IsZero():
		parts = append(parts, bg.Render("updated "+snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	if m.backendLabel != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.backendLabel, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar lists the primary key bindings.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newBar(m.theme.Surface)

	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		if h.Key == m.keys.Upload.Help().Key && m.uploader == nil {
			parts = append(parts, bg.Render("<"+h.Key+">", styles.FaintText)+bg.Space()+bg.Render(h.Desc, styles.FaintText))
			continue
		}
		parts = append(parts, bg.Render("<"+h.Key+">", styles.WarningText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderNotice shows the latest notification until it expires.
func (m Model) renderNotice() string {
	n := m.snapshot.Notice
	if !n.Visible(m.clock()) {
		return ""
	}
	styles := m.theme.Styles()
	if n.Kind == state.NoticeError {
		return styles.DangerText.Render("✗ " + n.Message)
	}
	return styles.SuccessText.Render("✓ " + n.Message)
}

// renderGallery renders the pane under the header: a loading line, an error
// panel, the empty state, or one card per image.
func (m Model) renderGallery() string {
	snap := m.snapshot
	styles := m.theme.Styles()

	switch {
	case snap.Failed():
		return m.renderPanel(snap.Panel)
	case !snap.Loaded:
		return styles.MutedText.Render(m.spinner.View() + " Loading gallery...")
	case len(snap.Images) == 0:
		return m.renderEmpty()
	}

	cards := make([]string, 0, len(snap.Images))
	for i, img := range snap.Images {
		cards = append(cards, m.renderCard(img, i == m.selected))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) renderCard(img gallery.ImageRecord, selected bool) string {
	styles := m.theme.Styles()
	width := m.cardWidth()
	inner := width - 4

	name := styles.Text.Bold(true).Render(truncate(img.FileName(), inner))
	if selected {
		name = styles.AccentText.Bold(true).Render(truncate(img.FileName(), inner))
	}

	ctl := m.controls[img.PublicID]
	label, disabled := "Delete", false
	if ctl != nil {
		label, disabled = ctl.Label(), ctl.Disabled()
	}
	button := styles.Button.Render(label)
	if disabled {
		button = styles.ButtonDisabled.Render(label)
	}

	date := styles.FaintText.Render("Uploaded " + formatDate(img))
	gap := max(inner-lipgloss.Width(date)-lipgloss.Width(button), 1)

	lines := []string{
		name,
		styles.MutedText.Render(truncate(img.PublicID, inner)),
		styles.FaintText.Render(truncateMiddle(img.SecureURL, inner)),
		date + strings.Repeat(" ", gap) + button,
	}

	box := styles.Card
	if selected {
		box = styles.CardFocus
	}
	return box.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderEmpty() string {
	styles := m.theme.Styles()
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.Text.Bold(true).Render("No Images Yet"),
		"",
		styles.MutedText.Render("Upload some images to get started!"),
	)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderPanel(panel state.ErrorPanel) string {
	styles := m.theme.Styles()
	lines := []string{styles.DangerText.Render(panel.Title), ""}
	for _, d := range panel.Detail {
		lines = append(lines, styles.Text.Render(d))
	}
	if panel.Retry != "" {
		lines = append(lines, "", styles.WarningText.Render("<r>")+" "+styles.AccentText.Render(panel.Retry))
	}
	box := styles.Panel.Width(min(m.cardWidth(), 72)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, box)
}

func formatDate(img gallery.ImageRecord) string {
	t := img.ParsedCreatedAt()
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

func formatPeriod(d time.Duration) string {
	secs := int(d.Seconds())
	if secs%60 == 0 && secs >= 60 {
		return fmt.Sprintf("%dm", secs/60)
	}
	return fmt.Sprintf("%ds", secs)
}

// bar paints header segments and the gaps between them on one background.
// Each lipgloss Render ends with a reset, so gaps need their own styling.
type bar struct {
	bg lipgloss.Color
}

func newBar(color string) bar {
	return bar{bg: lipgloss.Color(color)}
}

func (b bar) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	return style.Background(b.bg).Render(text)
}

func (b bar) Space() string {
	return b.gap(" ")
}

func (b bar) Join(parts []string, sep string) string {
	return strings.Join(parts, b.gap(sep))
}

func (b bar) gap(s string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(s)
}
