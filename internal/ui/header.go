package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pitwall/paddock/internal/state"
)

// busyLabels maps pending operations to what the status bar shows for them.
var busyLabels = []struct {
	op    state.Op
	label string
}{
	{state.OpListing, "Syncing"},
	{state.OpUploading, "Uploading"},
	{state.OpFetchingLog, "Fetching"},
	{state.OpSaving, "Saving"},
	{state.OpDeleting, "Deleting"},
	{state.OpFetchingGeometry, "Loading track"},
	{state.OpDownloading, "Downloading"},
	{state.OpFetchingSummary, "Summarizing"},
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string

	parts = append(parts, bg.Render("paddock", styles.Logo))

	parts = append(parts,
		bg.Render("Recordings:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.view.Logs)), styles.Text))

	if label := m.busyLabel(); label != "" {
		parts = append(parts, bg.Render(label+"...", styles.InfoText))
	}

	if m.view.DownloadingID != 0 {
		parts = append(parts,
			bg.Render(fmt.Sprintf("#%d", m.view.DownloadingID), styles.AccentText))
	}

	if !m.view.LastSynced.IsZero() {
		parts = append(parts,
			bg.Render("synced "+m.view.LastSynced.Format("15:04:05"), styles.MutedText))
	}

	if m.searchQuery != "" {
		parts = append(parts,
			bg.Render("/"+truncate(m.searchQuery, 24), styles.AccentText))
	}

	if m.view.LastError != "" {
		parts = append(parts,
			bg.Render(truncate(m.view.LastError, maxInt(m.width/2, 30)), styles.DangerText))
	}

	content := bg.Join(parts, sep)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// busyLabel returns the label for the first pending operation, if any.
func (m Model) busyLabel() string {
	for _, entry := range busyLabels {
		if m.view.Busy(entry.op) {
			return entry.label
		}
	}
	return ""
}

// renderCommandBar renders the second header line with key hints.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)

	hints := []struct{ key, label string }{
		{"u", "upload"},
		{"v", "view"},
		{"e", "edit"},
		{"x", "delete"},
		{"d", "download"},
		{"m", "map"},
		{"s", "summary"},
		{"r", "refresh"},
		{"/", "filter"},
		{"h", "help"},
		{"q", "quit"},
	}

	var parts []string
	for _, hint := range hints {
		parts = append(parts,
			bg.Render("<"+hint.key+">", styles.AccentText)+bg.Space()+
				bg.Render(hint.label, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Background)).
		Width(m.width).
		Render(bg.Join(parts, bg.Spaces(2)))
}

// renderMain renders the header, command bar, and collection table.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderBrowse())

	if m.searchActive {
		b.WriteString("\n")
		b.WriteString("/" + m.searchInput.View())
	} else if m.uploadActive {
		b.WriteString("\n")
		b.WriteString("Upload: " + m.uploadInput.View())
		if hint := uploadSizeHint(m.uploadInput.Value()); hint != "" {
			b.WriteString("  ")
			b.WriteString(m.theme.Styles().FaintText.Render(hint))
		}
	}

	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
