package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pitwall/paddock/internal/console"
	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
	"github.com/pitwall/paddock/internal/state"
)

// Column widths for the collection table. The notes column absorbs whatever
// width remains.
const (
	colID       = 6
	colCaptured = 22
	colEntity   = 16
	colStatus   = 10
)

// renderBrowse renders the recording collection table.
func (m Model) renderBrowse() string {
	styles := m.theme.Styles()
	contentHeight := maxInt(m.height-3, 3)

	visible := m.visibleLogs()

	if len(m.view.Logs) == 0 {
		hint := "No recordings yet. Press u to upload a .mcap file."
		if m.view.Busy(state.OpListing) || m.view.LastSynced.IsZero() {
			hint = "Waiting for mcapd..."
		}
		msg := styles.MutedText.Render(hint)
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if len(visible) == 0 {
		msg := styles.MutedText.Render(fmt.Sprintf("No records match %q. Press esc to clear the filter.", m.searchQuery))
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	lookups := m.controller.Lookups()

	var lines []string
	lines = append(lines, m.renderTableHeader())

	// Keep the selection visible when the collection is taller than the pane.
	rows := contentHeight - 1
	first := 0
	if m.selectedRow >= rows {
		first = m.selectedRow - rows + 1
	}

	for i := first; i < len(visible) && i-first < rows; i++ {
		record := visible[i]
		content := m.formatLogRow(record, lookups)
		if i == m.selectedRow {
			lines = append(lines, styles.Selected.Width(m.width).Render(content))
		} else {
			lines = append(lines, m.renderPlainRow(record, content))
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderTableHeader() string {
	styles := m.theme.Styles()
	header := padRight("ID", colID) +
		padRight("Captured", colCaptured) +
		padRight("Vehicle", colEntity) +
		padRight("Operator", colEntity) +
		padRight("Event", colEntity) +
		padRight("Recovery", colStatus) +
		padRight("Parse", colStatus) +
		"Notes"
	return styles.MutedText.Bold(true).Width(m.width).Render(header)
}

// formatLogRow builds the plain text content for one collection row.
func (m Model) formatLogRow(record mcapd.LogRecord, lookups *lookup.Cache) string {
	notesWidth := m.width - colID - colCaptured - 3*colEntity - 2*colStatus
	if notesWidth < 8 {
		notesWidth = 8
	}

	return padRight(fmt.Sprintf("#%d", record.ID), colID) +
		padRight(console.CapturedAtDisplay(record), colCaptured) +
		padRight(lookups.Name(lookup.Vehicles, record.Vehicle), colEntity) +
		padRight(lookups.Name(lookup.Operators, record.Operator), colEntity) +
		padRight(lookups.Name(lookup.EventTypes, record.EventType), colEntity) +
		padRight(titleCase(record.RecoveryStatus), colStatus) +
		padRight(titleCase(record.ParseStatus), colStatus) +
		truncate(record.Notes, notesWidth)
}

// renderPlainRow colors the status columns of a non-selected row in place.
func (m Model) renderPlainRow(record mcapd.LogRecord, content string) string {
	styles := m.theme.Styles()

	// Column offsets of the two status cells within the row.
	statusStart := colID + colCaptured + 3*colEntity
	runes := []rune(content)
	if len(runes) < statusStart+2*colStatus {
		return styles.Text.Width(m.width).Render(content)
	}

	prefix := string(runes[:statusStart])
	recovery := string(runes[statusStart : statusStart+colStatus])
	parse := string(runes[statusStart+colStatus : statusStart+2*colStatus])
	rest := string(runes[statusStart+2*colStatus:])

	line := styles.Text.Render(prefix) +
		styles.StatusStyle(strings.ToLower(record.RecoveryStatus)).Render(recovery) +
		styles.StatusStyle(strings.ToLower(record.ParseStatus)).Render(parse) +
		styles.Text.Render(rest)
	return line
}
