package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pitwall/paddock/internal/console"
	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/state"
)

// renderModal dispatches on the open modal variant.
func (m Model) renderModal() string {
	switch m.view.Modal.Kind {
	case state.ModalView:
		return m.renderViewModal()
	case state.ModalEdit:
		return m.renderEditModal()
	case state.ModalConfirmDelete:
		return m.renderConfirmModal()
	case state.ModalMap:
		return m.renderMapModal()
	case state.ModalSummary:
		return m.renderSummaryModal()
	}
	return m.renderMain()
}

// overlay centers modal content over the full screen.
func (m Model) overlay(content string, width int) string {
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

func (m Model) modalTitle(b *strings.Builder, title string, width int) {
	styles := m.theme.Styles()
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", width-6)))
	b.WriteString("\n\n")
}

// renderViewModal shows the full detail of the selected record.
func (m Model) renderViewModal() string {
	styles := m.theme.Styles()
	record := m.view.Selected
	if record == nil {
		return m.renderMain()
	}
	lookups := m.controller.Lookups()

	duration := "N/A"
	if record.DurationSeconds > 0 {
		duration = fmt.Sprintf("%.1fs", record.DurationSeconds)
	}

	fields := []struct{ label, value string }{
		{"ID", fmt.Sprintf("#%d", record.ID)},
		{"Captured", console.CapturedAtDisplay(*record)},
		{"Duration", duration},
		{"Channels", fmt.Sprintf("%d", record.ChannelCount)},
		{"Vehicle", lookups.Name(lookup.Vehicles, record.Vehicle)},
		{"Operator", lookups.Name(lookup.Operators, record.Operator)},
		{"Event type", lookups.Name(lookup.EventTypes, record.EventType)},
		{"Recovery", titleCase(record.RecoveryStatus)},
		{"Parse", titleCase(record.ParseStatus)},
		{"Location", orNA(record.RoughPoint)},
		{"Notes", orNA(record.Notes)},
	}

	const modalWidth = 60

	var b strings.Builder
	m.modalTitle(&b, fmt.Sprintf("Recording #%d", record.ID), modalWidth)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Muted)).
		Width(12)
	for _, f := range fields {
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString(styles.Text.Render(truncate(f.value, modalWidth-18)))
		b.WriteString("\n")
	}

	if len(record.Channels) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Channel summary"))
		b.WriteString("\n")
		for _, ch := range record.Channels {
			b.WriteString(styles.FaintText.Render("  " + truncate(ch, modalWidth-10)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("e: Edit  •  d: Download  •  Esc: Close"))

	return m.overlay(b.String(), modalWidth)
}

// renderEditModal shows the metadata edit form.
func (m Model) renderEditModal() string {
	styles := m.theme.Styles()

	const modalWidth = 56

	var b strings.Builder
	m.modalTitle(&b, fmt.Sprintf("Edit recording #%d", m.view.Modal.LogID), modalWidth)

	b.WriteString(styles.MutedText.Render("Entity fields take lookup ids. Blank clears the field."))
	b.WriteString("\n\n")

	labels := []string{"Vehicle:    ", "Operator:   ", "Event type: ", "Notes:      "}
	for i, label := range labels {
		if i == m.editFocusIdx {
			b.WriteString(styles.AccentText.Render(label))
		} else {
			b.WriteString(styles.MutedText.Render(label))
		}
		b.WriteString(m.editInputs[i].View())
		b.WriteString("\n\n")
	}

	mode := "merge (PATCH)"
	if m.replaceOnSave {
		mode = "replace (PUT)"
	}
	b.WriteString(styles.FaintText.Render("Save mode: " + mode))
	b.WriteString("\n")

	if m.view.LastError != "" {
		b.WriteString(styles.DangerText.Render(truncate(m.view.LastError, modalWidth-6)))
		b.WriteString("\n")
	}
	if m.view.Busy(state.OpSaving) {
		b.WriteString(styles.InfoText.Render("Saving..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))

	return m.overlay(b.String(), modalWidth)
}

// renderConfirmModal shows the delete confirmation.
func (m Model) renderConfirmModal() string {
	styles := m.theme.Styles()

	const modalWidth = 46

	var b strings.Builder
	m.modalTitle(&b, "Delete recording", modalWidth)

	b.WriteString(styles.Text.Render(fmt.Sprintf("Permanently delete recording #%d?", m.view.Modal.LogID)))
	b.WriteString("\n")
	b.WriteString(styles.WarningText.Render("The stored .mcap file is removed with it."))
	b.WriteString("\n\n")

	if m.view.Busy(state.OpDeleting) {
		b.WriteString(styles.InfoText.Render("Deleting..."))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.FaintText.Render("y/Enter: Delete  •  n/Esc: Cancel"))

	return m.overlay(b.String(), modalWidth)
}

// summaryExtent returns the inner width and height of the summary viewport.
func (m Model) summaryExtent() (int, int) {
	width := minInt(maxInt(m.width-10, 40), 76)
	height := maxInt(minInt(m.height-12, 30), 6)
	return width - 6, height
}

// summaryContent pretty-prints the parse summary payload for the viewport.
func summaryContent(raw []byte) string {
	if len(raw) == 0 {
		return "No summary returned."
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return string(raw)
	}
	return pretty.String()
}

// renderSummaryModal shows the collection parse summary in a scrollable pane.
func (m Model) renderSummaryModal() string {
	styles := m.theme.Styles()

	modalWidth := minInt(maxInt(m.width-10, 40), 76)

	var b strings.Builder
	m.modalTitle(&b, "Parse summary", modalWidth)

	b.WriteString(m.summaryViewport.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("%3.0f%%  •  j/k: Scroll  •  Esc: Close",
		m.summaryViewport.ScrollPercent()*100)))

	return m.overlay(b.String(), modalWidth)
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
