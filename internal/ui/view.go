package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderHeader renders the status bar: logo, server state and session count.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	snap := m.snapshot

	parts := []string{bg.Render("loopback", styles.Logo)}

	switch {
	case snap.Halted:
		parts = append(parts, bg.Render("● HALTED", styles.DangerText))
	case snap.Connected:
		parts = append(parts,
			bg.Render("● CONNECTED", styles.SuccessText),
			bg.Render(truncateMiddle(snap.Peer, 32), styles.Text))
	case snap.Listening != "":
		parts = append(parts,
			bg.Render("● LISTENING", styles.WarningText.Bold(true)),
			bg.Render(snap.Listening, styles.Text))
	default:
		parts = append(parts, bg.Render("● STARTING", styles.MutedText))
	}

	parts = append(parts,
		bg.Render("Sessions:", styles.MutedText)+bg.Spaces(1)+
			bg.Render(fmt.Sprintf("%d", snap.Sessions), styles.Text))

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderNetInfo renders the board's network identity on one line.
func (m Model) renderNetInfo() string {
	styles := m.theme.Styles()
	n := m.network
	fields := []struct{ label, value string }{
		{"MAC", strings.ToUpper(n.MAC)},
		{"IP", n.IP},
		{"SN", n.Subnet},
		{"GW", n.Gateway},
		{"DNS", n.DNS},
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		parts = append(parts, styles.FaintText.Render(f.label)+" "+styles.MutedText.Render(f.value))
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, "  "))
}

// renderPanel draws the mirrored LCD rows inside a bordered box.
func (m Model) renderPanel() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("LCD")
	if m.driver != "" {
		title += styles.FaintText.Render(" · " + m.driver)
	}

	body := strings.Join(m.rows, "\n")
	if len(m.rows) == 0 {
		body = styles.FaintText.Render("no panel attached")
	}

	panel := styles.Panel.Padding(0, 1)
	if m.snapshot.Connected {
		panel = panel.BorderForeground(lipgloss.Color(m.theme.BorderFocus))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, panel.Render(body)))
}

// renderStatus renders traffic counters and any render or transport error.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{
		styles.MutedText.Render("Chunks") + " " + styles.Text.Render(humanize.Comma(int64(snap.Chunks))),
		styles.MutedText.Render("Received") + " " + styles.Text.Render(humanize.Bytes(snap.Bytes)),
	}
	if snap.Chunks > 0 {
		parts = append(parts, styles.MutedText.Render("Last")+" "+styles.Text.Render(fmt.Sprintf("%q", snap.LastText)))
	}
	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render(humanize.Time(snap.LastUpdated)))
	}

	lines := []string{strings.Join(parts, "  ")}
	if snap.RenderError != nil {
		lines = append(lines, styles.WarningText.Render("Render error: "+snap.RenderError.Error()))
	}
	if snap.Halted {
		msg := "HALTED"
		if snap.HaltError != nil {
			msg += ": " + snap.HaltError.Error()
		}
		lines = append(lines, styles.DangerText.Render(msg))
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(8)
	for i, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(m.keys.FullHelp())-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Theme: " + m.theme.Name))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
