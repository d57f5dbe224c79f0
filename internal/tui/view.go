package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/triage/internal/tui/styles"
)

// fixed rows used by the title, status bar, prompt and help bar
const chromeHeight = 8

// View renders the console
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("triage"))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.renderReady(), " ", m.renderActivity())
	b.WriteString(panels)
	b.WriteString("\n")

	b.WriteString(m.renderHistory(lipgloss.Height(panels)))
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderStatusBar() string {
	st := m.engine.Status()
	text := fmt.Sprintf("ready %d  blocked %d  resolved %d  placeholders %d  total %d",
		st.Ready, st.Blocked, st.Resolved, st.Placeholders, st.Total)
	return styles.StatusBar.Width(max(m.width-2, 0)).Render(text)
}

// panelWidth splits the terminal between the two bordered panels and the
// single space that separates them.
func (m Model) panelWidth() int {
	return max((m.width-1)/2-styles.ContentBox.GetHorizontalBorderSize(), 20)
}

// panelText is the width left for text inside a ContentBox panel.
func (m Model) panelText() int {
	return m.panelWidth() - styles.ContentBox.GetHorizontalPadding()
}

// truncate cuts s to width terminal columns, keeping any styling intact.
func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func (m Model) renderReady() string {
	ready := m.engine.Ready()

	var b strings.Builder
	b.WriteString(styles.Primary.Bold(true).Render("Ready"))
	if len(ready) == 0 {
		b.WriteString("\n" + styles.Subtitle.Render("nothing ready"))
	}
	for i, t := range ready {
		if i == m.opts.PreviewSize {
			b.WriteString("\n" + styles.Muted.Render(fmt.Sprintf("… %d more", len(ready)-i)))
			break
		}
		icon := lipgloss.NewStyle().Foreground(styles.StateColor(string(t.State))).Render(styles.StateIcon(string(t.State)))
		row := fmt.Sprintf("%s %s %s", icon, t.ID, styles.Muted.Render(fmt.Sprintf("(%d)", t.Urgency)))
		b.WriteString("\n" + truncate(row, m.panelText()))
	}
	return styles.ContentBox.Width(m.panelWidth()).Render(b.String())
}

func (m Model) renderActivity() string {
	var b strings.Builder
	b.WriteString(styles.Primary.Bold(true).Render("Activity"))
	lines := m.activity.recent()
	if len(lines) == 0 {
		b.WriteString("\n" + styles.Subtitle.Render("no events yet"))
	}
	for _, line := range lines {
		b.WriteString("\n" + truncate(line, m.panelText()))
	}
	return styles.ContentBox.Width(m.panelWidth()).Render(b.String())
}

// renderHistory shows as many recent output lines as fit below the panels.
// Lines are cut to the terminal width so none of them wraps.
func (m Model) renderHistory(panelHeight int) string {
	room := m.height - chromeHeight - panelHeight
	if room <= 0 || len(m.history) == 0 {
		return ""
	}
	lines := m.history
	if len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(truncate(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	keyStyle := styles.HelpKey
	return styles.HelpBar.Render(
		keyStyle.Render("enter") + " run  " +
			keyStyle.Render("↑/↓") + " history  " +
			keyStyle.Render("help") + " commands  " +
			keyStyle.Render("esc") + " quit",
	)
}
