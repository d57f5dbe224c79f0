// Package config provides the interactive editor behind `triage config edit`.
//
// Every change is applied to viper, checked with config.Load, and only then
// written to the config file. A value the validator rejects is rolled back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

type fieldKind int

const (
	kindBool fieldKind = iota
	kindInt
	kindString
	kindChoice
)

// field is one editable setting
type field struct {
	section string
	key     string
	label   string
	help    string
	kind    fieldKind
	choices []string
	def     func(*config.Config) any
}

func settings() []field {
	return []field{
		{section: "Scheduler", key: "scheduler.promote_placeholders", label: "Promote Placeholders", kind: kindBool,
			help: "Let add upgrade a task first named only as a dependency",
			def:  func(c *config.Config) any { return c.Scheduler.PromotePlaceholders }},
		{section: "Output", key: "output.format", label: "Format", kind: kindChoice, choices: config.ValidOutputFormats(),
			help: "Output format for run and plan",
			def:  func(c *config.Config) any { return c.Output.Format }},
		{section: "Output", key: "output.color", label: "Color", kind: kindBool,
			help: "Style text output with colors",
			def:  func(c *config.Config) any { return c.Output.Color }},
		{section: "Logging", key: "logging.enabled", label: "Enabled", kind: kindBool,
			help: "Write structured logs",
			def:  func(c *config.Config) any { return c.Logging.Enabled }},
		{section: "Logging", key: "logging.level", label: "Level", kind: kindChoice, choices: config.ValidLogLevels(),
			help: "Minimum log level",
			def:  func(c *config.Config) any { return c.Logging.Level }},
		{section: "Logging", key: "logging.dir", label: "Directory", kind: kindString,
			help: "Directory for triage.log (empty logs to stderr)",
			def:  func(c *config.Config) any { return c.Logging.Dir }},
		{section: "Logging", key: "logging.max_size_mb", label: "Max Size (MB)", kind: kindInt,
			help: "Rotate the log file at this size (1-1000)",
			def:  func(c *config.Config) any { return c.Logging.MaxSizeMB }},
		{section: "Logging", key: "logging.max_backups", label: "Max Backups", kind: kindInt,
			help: "Rotated log files to keep",
			def:  func(c *config.Config) any { return c.Logging.MaxBackups }},
		{section: "Watch", key: "watch.debounce_ms", label: "Debounce (ms)", kind: kindInt,
			help: "Wait this long after the last change before re-running (10-60000)",
			def:  func(c *config.Config) any { return c.Watch.DebounceMs }},
		{section: "TUI", key: "tui.preview_size", label: "Ready Preview", kind: kindInt,
			help: "Ready tasks listed in the console (1-100)",
			def:  func(c *config.Config) any { return c.TUI.PreviewSize }},
		{section: "TUI", key: "tui.history_size", label: "History Size", kind: kindInt,
			help: "Output lines the console keeps (at least 10)",
			def:  func(c *config.Config) any { return c.TUI.HistorySize }},
	}
}

// Model is the Bubbletea model for the settings editor
type Model struct {
	fields  []field
	cursor  int
	editing bool
	input   textinput.Model
	choice  int

	status string
	err    string

	width    int
	height   int
	path     string
	quitting bool
}

// NewWithFile creates an editor that saves to path
func NewWithFile(path string) Model {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		fields: settings(),
		input:  ti,
		path:   path,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		m.status, m.err = "", ""
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.cursor = (m.cursor - 1 + len(m.fields)) % len(m.fields)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(m.fields)
	case "tab":
		m.cursor = m.sectionStart(1)
	case "shift+tab":
		m.cursor = m.sectionStart(-1)
	case "r":
		f := m.current()
		if m.commit(f, f.def(config.Default())) {
			m.status = fmt.Sprintf("Reset %s to default", f.label)
		}
	case "enter", " ":
		f := m.current()
		switch f.kind {
		case kindBool:
			m.commit(f, !viper.GetBool(f.key))
		case kindChoice:
			m.choice = max(slices.Index(f.choices, strings.ToLower(viper.GetString(f.key))), 0)
			m.editing = true
		default:
			m.input.SetValue(m.display(f))
			m.input.CursorEnd()
			m.editing = true
			cmd := m.input.Focus()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.current()

	if msg.String() == "esc" {
		m.stopEditing()
		return m, nil
	}

	if f.kind == kindChoice {
		switch msg.String() {
		case "up", "k":
			m.choice = (m.choice - 1 + len(f.choices)) % len(f.choices)
		case "down", "j":
			m.choice = (m.choice + 1) % len(f.choices)
		case "enter":
			if m.commit(f, f.choices[m.choice]) {
				m.stopEditing()
			}
		}
		return m, nil
	}

	if msg.String() != "enter" {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	value, err := parseValue(f, m.input.Value())
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	if m.commit(f, value) {
		m.stopEditing()
	}
	return m, nil
}

func (m *Model) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.SetValue("")
}

// sectionStart returns the index of the first field in the section dir steps
// away from the current one, wrapping at either end.
func (m Model) sectionStart(dir int) int {
	var starts []int
	for i, f := range m.fields {
		if i == 0 || f.section != m.fields[i-1].section {
			starts = append(starts, i)
		}
	}
	at := 0
	for i, s := range starts {
		if s <= m.cursor {
			at = i
		}
	}
	return starts[(at+dir+len(starts))%len(starts)]
}

func (m Model) current() field {
	return m.fields[m.cursor]
}

func (m Model) display(f field) string {
	switch f.kind {
	case kindBool:
		return strconv.FormatBool(viper.GetBool(f.key))
	case kindInt:
		return strconv.Itoa(viper.GetInt(f.key))
	default:
		return viper.GetString(f.key)
	}
}

func parseValue(f field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f.kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: expected a whole number (got: %q)", f.key, raw)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: expected true or false (got: %q)", f.key, raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

// commit applies value to f, validates the result and writes the config
// file. A rejected or unwritable value leaves viper as it was.
func (m *Model) commit(f field, value any) bool {
	prev := viper.Get(f.key)
	viper.Set(f.key, value)

	err := fieldError(f.key)
	if err == nil {
		err = m.write()
	}
	if err != nil {
		viper.Set(f.key, prev)
		m.err = err.Error()
		return false
	}

	m.status = fmt.Sprintf("Saved %s", f.label)
	return true
}

// fieldError reports why the current settings fail to load because of key.
// Failures on other keys were already present and do not block the edit.
func fieldError(key string) error {
	_, err := config.Load()
	if err == nil {
		return nil
	}
	var invalid config.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	if v, ok := invalid.For(key); ok {
		return v
	}
	return nil
}

func (m Model) write() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("triage configuration"))
	b.WriteString("\n")

	path := viper.ConfigFileUsed()
	if path == "" {
		path = m.path
		if _, err := os.Stat(path); err != nil {
			path += " (not created)"
		}
	}
	b.WriteString(styles.Muted.Render("Config file: " + path))
	b.WriteString("\n")

	active := m.current().section
	for i, f := range m.fields {
		if i == 0 || f.section != m.fields[i-1].section {
			heading := styles.Muted.Bold(true)
			if f.section == active {
				heading = styles.Primary.Bold(true)
			}
			b.WriteString("\n" + heading.Render(f.section) + "\n")
		}
		b.WriteString(m.renderField(f, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.renderEditor())
	} else {
		b.WriteString(styles.Subtitle.Render(m.current().help))
	}
	b.WriteString("\n")

	switch {
	case m.err != "":
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.err))
	case m.status != "":
		b.WriteString(styles.SuccessMsg.Render(m.status))
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderField(f field, selected bool) string {
	label := fmt.Sprintf("%-22s", f.label)
	if selected {
		return styles.Secondary.Render(" ▸ ") + styles.Text.Bold(true).Render(label) + styles.Primary.Render(m.display(f))
	}
	return "   " + styles.Muted.Render(label) + styles.Text.Render(m.display(f))
}

func (m Model) renderEditor() string {
	f := m.current()
	box := styles.ContentBox.BorderForeground(styles.PrimaryColor).Width(min(50, max(m.width-4, 20)))

	lines := []string{styles.Text.Bold(true).Render(f.label)}
	if f.kind == kindChoice {
		for i, c := range f.choices {
			if i == m.choice {
				lines = append(lines, styles.Primary.Render("▸ "+c))
			} else {
				lines = append(lines, "  "+c)
			}
		}
	} else {
		lines = append(lines, m.input.View())
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderHelp() string {
	key := styles.HelpKey.Render
	if m.editing {
		return styles.HelpBar.Render(key("enter") + " apply  " + key("esc") + " cancel")
	}
	return styles.HelpBar.Render(
		key("↑/↓") + " move  " + key("tab") + " section  " + key("enter") + " change  " +
			key("r") + " default  " + key("q") + " quit",
	)
}

// Run opens the editor on path and blocks until the user quits
func Run(path string) error {
	_, err := tea.NewProgram(NewWithFile(path), tea.WithAltScreen()).Run()
	return err
}
