package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/triage/internal/config"
)

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults()

	path := filepath.Join(t.TempDir(), "triage", "config.yaml")
	return NewWithFile(path), path
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// editField moves to key, replaces its text with value and presses enter.
func editField(t *testing.T, m Model, key, value string) Model {
	t.Helper()
	m.cursor = slices.IndexFunc(m.fields, func(f field) bool { return f.key == key })
	if m.cursor < 0 {
		t.Fatalf("no field %q", key)
	}
	m = press(m, "enter")
	if !m.editing {
		t.Fatalf("enter on %s should start editing", key)
	}
	m.input.SetValue("")
	m = press(m, value)
	return press(m, "enter")
}

// reload reads path into a fresh viper the way the CLI does at startup.
func reload(t *testing.T, path string) (*config.Config, error) {
	t.Helper()
	viper.Reset()
	config.SetDefaults()
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	return config.Load()
}

func TestNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "down")
	if got := m.current().key; got != "output.format" {
		t.Errorf("after down: %s, want output.format", got)
	}

	m = press(m, "up")
	if m.cursor != 0 {
		t.Errorf("after up: cursor %d, want 0", m.cursor)
	}

	m = press(m, "up")
	if m.cursor != len(m.fields)-1 {
		t.Errorf("up from top should wrap to the last field, got %d", m.cursor)
	}

	m = press(m, "tab")
	if m.cursor != 0 {
		t.Errorf("tab from last section = %d, want 0", m.cursor)
	}

	m = press(m, "tab")
	m = press(m, "tab")
	if got := m.current().section; got != "Logging" {
		t.Errorf("two tabs from Scheduler = %s, want Logging", got)
	}
}

func TestToggleBoolSaves(t *testing.T) {
	m, path := newTestModel(t)

	m = press(m, "enter") // scheduler.promote_placeholders
	if !viper.GetBool("scheduler.promote_placeholders") {
		t.Error("enter should toggle the bool to true")
	}
	if m.err != "" {
		t.Fatalf("err = %q", m.err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "promote_placeholders: true") {
		t.Errorf("config file missing toggled value:\n%s", data)
	}
}

func TestSelectOption(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "tab") // Output
	m = press(m, "enter")
	if !m.editing {
		t.Fatal("enter on a select item should start editing")
	}
	m = press(m, "down")
	m = press(m, "enter")

	if got := viper.GetString("output.format"); got != "json" {
		t.Errorf("output.format = %q, want json", got)
	}
	if m.editing {
		t.Error("editing should end after confirming")
	}
}

func TestEditIntValidation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "tab")
	m = press(m, "tab")
	m = press(m, "tab") // Watch
	m = press(m, "enter")
	for i := 0; i < 3; i++ {
		m = press(m, "backspace")
	}
	m = press(m, "abc")
	m = press(m, "enter")

	if m.err == "" {
		t.Error("non-integer input should set an error")
	}
	if !m.editing {
		t.Error("invalid input should keep the editor open")
	}

	m = press(m, "esc")
	if m.editing {
		t.Error("esc should close the editor")
	}
	if got := viper.GetInt("watch.debounce_ms"); got != 200 {
		t.Errorf("watch.debounce_ms = %d, want unchanged 200", got)
	}
}

func TestResetToDefault(t *testing.T) {
	m, _ := newTestModel(t)
	viper.Set("scheduler.promote_placeholders", true)

	m = press(m, "r")
	if viper.GetBool("scheduler.promote_placeholders") {
		t.Error("r should reset the value to its default")
	}
	if !strings.Contains(m.status, "Reset") {
		t.Errorf("status = %q, want reset notice", m.status)
	}
}

func TestEditRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"logging.max_size_mb", "0", "must be positive"},
		{"logging.max_size_mb", "1001", "exceeds maximum"},
		{"logging.max_backups", "-1", "must be non-negative"},
		{"watch.debounce_ms", "5", "at least 10"},
		{"watch.debounce_ms", "60001", "at most 60000"},
		{"tui.preview_size", "0", "between 1 and 100"},
		{"tui.history_size", "3", "at least 10"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			m, path := newTestModel(t)
			before := viper.GetInt(tt.key)

			// A valid edit first so the file exists on disk.
			m = press(m, "enter")
			if m.err != "" {
				t.Fatalf("toggle: %s", m.err)
			}

			m = editField(t, m, tt.key, tt.value)
			if !strings.Contains(m.err, tt.want) {
				t.Errorf("err = %q, want it to mention %q", m.err, tt.want)
			}
			if !m.editing {
				t.Error("a rejected value should keep the editor open")
			}
			if got := viper.GetInt(tt.key); got != before {
				t.Errorf("%s = %d after rejection, want %d", tt.key, got, before)
			}

			cfg, err := reload(t, path)
			if err != nil {
				t.Fatalf("config written by the editor no longer loads: %v", err)
			}
			if !cfg.Scheduler.PromotePlaceholders {
				t.Error("earlier valid edit was lost")
			}
		})
	}
}

func TestEditAcceptsInRange(t *testing.T) {
	m, path := newTestModel(t)

	m = editField(t, m, "watch.debounce_ms", "750")
	if m.err != "" {
		t.Fatalf("err = %q", m.err)
	}
	if m.editing {
		t.Error("an accepted value should close the editor")
	}
	if !strings.Contains(m.status, "Saved") {
		t.Errorf("status = %q, want save notice", m.status)
	}

	cfg, err := reload(t, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Watch.DebounceMs != 750 {
		t.Errorf("DebounceMs = %d, want 750", cfg.Watch.DebounceMs)
	}
}

func TestEditIgnoresUnrelatedFailures(t *testing.T) {
	m, _ := newTestModel(t)
	viper.Set("tui.preview_size", 0)

	m = editField(t, m, "watch.debounce_ms", "300")
	if m.err != "" {
		t.Errorf("edit blocked by another key: %q", m.err)
	}
	if got := viper.GetInt("watch.debounce_ms"); got != 300 {
		t.Errorf("watch.debounce_ms = %d, want 300", got)
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)

	if got := m.View(); got != "Loading..." {
		t.Errorf("View() before size = %q, want Loading...", got)
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := updated.(Model).View()
	for _, want := range []string{"Scheduler", "Promote Placeholders", "Debounce (ms)", "not created"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	quit := press(updated.(Model), "q")
	if quit.View() != "" {
		t.Error("View() after quit should be empty")
	}
}
