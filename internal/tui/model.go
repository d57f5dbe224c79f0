package tui

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/triage/internal/event"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/scheduler"
	"github.com/Iron-Ham/triage/internal/script"
	"github.com/Iron-Ham/triage/internal/tui/styles"
)

// Options configures the console.
type Options struct {
	// PreviewSize is how many ready tasks are listed.
	PreviewSize int
	// HistorySize is how many output lines are kept.
	HistorySize int
	// Color enables lipgloss styling of command output.
	Color bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{PreviewSize: 10, HistorySize: 200, Color: true}
}

// Model is the Bubbletea model for the interactive scheduler console.
// Each line typed at the prompt is parsed as a script command and run
// against a live scheduler.
type Model struct {
	engine   *scheduler.EventScheduler
	runner   *script.Runner
	out      *bytes.Buffer
	activity *activityLog
	logger   *logging.Logger

	input    textinput.Model
	history  []string // output lines, oldest first
	recall   []string // previously entered commands
	recallAt int

	opts     Options
	width    int
	height   int
	errorMsg string
	quitting bool
}

// NewModel creates a console over engine. Scheduler events published on bus
// feed the activity panel.
func NewModel(engine *scheduler.EventScheduler, bus *event.Bus, opts Options, logger *logging.Logger) Model {
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = DefaultOptions().PreviewSize
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultOptions().HistorySize
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "add <id> <urgency> [dep ...]"
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 256
	ti.Width = 60
	ti.Focus()

	out := &bytes.Buffer{}
	activity := newActivityLog(opts.PreviewSize)
	bus.SubscribeAll(activity.handle)

	return Model{
		engine:   engine,
		runner:   script.NewRunner(engine, script.NewTextOutput(out, opts.Color), logger),
		out:      out,
		activity: activity,
		logger:   logger.WithComponent("tui"),
		input:    ti,
		opts:     opts,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if line == "" {
			return m, nil
		}
		m.recall = append(m.recall, line)
		m.recallAt = len(m.recall)
		return m.executeCommand(line)

	case tea.KeyUp:
		if m.recallAt > 0 {
			m.recallAt--
			m.input.SetValue(m.recall[m.recallAt])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.recallAt < len(m.recall)-1 {
			m.recallAt++
			m.input.SetValue(m.recall[m.recallAt])
			m.input.CursorEnd()
		} else {
			m.recallAt = len(m.recall)
			m.input.SetValue("")
		}
		return m, nil
	}

	m.errorMsg = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// executeCommand runs one console line.
func (m Model) executeCommand(line string) (tea.Model, tea.Cmd) {
	m.errorMsg = ""

	switch strings.ToLower(line) {
	case "quit", "exit", "q":
		m.quitting = true
		return m, tea.Quit
	case "clear":
		m.history = nil
		return m, nil
	case "help", "?":
		m.appendHistory("> " + line)
		m.appendHistory(helpText...)
		return m, nil
	}

	cmd, ok, err := script.ParseLine(line)
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	if !ok {
		return m, nil
	}

	m.appendHistory("> " + cmd.Raw)
	m.out.Reset()
	if err := m.runner.Exec(cmd); err != nil {
		m.logger.Warn("command failed", "command", cmd.Raw, "error", err)
		m.errorMsg = err.Error()
	}
	if out := strings.TrimRight(m.out.String(), "\n"); out != "" {
		m.appendHistory(strings.Split(out, "\n")...)
	}
	return m, nil
}

func (m *Model) appendHistory(lines ...string) {
	m.history = append(m.history, lines...)
	if over := len(m.history) - m.opts.HistorySize; over > 0 {
		m.history = m.history[over:]
	}
}

var helpText = []string{
	"  add <id> <urgency> [dep ...]   register a task",
	"  update <id> <urgency>          change a task's urgency",
	"  resolve                        resolve the most urgent ready task",
	"  drain                          resolve until nothing is ready",
	"  status [glob]                  counts and ready tasks",
	"  stalled [glob]                 blocked tasks and cycles",
	"  clear | help | quit",
}
