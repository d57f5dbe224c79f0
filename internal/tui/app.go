package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
}

// New creates a new TUI application around a console model
func New(model Model) *App {
	return &App{model: model}
}

// Run starts the TUI application and blocks until the user quits
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Quit cleanly on termination signals so the terminal is restored
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)
	program := a.program
	go quitOnSignal(sigChan, done, func() { program.Send(tea.Quit()) })

	_, err := a.program.Run()
	return err
}

// quitOnSignal calls quit when a signal arrives. It returns without quitting
// once done is closed.
func quitOnSignal(sigs <-chan os.Signal, done <-chan struct{}, quit func()) {
	select {
	case <-sigs:
		quit()
	case <-done:
	}
}
