package presentation

import (
	tea "github.com/charmbracelet/bubbletea"

	"livetiming/application"
	"livetiming/domain/model"
)

// Exit codes per spec.md §6.5.
const (
	ExitSuccess         = 0
	ExitSetupFailure    = 1
	ExitStreamFailure   = 2
	exitTerminalTooSmall = 10
)

// Program wraps the bubbletea program driving the car board, status
// line, and scrolling info panel off a shared StateModel.
type Program struct {
	tea   *tea.Program
	model *rootModel
}

// NewProgram returns a Program rendering state, forwarding gap/pause
// keypresses to the given callbacks and draining events for the info
// panel's 1-9 ring (spec.md §6.5).
func NewProgram(state *model.StateModel, events <-chan application.ViewEvent, adjustGap func(int64), setPaused func(bool)) *Program {
	m := newRootModel(state, keyActions{AdjustGap: adjustGap, SetPaused: setPaused}, events)
	return &Program{tea: tea.NewProgram(m, tea.WithAltScreen()), model: &m}
}

// Run blocks until the user quits or the terminal is too small,
// returning the process exit code (spec.md §6.5).
func (p *Program) Run() (int, error) {
	final, err := p.tea.Run()
	if err != nil {
		return ExitSetupFailure, err
	}
	if rm, ok := final.(rootModel); ok && rm.tooSmall {
		return exitTerminalTooSmall, nil
	}
	return ExitSuccess, nil
}
