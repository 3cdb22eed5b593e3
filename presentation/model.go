package presentation

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"livetiming/application"
	"livetiming/domain/model"
)

const (
	minWidth  = 60
	minHeight = 12

	refreshInterval = 200 * time.Millisecond
)

// keyActions is the set of callbacks the TUI invokes for keys that
// mutate core state (spec.md §6.5's keybindings): the core stays in
// control of gap/pause semantics, presentation only forwards intent.
type keyActions struct {
	AdjustGap func(delta int64)
	SetPaused func(paused bool)
}

type rootModel struct {
	state   *model.StateModel
	actions keyActions
	events  <-chan application.ViewEvent

	board    table.Model
	info     viewport.Model
	infoRing [9][]string
	ringIdx  int

	width, height int
	tooSmall      bool
	quitting      bool
	exitCode      int
}

// tickMsg drives periodic redraws off the shared StateModel, which the
// core clock mutates on its own goroutine (spec.md §6.5's note that the
// teacher's bubbletea Update IS the tick handler; here it is a redraw
// handler, since state mutation lives in the core).
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForEvent(events <-chan application.ViewEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ev
	}
}

func newRootModel(state *model.StateModel, actions keyActions, events <-chan application.ViewEvent) rootModel {
	return rootModel{
		state:   state,
		actions: actions,
		events:  events,
		board:   newBoard(minWidth),
		info:    viewport.New(minWidth, 5),
	}
}

func (m rootModel) Init() tea.Cmd {
	return tea.Batch(tick(), waitForEvent(m.events))
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tooSmall = m.width < minWidth || m.height < minHeight
		if m.tooSmall {
			m.quitting = true
			m.exitCode = exitTerminalTooSmall
			return m, tea.Quit
		}
		m.board = newBoard(m.width)
		m.info.Width = m.width - 4
		m.info.Height = m.height - 8
		return m, nil

	case tickMsg:
		m.board.SetRows(boardRows(m.state))
		return m, tick()

	case application.ViewEvent:
		m = m.applyViewEvent(msg)
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m rootModel) applyViewEvent(ev application.ViewEvent) rootModel {
	switch ev.Kind {
	case application.ViewInfo, application.ViewCommentary:
		ring := &m.infoRing[m.ringIdx]
		*ring = append(*ring, ev.Text)
		m.info.SetContent(joinLines(*ring))
		m.info.GotoBottom()
	}
	return m
}

func (m rootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "enter", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up":
		m.info.LineUp(1)
	case "down":
		m.info.LineDown(1)
	case "i":
		m.actions.AdjustGap(1)
	case "k":
		m.actions.AdjustGap(-1)
	case "u":
		m.actions.AdjustGap(60)
	case "j":
		m.actions.AdjustGap(-60)
	case "0":
		old := m.state.TimeGap
		m.actions.AdjustGap(m.state.LastTimeGap - old)
		m.state.LastTimeGap = old
	case "p":
		m.state.Paused = !m.state.Paused
		m.actions.SetPaused(m.state.Paused)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.ringIdx = int(msg.String()[0] - '1')
		m.info.SetContent(joinLines(m.infoRing[m.ringIdx]))
		m.info.GotoBottom()
	}
	return m, nil
}

func (m rootModel) View() string {
	if m.tooSmall {
		return tooSmallStyle.Render("terminal too small\n")
	}

	status := m.statusLine()
	board := m.board.View()
	info := infoPanelStyle.Render(m.info.View())

	out := statusBarStyle.Width(m.width).Render(status) + "\n" + board + "\n" + info
	if m.state.DecryptionFailure {
		out += "\n" + decryptionFailureStyle.Render("decryption failure: check stream key")
	}
	return out
}

func (m rootModel) statusLine() string {
	flag := flagStyle(m.state.Flag).Render(flagLabel(m.state.Flag))
	paused := ""
	if m.state.Paused {
		paused = " [PAUSED]"
	}
	return fmt.Sprintf("%s  %s  lap %d/%d  gap %ds%s",
		m.state.EventType, flag, m.state.LapsCompleted, m.state.TotalLaps, m.state.TimeGap, paused)
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
