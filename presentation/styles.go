// Package presentation is the terminal rendering surface spec.md §1
// treats as an external collaborator given board/status/info
// primitives: a bubbletea program driven by StateModel, grounded on the
// teacher's own bubble_tea components (Selector/TextArea's
// Init/Update/View shape) and the rest of the pack's bubbles/lipgloss
// usage.
package presentation

import (
	"github.com/charmbracelet/lipgloss"

	"livetiming/domain/packet"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("15")).
			Padding(0, 1)

	infoPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	tooSmallStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	decryptionFailureStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)
)

// atomColourStyle maps a CarAtom's colour byte (spec.md §4.1, carried
// verbatim from the wire) to a lipgloss foreground.
func atomColourStyle(colour byte) lipgloss.Style {
	switch colour {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // personal best
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("13")) // session best
	case 3:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // slowing/pit
	default:
		return lipgloss.NewStyle()
	}
}

// flagStyle colours the status line for the current track flag.
func flagStyle(f packet.FlagStatus) lipgloss.Style {
	switch f {
	case packet.YellowFlag, packet.SafetyCarStandby, packet.SafetyCarDeployed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	case packet.RedFlag:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	}
}

func flagLabel(f packet.FlagStatus) string {
	switch f {
	case packet.GreenFlag:
		return "GREEN"
	case packet.YellowFlag:
		return "YELLOW"
	case packet.SafetyCarStandby:
		return "SC STANDBY"
	case packet.SafetyCarDeployed:
		return "SAFETY CAR"
	case packet.RedFlag:
		return "RED"
	default:
		return "-"
	}
}
