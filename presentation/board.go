package presentation

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"livetiming/domain/packet"
	"livetiming/domain/model"
)

// newBoard builds the car table columns for a terminal of the given
// width (spec.md §4.8 "grow car arrays ... redraw board"); the column set
// is the same for every event type, a fixed best-effort projection of the atom slots common to
// all three event types, since spec.md leaves board layout to the
// presentation collaborator.
func newBoard(width int) table.Model {
	columns := []table.Column{
		{Title: "Pos", Width: 4},
		{Title: "No.", Width: 4},
		{Title: "Driver", Width: 18},
		{Title: "Gap/Time", Width: 12},
		{Title: "Info", Width: width - 42},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
	)
	return t
}

// boardRows projects m's car table into table.Row values ordered by
// position, skipping cars with no assigned position yet (position 0).
func boardRows(m *model.StateModel) []table.Row {
	rows := make([]table.Row, 0, m.NumCars)
	for pos := 1; pos <= m.NumCars; pos++ {
		car := carAtPosition(m, pos)
		if car == 0 {
			continue
		}
		number := m.Atom(car, packet.NumberAtomSlot)
		var driver, info string
		if len(m.CarInfo[car-1]) > packet.NumberAtomSlot+1 {
			driver = m.CarInfo[car-1][packet.NumberAtomSlot+1].String()
		}
		info = fmt.Sprintf("car %d", car)
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", pos),
			number.String(),
			driver,
			"",
			info,
		})
	}
	return rows
}

func carAtPosition(m *model.StateModel, pos int) int {
	for car, p := range m.CarPosition {
		if p == pos {
			return car + 1
		}
	}
	return 0
}
