package application

import "livetiming/domain/packet"

// ModelUpdater consumes one due packet at a time from the model's cache
// iterator and mutates StateModel accordingly (spec.md §4.8). The Clock
// is responsible for time-gating which packets are due; ModelUpdater
// itself is unconditional per call.
type ModelUpdater interface {
	// Handle applies p to the model and returns the view events it
	// produced, in order.
	Handle(p *packet.Packet) ([]ViewEvent, error)
}

// ViewEventKind classifies a ViewEvent for a presentation layer that
// wants to dispatch without inspecting every field.
type ViewEventKind int

const (
	ViewRedrawCar ViewEventKind = iota
	ViewRedrawWeather
	ViewRedrawStatus
	ViewInfo
	ViewCommentary
)

// ViewEvent is an outward notification the ModelUpdater emits after
// mutating StateModel, consumed by the presentation layer (spec.md §1,
// "out of scope... the terminal rendering surface").
type ViewEvent struct {
	Kind ViewEventKind
	Car  int
	Text string
}
