package presentation

import "livetiming/application"

// chanSink implements application.InfoSink by forwarding notices into
// the channel the bubbletea program drains for its info panel (spec.md
// §7 "popup when the TUI is up").
type chanSink struct {
	events chan<- application.ViewEvent
}

// NewInfoSink returns an InfoSink feeding events, the channel also
// passed to NewProgram.
func NewInfoSink(events chan<- application.ViewEvent) application.InfoSink {
	return chanSink{events: events}
}

func (s chanSink) Info(text string) {
	s.events <- application.ViewEvent{Kind: application.ViewInfo, Text: text}
}

func (s chanSink) Error(text string) {
	s.events <- application.ViewEvent{Kind: application.ViewInfo, Text: "error: " + text}
}
