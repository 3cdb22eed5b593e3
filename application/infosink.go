package application

// InfoSink receives user-visible notices that are not part of the car
// table or status line: COPYRIGHT/NOTICE packets, decryption-failure
// banners, and fatal errors (spec.md §7 "render via the info sink:
// popup when the TUI is up, stderr otherwise").
type InfoSink interface {
	Info(text string)
	Error(text string)
}
