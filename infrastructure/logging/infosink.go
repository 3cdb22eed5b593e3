package logging

import (
	"fmt"
	"os"
)

// StderrSink implements application.InfoSink for use before the TUI
// comes up (spec.md §7 "stderr otherwise") — setup-time notices and the
// bad-credentials message of spec.md §8a.
type StderrSink struct{}

func (StderrSink) Info(text string) {
	fmt.Fprintln(os.Stderr, text)
}

func (StderrSink) Error(text string) {
	fmt.Fprintln(os.Stderr, text)
}
