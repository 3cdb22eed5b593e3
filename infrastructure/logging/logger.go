// Package logging implements application.Logger over the standard
// library logger, grounded on NLipatov-TunGo's
// infrastructure/logging.LogLogger.
package logging

import (
	"log"
	"os"

	"livetiming/application"
)

// Level is a verbosity threshold set by repeated -v flags (SPEC_FULL.md
// §9.1, a feature this spec's CLI adds over the teacher's single-level
// logger).
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

type stdLogger struct {
	level  Level
	target *log.Logger
}

// New returns a Logger writing to stderr at the given verbosity level.
func New(level Level) application.Logger {
	return &stdLogger{level: level, target: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *stdLogger) Printf(format string, v ...any) {
	l.target.Printf(format, v...)
}

// Debugf logs only when level is LevelDebug or higher. It is not part of
// application.Logger and has no callers; Printf is not level-gated.
func (l *stdLogger) Debugf(format string, v ...any) {
	if l.level >= LevelDebug {
		l.target.Printf(format, v...)
	}
}
