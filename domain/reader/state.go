// Package reader holds StateReader, the owner of connection/acquisition
// state (spec.md §3), grounded on original_source/src/live-f1.h's
// StateReader.
package reader

import "livetiming/domain/cache"

// Obtaining is the bitmask of in-flight/required HTTP acquisitions,
// grounded on original_source/src/live-f1.h's ObtainingStatus.
type Obtaining uint

const (
	ObtainingAuth      Obtaining = 1 << iota // credentials not yet validated
	ObtainingConnect                         // stream socket not yet open
	ObtainingFrame                           // key frame not yet replayed
	ObtainingKey                             // decryption key not yet known
	ObtainingTotalLaps                       // total lap count not yet known

	ObtainingAll = ObtainingAuth | ObtainingConnect | ObtainingFrame | ObtainingKey | ObtainingTotalLaps
)

// StopReason records why packet handling halted. The process exit code is
// not derived from it.
type StopReason int

const (
	StopNone StopReason = iota
	StopEOF
	StopBadAuth
	StopNoFeed
	StopCacheError
	StopSignal
)

// StateReader is the owner of connection/acquisition state: HTTP session
// plumbing, the acquisition bitmasks, and the raw/encrypted cache write
// cursors. Key-recovery state lives in infrastructure/keyreverser.
type StateReader struct {
	Username string
	Password string
	Host     string

	EventNo   int
	EventType int

	InputIter     cache.Iterator
	EncryptedIter cache.Iterator

	KeyIter cache.Iterator

	Obtaining Obtaining
	Pending   Obtaining

	StopReason StopReason

	SavingTime int64

	NewFrameNo   int
	NewEventNo   int
	NewEventType int

	CurrentCipherKey uint32
	ValidFrame       bool
}

// New returns a StateReader with every acquisition flagged outstanding,
// matching the reset state before AUTH/FRAME/KEY/TOTAL_LAPS succeed.
func New() *StateReader {
	return &StateReader{
		Obtaining: ObtainingAll,
		Pending:   0,
	}
}

// Require marks o as outstanding and not yet requested.
func (s *StateReader) Require(o Obtaining) {
	s.Obtaining |= o
	s.Pending &^= o
}

// Satisfy clears o from both the outstanding and pending sets, called once
// an HTTP round trip for o succeeds.
func (s *StateReader) Satisfy(o Obtaining) {
	s.Obtaining &^= o
	s.Pending &^= o
}

// MarkPending records that a request for o is in flight.
func (s *StateReader) MarkPending(o Obtaining) {
	s.Pending |= o
}

// Needs reports whether o is outstanding and not already in flight.
func (s *StateReader) Needs(o Obtaining) bool {
	return s.Obtaining&o != 0 && s.Pending&o == 0
}

// Done reports whether every required acquisition has been satisfied.
func (s *StateReader) Done() bool {
	return s.Obtaining == 0
}

// NewFrameNumber returns the highest SYS_KEY_FRAME frame number observed
// since the last EVENT_ID (spec.md §4.5 "frame number > last fetched").
func (s *StateReader) NewFrameNumber() int { return s.NewFrameNo }

// SetNewFrameNumber records a newly observed frame number.
func (s *StateReader) SetNewFrameNumber(n int) { s.NewFrameNo = n }
