package application

import (
	"context"

	"livetiming/domain/packet"
)

// Acquirer drives the out-of-band AUTH/FRAME/KEY/TOTAL_LAPS HTTP state
// machine of spec.md §4.5. Transitions are triggered by packets observed
// on the live stream; HTTP results feed back asynchronously.
type Acquirer interface {
	// Notify lets the Acquirer observe a packet already seen by the
	// Reader's pre-handler, so it can react to SYS_EVENT_ID/SYS_KEY_FRAME
	// per spec.md §4.5.
	Notify(p *packet.Packet)

	// Run launches every outstanding, not-yet-pending request it may
	// start and returns once those requests have finished; requirements
	// it did not launch stay outstanding for a later call. Safe to call
	// repeatedly from the tick loop; it is a no-op when nothing is
	// outstanding.
	Run(ctx context.Context) error

	// StopHandlingReason reports the subset of outstanding requirements
	// that block draining the input→encrypted pipeline (FRAME, KEY).
	StopHandlingReason() uint

	// SetReader wires the Reader the FRAME response is replayed through:
	// every packet framed out of the key-frame body is passed to
	// r.PreHandle with fromFrame=true (spec.md §4.5). Must be called once
	// before Run; Reader and Acquirer are mutually dependent, so this
	// breaks the construction cycle instead of the constructor taking it
	// directly.
	SetReader(r Reader)
}
