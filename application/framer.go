package application

import "livetiming/domain/packet"

// Framer turns an append-only byte stream into typed packets (spec.md
// §4.1). It is stateful across calls: partial headers/payloads are
// buffered internally and carried to the next Feed.
type Framer interface {
	// Feed appends b to the framer's internal buffer and returns every
	// packet that can now be fully decoded, in wire order.
	Feed(b []byte) ([]packet.Packet, error)
}
