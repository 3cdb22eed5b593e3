package application

import (
	"livetiming/domain/cache"
	"livetiming/domain/packet"
)

// PacketCache is the chunked, file-backed packet log of spec.md §4.4: a
// single push cursor, many independent read iterators, and a durable
// flush boundary.
type PacketCache interface {
	// Push appends p at the push cursor, zero-padding the payload beyond
	// p.Len, and advances the cursor.
	Push(p *packet.Packet) error

	// Get returns the packet at iter, or ok==false if iter is at or past
	// the push cursor.
	Get(iter cache.Iterator) (p packet.Packet, ok bool, err error)

	// Advance moves iter to the next packet, crossing chunk boundaries
	// and paging chunks in as needed.
	Advance(iter *cache.Iterator) error

	// ToStart resets iter to the first packet.
	ToStart(iter *cache.Iterator)

	// ToEnd resets iter to the current push cursor.
	ToEnd(iter *cache.Iterator)

	// Write overwrites the packet at iter in place. Permitted only for
	// the reserved USER_SYS_KEY slot (spec.md §4.4 invariant).
	Write(iter cache.Iterator, p *packet.Packet) error

	// SaveUnsaved flushes every packet between the durable-write cursor
	// and the push cursor, then advances the durable cursor.
	SaveUnsaved() error

	// Close closes the backing file.
	Close() error
}
