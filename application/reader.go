package application

import "livetiming/domain/packet"

// Reader owns the live input→encrypted pipeline: the pre-handler, the
// cipher-switch detector, and the commit of recovered keys (spec.md
// §4.6).
type Reader interface {
	// PreHandle runs pre_handle_packet: feeds the KeyReverser, dispatches
	// on packet kind, runs the cipher-switch detector, and decides
	// whether p is appended to the encrypted cache. fromFrame forces the
	// append regardless of outcome (spec.md §4.5 FRAME response).
	PreHandle(p *packet.Packet, fromFrame bool) error

	// WriteDecryptionKey overwrites the persisted USER_SYS_KEY slot if
	// (cipher, key) differs from what is already committed there.
	WriteDecryptionKey(key uint32, cipher int) error
}
