// Package cache holds the value types and sentinel errors shared between
// the PacketCache implementation and its callers: the packet iterator
// handle and the closed error set of spec.md §4.4, grounded on
// original_source/src/packetcache.h's PacketIterator and
// PACKETCACHE_ERR_* constants.
package cache

import "errors"

// Sentinel errors matching the closed result set of spec.md §4.4. Callers
// match with errors.Is; wrapped forms carry additional context.
var (
	// ErrFile indicates an I/O failure against the backing file.
	ErrFile = errors.New("packetcache: file operation failed")
	// ErrVersion indicates the backing file's signature does not match.
	ErrVersion = errors.New("packetcache: version signature mismatch")
	// ErrNoMem indicates a chunk could not be allocated.
	ErrNoMem = errors.New("packetcache: out of memory")
	// ErrOverflow indicates a size computation overflowed.
	ErrOverflow = errors.New("packetcache: overflow")
	// ErrHandle indicates an iterator/cache handle was invalid (CNUM).
	ErrHandle = errors.New("packetcache: bad handle")
)

// Iterator points at a packet inside a cache: a chunk index and a position
// within that chunk. The zero Iterator points at the first packet of the
// cache, the same position ToStart sets.
type Iterator struct {
	Index int
	Pos   int
}
