// Package packetcache implements application.PacketCache: the chunked,
// file-backed packet log of spec.md §4.4, grounded on
// original_source/src/packetcache.c/.h.
package packetcache

import (
	"encoding/binary"

	"livetiming/domain/packet"
)

// Signature is the magic header written at offset 0 of a cache file,
// zero-padded to RecordSize (spec.md §6 "packet cache file").
const Signature = "live-f1 version 2012.0 timing"

// RecordSize is the fixed on-disk size of one Packet record: four
// int32 header fields, one int64 timestamp, a 128-byte payload
// (spec.md §6's packed layout).
const RecordSize = 4*4 + 8 + packet.PayloadCap

// ChunkSize is the number of packets held per in-memory/on-disk chunk
// (original_source/src/packetcache.c's packet_chunk_size).
const ChunkSize = 1024

// MinUnusedChunks is the number of otherwise-unreferenced chunks kept
// resident before the LRU evicts the oldest (packetcache.c's
// min_chunks_cache_size).
const MinUnusedChunks = 4

func encodeRecord(p *packet.Packet, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(int32(p.Car)))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(int32(p.Type)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(int32(p.Data)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(int32(p.Len)))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(p.At))
	copy(buf[24:24+packet.PayloadCap], p.Payload[:])
}

func decodeRecord(buf []byte) packet.Packet {
	var p packet.Packet
	p.Car = int(int32(binary.LittleEndian.Uint32(buf[0:4])))
	p.Type = int(int32(binary.LittleEndian.Uint32(buf[4:8])))
	p.Data = int(int32(binary.LittleEndian.Uint32(buf[8:12])))
	p.Len = int(int32(binary.LittleEndian.Uint32(buf[12:16])))
	p.At = int64(binary.LittleEndian.Uint64(buf[16:24]))
	copy(p.Payload[:], buf[24:24+packet.PayloadCap])
	return p
}

func signatureBlock() []byte {
	b := make([]byte, RecordSize)
	copy(b, Signature)
	return b
}
