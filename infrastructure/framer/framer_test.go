package framer

import (
	"math/rand"
	"reflect"
	"testing"

	"livetiming/domain/packet"
)

// encode serializes p using the same §4.1 table the framer decodes
// against; it exists only to build test fixtures.
func encode(p packet.Packet) []byte {
	byte0 := byte(p.Car & 0x1F)
	byte0 |= byte((p.Type & 7) << 5)
	byte1 := byte((p.Type >> 3) & 1)

	enc, ok := packet.EncodingFor(p.Car, p.Type)
	if !ok {
		enc = packet.EncodingMarker
	}

	var payload []byte
	switch enc {
	case packet.EncodingShort:
		nibble := byte(0xF)
		if p.Len != packet.HeaderOnlyLen {
			nibble = byte(p.Len)
		}
		byte1 |= nibble << 4
		byte1 |= byte((p.Data & 7) << 1)
		if p.Len > 0 {
			payload = p.Payload[:p.Len]
		}
	case packet.EncodingLong:
		byte1 |= byte(p.Len << 1)
		payload = p.Payload[:p.Len]
	case packet.EncodingSpecial:
		byte1 |= byte(p.Data << 1)
	case packet.EncodingFixed:
		payload = p.Payload[:2]
	case packet.EncodingMarker:
	}

	return append([]byte{byte0, byte1}, payload...)
}

func TestFramerRoundTrip(t *testing.T) {
	in := []packet.Packet{
		{Car: 0, Type: int(packet.SysValidMarker)},
		{Car: 3, Type: int(packet.CarPositionUpdate), Data: 5},
		{Car: 3, Type: int(packet.RaceNumber), Len: 2, Payload: fixedPayload("44")},
		{Car: 0, Type: int(packet.SysTimestamp), Len: 2, Payload: fixedPayload("ab")},
		{Car: 0, Type: int(packet.SysCommentary), Len: 4, Payload: fixedPayload("abcd")},
	}

	var wire []byte
	for _, p := range in {
		wire = append(wire, encode(p)...)
	}

	f := New(nil)
	got, err := f.Feed(wire)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	assertPacketsEqual(t, got, in)
}

func TestFramerSplitAtEveryByteBoundary(t *testing.T) {
	in := []packet.Packet{
		{Car: 0, Type: int(packet.SysValidMarker)},
		{Car: 3, Type: int(packet.CarPositionUpdate), Data: 5},
		{Car: 3, Type: int(packet.RaceNumber), Len: 2, Payload: fixedPayload("44")},
		{Car: 0, Type: int(packet.SysCommentary), Len: 4, Payload: fixedPayload("abcd")},
	}
	var wire []byte
	for _, p := range in {
		wire = append(wire, encode(p)...)
	}

	for split := 0; split <= len(wire); split++ {
		f := New(nil)
		var got []packet.Packet
		a, err := f.Feed(wire[:split])
		if err != nil {
			t.Fatalf("split %d: Feed: %v", split, err)
		}
		got = append(got, a...)
		b, err := f.Feed(wire[split:])
		if err != nil {
			t.Fatalf("split %d: Feed: %v", split, err)
		}
		got = append(got, b...)
		assertPacketsEqual(t, got, in)
	}
}

func TestFramerByteAtATime(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	in := []packet.Packet{
		{Car: 0, Type: int(packet.SysKeyFrame), Len: 4, Payload: fixedPayload("\x2a\x00\x00\x00")},
		{Car: 7, Type: int(packet.CarPositionHistory), Len: 3, Payload: fixedPayload(string([]byte{1, 2, 3}))},
	}
	var wire []byte
	for _, p := range in {
		wire = append(wire, encode(p)...)
	}
	_ = r

	f := New(nil)
	var got []packet.Packet
	for _, b := range wire {
		out, err := f.Feed([]byte{b})
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		got = append(got, out...)
	}
	assertPacketsEqual(t, got, in)
}

func fixedPayload(s string) [packet.PayloadCap]byte {
	var p [packet.PayloadCap]byte
	copy(p[:], s)
	return p
}

func assertPacketsEqual(t *testing.T, got, want []packet.Packet) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d packets, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Car != w.Car || g.Type != w.Type || g.Data != w.Data || g.Len != w.Len {
			t.Fatalf("packet %d: got %+v, want %+v", i, g, w)
		}
		n := w.Len
		if n < 0 {
			n = 0
		}
		if !reflect.DeepEqual(g.Payload[:n], w.Payload[:n]) {
			t.Fatalf("packet %d payload: got %v, want %v", i, g.Payload[:n], w.Payload[:n])
		}
	}
}
