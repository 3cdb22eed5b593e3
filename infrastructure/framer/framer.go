// Package framer implements application.Framer: the stateful byte
// stream → typed packet decoder of spec.md §4.1, grounded on
// original_source/src/parser.c's header-bit macros.
package framer

import (
	"livetiming/application"
	"livetiming/domain/packet"
)

// framer buffers partial headers/payloads across Feed calls in buf,
// modelling the original's static 129-byte partial-packet slot as an
// owned field (spec.md §9) rather than a package-level static.
type framer struct {
	buf    []byte
	logger application.Logger
}

// New returns a Framer that logs unknown system types through logger.
func New(logger application.Logger) application.Framer {
	return &framer{logger: logger}
}

// Feed implements application.Framer.
func (f *framer) Feed(b []byte) ([]packet.Packet, error) {
	f.buf = append(f.buf, b...)

	var out []packet.Packet
	for {
		if len(f.buf) < 2 {
			break
		}
		byte0, byte1 := f.buf[0], f.buf[1]
		car := int(byte0 & 0x1F)
		typ := int(byte0>>5) | int(byte1&1)<<3

		enc, ok := packet.EncodingFor(car, typ)
		if !ok && f.logger != nil {
			f.logger.Printf("framer: unknown system type %d, emitting len=0 data=0", typ)
		}

		length, data := decodeLengthData(enc, byte1)

		payloadLen := length
		if payloadLen < 0 {
			payloadLen = 0
		}
		total := 2 + payloadLen
		if len(f.buf) < total {
			// Wait for more bytes; the partial record stays buffered.
			break
		}

		var p packet.Packet
		p.Car = car
		p.Type = typ
		p.Data = data
		p.Len = length
		copy(p.Payload[:], f.buf[2:total])

		out = append(out, p)
		f.buf = f.buf[total:]
	}
	return out, nil
}

func decodeLengthData(enc packet.Encoding, byte1 byte) (length, data int) {
	switch enc {
	case packet.EncodingShort:
		nibble := int(byte1 >> 4)
		if nibble == 0xF {
			length = packet.HeaderOnlyLen
		} else {
			length = nibble
		}
		data = int(byte1>>1) & 7
	case packet.EncodingLong:
		length = int(byte1 >> 1)
		data = 0
	case packet.EncodingSpecial:
		length = 0
		data = int(byte1 >> 1)
	case packet.EncodingFixed:
		length = 2
		data = 0
	case packet.EncodingMarker:
		length = 0
		data = 0
	}
	return length, data
}
