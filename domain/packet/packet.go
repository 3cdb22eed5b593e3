// Package packet holds the wire-level value types shared by every layer of
// the stream engine: the decoded Packet, its closed kind enums, and the
// per-type length/data encoding table of the framer.
package packet

// MaxCarNumber bounds the car index; car==0 is reserved for system packets.
const MaxCarNumber = 31

// PayloadCap is the fixed payload capacity of a wire packet.
const PayloadCap = 128

// HeaderOnlyLen is the sentinel length meaning "colour-only change, no text".
const HeaderOnlyLen = -1

// Packet is the decoded form of one wire record. Car is the car's grid
// start position, not its race number; Car==0 marks a system packet. At is
// a Unix-seconds timestamp: the Reader stamps every packet it stores with
// the current saving time. Packets replayed from a key frame get the
// saving time at which they are pre-handled, after the frame body has
// arrived, not the time the frame was requested.
type Packet struct {
	Car     int
	Type    int
	Data    int
	Len     int
	At      int64
	Payload [PayloadCap]byte
}

// Text returns the payload interpreted as a NUL-free string of Len bytes.
// Len == HeaderOnlyLen yields the empty string.
func (p *Packet) Text() string {
	if p.Len <= 0 {
		return ""
	}
	n := p.Len
	if n > PayloadCap {
		n = PayloadCap
	}
	return string(p.Payload[:n])
}

// IsSystem reports whether the packet is a system (car==0) packet.
func (p *Packet) IsSystem() bool {
	return p.Car == 0
}

// CarAtom is one cell in a car's row: a short text value plus its colour.
type CarAtom struct {
	Colour byte
	Text   [16]byte
}

// SetText stores s zero-padded/truncated into the atom's fixed text field.
func (a *CarAtom) SetText(s string) {
	a.Text = [16]byte{}
	n := copy(a.Text[:], s)
	_ = n
}

// String returns the atom's text up to the first NUL byte.
func (a *CarAtom) String() string {
	for i, b := range a.Text {
		if b == 0 {
			return string(a.Text[:i])
		}
	}
	return string(a.Text[:])
}
