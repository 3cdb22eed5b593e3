package packet

// Encoding identifies which of the four header/length/data decodings
// (spec.md §4.1) applies to a given (carIsSystem, type) pair.
type Encoding int

const (
	// EncodingShort: len = byte1>>4 (0xF means -1); data = (byte1>>1)&7.
	EncodingShort Encoding = iota
	// EncodingLong: len = byte1>>1; data = 0.
	EncodingLong
	// EncodingSpecial: len = 0; data = byte1>>1.
	EncodingSpecial
	// EncodingFixed: len = 2; data = 0 (TIMESTAMP).
	EncodingFixed
	// EncodingMarker: len = 0; data = 0 (VALID_MARKER, REFRESH_RATE).
	EncodingMarker
)

// EncodingFor returns the header encoding for a packet with the given car
// field (as read straight off the wire, before car==0 classification) and
// type. Unknown system types fall back to EncodingMarker (len=0, data=0,
// spec.md §4.1 "Unknown system types are emitted with len=0, data=0").
func EncodingFor(car, typ int) (Encoding, bool) {
	if car != 0 {
		if CarPacketType(typ) == CarPositionUpdate {
			return EncodingSpecial, true
		}
		if CarPacketType(typ) == CarPositionHistory {
			return EncodingLong, true
		}
		return EncodingShort, true
	}

	switch SystemPacketType(typ) {
	case SysCommentary, SysNotice, SysSpeed, SysCopyright:
		return EncodingLong, true
	case SysTimestamp:
		return EncodingFixed, true
	case SysValidMarker, SysRefreshRate:
		return EncodingMarker, true
	case SysEventID, SysKeyFrame, SysWeather, SysTrackStatus,
		SysUserTotalLaps, SysUserKey:
		return EncodingShort, true
	default:
		return EncodingMarker, false
	}
}
