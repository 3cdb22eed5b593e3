package packet

// EventType selects which disjoint enum of car atom slots is in effect.
// Grounded on original_source/src/live-f1.h's EventType.
type EventType int

const (
	EventUnknown    EventType = 0
	EventRace       EventType = 1
	EventPractice   EventType = 2
	EventQualifying EventType = 3
)

func (e EventType) String() string {
	switch e {
	case EventRace:
		return "race"
	case EventPractice:
		return "practice"
	case EventQualifying:
		return "qualifying"
	default:
		return "unknown"
	}
}

// CarPacketType is the packet type byte for a car (Car != 0) packet.
type CarPacketType int

const (
	CarPositionUpdate  CarPacketType = 0
	CarPositionHistory CarPacketType = 15
	// All other values in [0, 15] are data atoms whose meaning depends on
	// the current EventType; see RaceAtom/PracticeAtom/QualifyingAtom.
)

// RaceAtom enumerates the RACE_EVENT car atom slots (packet.Type values),
// grounded on original_source/src/display.c's RaceAtomType switch.
type RaceAtom int

const (
	RacePosition RaceAtom = iota
	RaceNumber
	RaceDriver
	RaceGap
	RaceInterval
	RaceLapTime
	RaceSector1
	RacePitLap1
	RaceSector2
	RacePitLap2
	RaceSector3
	RacePitLap3
	RaceNumPits
)

// PracticeAtom enumerates the PRACTICE_EVENT car atom slots.
type PracticeAtom int

const (
	PracticePosition PracticeAtom = iota
	PracticeNumber
	PracticeDriver
	PracticeBest
	PracticeGap
	PracticeSector1
	PracticeSector2
	PracticeSector3
	PracticeLap
)

// QualifyingAtom enumerates the QUALIFYING_EVENT car atom slots.
type QualifyingAtom int

const (
	QualifyingPosition QualifyingAtom = iota
	QualifyingNumber
	QualifyingDriver
	QualifyingPeriod1
	QualifyingPeriod2
	QualifyingPeriod3
	QualifyingSector1
	QualifyingSector2
	QualifyingSector3
	QualifyingLap
)

// MaxCarAtomSlot bounds the per-car atom array; RACE_EVENT has the most
// slots of the three enums (original_source/src/live-f1.h's LAST_CAR_PACKET).
const MaxCarAtomSlot = int(RaceNumPits) + 1

// NumberAtomSlot is the car atom carrying the driver's race number; its
// payload is validated by the cipher (spec.md §4.2) regardless of event
// type, since the wire type byte 1 means "number" in all three enums.
const NumberAtomSlot = 1

// SystemPacketType is the packet type byte for a system (Car == 0) packet.
type SystemPacketType int

const (
	SysEventID       SystemPacketType = 0
	SysKeyFrame      SystemPacketType = 1
	SysValidMarker   SystemPacketType = 2
	SysCommentary    SystemPacketType = 3
	SysRefreshRate   SystemPacketType = 4
	SysNotice        SystemPacketType = 5
	SysTimestamp     SystemPacketType = 6
	SysWeather       SystemPacketType = 7
	SysSpeed         SystemPacketType = 8
	SysTrackStatus   SystemPacketType = 9
	SysCopyright     SystemPacketType = 10
	SysUserTotalLaps SystemPacketType = 14
	SysUserKey       SystemPacketType = 15
)

// WeatherField is the Data sub-field selector of a SYS_WEATHER packet.
type WeatherField int

const (
	WeatherSessionClock WeatherField = iota
	WeatherTrackTemp
	WeatherAirTemp
	WeatherHumidity
	WeatherPressure
	WeatherWindSpeed
	WeatherWindDirection
)

// SpeedField is the first-payload-byte selector of a SYS_SPEED packet.
type SpeedField byte

const (
	SpeedFastestCar    SpeedField = 1
	SpeedFastestDriver SpeedField = 2
	SpeedFastestTime   SpeedField = 3
	SpeedFastestLap    SpeedField = 4
)

// FlagStatus is the track status/flag enum.
type FlagStatus int

const (
	GreenFlag FlagStatus = iota + 1
	YellowFlag
	SafetyCarStandby
	SafetyCarDeployed
	RedFlag
)

// IsResetDecryptionPacket reports whether receiving p should reset both the
// cipher salt and invalidate the KeyReverser (spec.md §4.3 "Reset triggers",
// §4.8 EVENT_ID/KEY_FRAME handling), grounded on keyrev.c's
// is_reset_decryption_packet.
func IsResetDecryptionPacket(p *Packet) bool {
	if !p.IsSystem() {
		return false
	}
	t := SystemPacketType(p.Type)
	return t == SysEventID || t == SysKeyFrame
}

// IsCrypted reports whether p is ever transmitted encrypted, independent of
// payload content (spec.md §4.2, grounded on crypt.c's is_crypted).
func IsCrypted(p *Packet) bool {
	if p.IsSystem() {
		switch SystemPacketType(p.Type) {
		case SysTimestamp, SysWeather, SysTrackStatus, SysCommentary, SysNotice, SysSpeed:
			return true
		default:
			return false
		}
	}
	if p.Car > 0 && p.Car <= MaxCarNumber {
		return CarPacketType(p.Type) != CarPositionUpdate
	}
	return false
}
