// Package modelupdater implements application.ModelUpdater: the
// packet-into-StateModel handler of spec.md §4.8, grounded on
// original_source/src/packet.c's handle_car_packet/handle_system_packet.
package modelupdater

import (
	"strconv"
	"strings"

	"livetiming/application"
	"livetiming/domain/model"
	"livetiming/domain/packet"
)

type updater struct {
	model  *model.StateModel
	cipher application.Cipher
	logger application.Logger
}

// New returns a ModelUpdater mutating m, decrypting payloads with cipher.
// m.DecryptionKey and m.Salt mirror cipher's own key/salt after every
// decrypt/reset (decrypt and resetCipher keep the two in lock-step), since
// replay restarts the stream from scratch.
func New(m *model.StateModel, cipher application.Cipher, logger application.Logger) application.ModelUpdater {
	return &updater{model: m, cipher: cipher, logger: logger}
}

// decrypt runs payload through the cipher and mirrors its post-decrypt
// salt onto the StateModel.
func (u *updater) decrypt(payload []byte) {
	u.cipher.Decrypt(payload)
	u.model.Salt = u.cipher.Salt()
}

// resetCipher reseeds the cipher with key and mirrors its post-reset
// salt/key onto the StateModel.
func (u *updater) resetCipher(key uint32) {
	u.cipher.Reset(key)
	u.model.DecryptionKey = key
	u.model.Salt = u.cipher.Salt()
}

func (u *updater) Handle(p *packet.Packet) ([]application.ViewEvent, error) {
	if p.IsSystem() {
		return u.handleSystem(p), nil
	}
	return u.handleCar(p), nil
}

func (u *updater) handleCar(p *packet.Packet) []application.ViewEvent {
	car := p.Car
	u.model.GrowCars(car)

	if packet.CarPacketType(p.Type) == packet.CarPositionUpdate {
		newPos := p.Data
		u.model.CarPosition[car-1] = 0
		for i := range u.model.CarPosition {
			if u.model.CarPosition[i] == newPos {
				u.model.CarPosition[i] = 0
			}
		}
		u.model.CarPosition[car-1] = newPos
		return []application.ViewEvent{{Kind: application.ViewRedrawCar, Car: car}}
	}

	payload := p.Payload[:clamp(p.Len)]
	u.decrypt(payload)

	if packet.CarPacketType(p.Type) == packet.CarPositionHistory {
		return nil
	}

	isNumberAtom := p.Type == packet.NumberAtomSlot
	var valid bool
	if isNumberAtom {
		valid = packet.ValidateNumberAtom(string(payload))
	} else {
		valid = packet.ValidateMSBClear(payload)
	}
	if !valid {
		u.model.DecryptionFailure = true
	}

	atom := u.model.Atom(car, p.Type)
	atom.Colour = byte(p.Data)
	atom.SetText(string(payload))

	if u.model.EventType == packet.EventRace &&
		u.model.CarPosition[car-1] == 1 &&
		p.Type == int(packet.RaceInterval) {
		if laps, err := strconv.Atoi(strings.TrimSpace(string(payload))); err == nil {
			u.model.LapsCompleted = laps
		}
	}

	return []application.ViewEvent{{Kind: application.ViewRedrawCar, Car: car}}
}

func (u *updater) handleSystem(p *packet.Packet) []application.ViewEvent {
	switch packet.SystemPacketType(p.Type) {
	case packet.SysEventID:
		u.model.Reset()
		u.model.EventType = packet.EventType(p.Data)
		u.resetCipher(u.model.DecryptionKey)
		return []application.ViewEvent{{Kind: application.ViewRedrawStatus}}

	case packet.SysKeyFrame:
		u.model.ResetSalt()
		u.resetCipher(u.model.DecryptionKey)
		return nil

	case packet.SysTimestamp:
		payload := p.Payload[:clamp(p.Len)]
		u.decrypt(payload)
		return nil

	case packet.SysCommentary:
		payload := p.Payload[:clamp(p.Len)]
		u.decrypt(payload)
		text := string(payload)
		if len(text) >= 2 {
			text = text[2:]
		}
		u.model.Commentary += text
		return []application.ViewEvent{{Kind: application.ViewCommentary, Text: text}}

	case packet.SysWeather:
		return u.handleWeather(p)

	case packet.SysSpeed:
		return u.handleSpeed(p)

	case packet.SysTrackStatus:
		payload := p.Payload[:clamp(p.Len)]
		u.decrypt(payload)
		if p.Data == 1 && len(payload) > 0 {
			u.model.Flag = packet.FlagStatus(payload[0] - '0')
		}
		return []application.ViewEvent{{Kind: application.ViewRedrawStatus}}

	case packet.SysCopyright:
		text := string(p.Payload[:clamp(p.Len)])
		return []application.ViewEvent{{Kind: application.ViewInfo, Text: text}}

	case packet.SysNotice:
		payload := p.Payload[:clamp(p.Len)]
		u.decrypt(payload)
		return []application.ViewEvent{{Kind: application.ViewInfo, Text: string(payload)}}

	case packet.SysUserTotalLaps:
		u.model.TotalLaps = p.Data
		return nil

	case packet.SysUserKey:
		if p.Data&1 != 0 && p.Len >= 4 {
			key := uint32(p.Payload[0]) | uint32(p.Payload[1])<<8 |
				uint32(p.Payload[2])<<16 | uint32(p.Payload[3])<<24
			u.resetCipher(key)
		}
		return nil

	default:
		return nil
	}
}

func (u *updater) handleWeather(p *packet.Packet) []application.ViewEvent {
	payload := p.Payload[:clamp(p.Len)]
	u.decrypt(payload)
	text := strings.TrimSpace(string(payload))

	switch packet.WeatherField(p.Data) {
	case packet.WeatherSessionClock:
		if p.Len <= 0 {
			u.model.EpochTime += 60
			return nil
		}
		if secs, ok := parseHMS(text); ok {
			u.model.RemainingTime = secs
			u.model.EpochTime = u.model.ModelTime
		}
	case packet.WeatherTrackTemp:
		u.model.Weather.TrackTemp = atoiApprox(text)
	case packet.WeatherAirTemp:
		u.model.Weather.AirTemp = atoiApprox(text)
	case packet.WeatherHumidity:
		u.model.Weather.Humidity = atoiApprox(text)
	case packet.WeatherPressure:
		u.model.Weather.Pressure = atoiApprox(text)
	case packet.WeatherWindSpeed:
		u.model.Weather.WindSpeed = atoiApprox(text)
	case packet.WeatherWindDirection:
		u.model.Weather.WindDirection = atoiApprox(text)
	}
	return []application.ViewEvent{{Kind: application.ViewRedrawWeather}}
}

func (u *updater) handleSpeed(p *packet.Packet) []application.ViewEvent {
	payload := p.Payload[:clamp(p.Len)]
	u.decrypt(payload)
	if len(payload) == 0 {
		return nil
	}
	sub := packet.SpeedField(payload[0])
	text := string(payload[1:])
	switch sub {
	case packet.SpeedFastestCar:
		u.model.FastestLap.Car = text
	case packet.SpeedFastestDriver:
		u.model.FastestLap.Driver = text
	case packet.SpeedFastestTime:
		u.model.FastestLap.Time = text
	case packet.SpeedFastestLap:
		u.model.FastestLap.Lap = text
	}
	return []application.ViewEvent{{Kind: application.ViewRedrawStatus}}
}

// parseHMS parses "H:MM:SS" into total seconds (spec.md §4.8 SESSION_CLOCK).
func parseHMS(s string) (int64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return int64(h*3600 + m*60 + sec), true
}

// atoiApprox parses a decimal reading that may carry a fractional part
// (spec.md §4.8 "accept ." for PRESSURE/WIND_SPEED), truncating to an
// integer reading.
func atoiApprox(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > packet.PayloadCap {
		return packet.PayloadCap
	}
	return n
}
