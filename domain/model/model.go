// Package model holds StateModel, the owner of replay/presentation state
// (spec.md §3), grounded on original_source/src/live-f1.h's StateModel.
package model

import (
	"livetiming/domain/cache"
	"livetiming/domain/packet"
)

// FastestLap holds the SYS_SPEED fastest-lap fields (spec.md §4.8).
type FastestLap struct {
	Car    string
	Driver string
	Time   string
	Lap    string
}

// Weather holds the scalar weather fields updated by SYS_WEATHER (spec.md
// §4.8); all but SessionClock/EpochTime are raw decimal readings.
type Weather struct {
	TrackTemp     int
	AirTemp       int
	Humidity      int
	Pressure      int
	WindSpeed     int
	WindDirection int
}

// StateModel is the owner of replay/presentation state: it consumes
// packets from the encrypted cache strictly in order, gated by model time,
// and exposes the fields a view renders from.
type StateModel struct {
	Iter cache.Iterator

	DecryptionKey      uint32
	Salt               uint32
	DecryptionFailure  bool

	EventType packet.EventType

	Paused       bool
	ReplayGap    int64
	TimeGap      int64
	LastTimeGap  int64
	PausedTime   int64
	ModelTime    int64
	RemainingTime int64
	EpochTime    int64

	LapsCompleted int
	TotalLaps     int
	Flag          packet.FlagStatus

	Weather    Weather
	FastestLap FastestLap

	Commentary string

	NumCars     int
	CarPosition []int
	CarInfo     [][]packet.CarAtom
}

// New returns a freshly cleared StateModel with the decryption salt seeded
// per spec.md §4.2 (0x55555555).
func New() *StateModel {
	m := &StateModel{}
	m.Reset()
	return m
}

// Reset clears all event-scoped state (spec.md §4.8 EVENT_ID handling):
// weather, times, fastest-lap, flag, and the car table, and reseeds the
// decryption salt. The iterator and decryption key are left untouched —
// EVENT_ID does not imply a new key.
func (m *StateModel) Reset() {
	m.DecryptionFailure = false
	m.EventType = packet.EventUnknown
	m.RemainingTime = 0
	m.EpochTime = 0
	m.LapsCompleted = 0
	m.TotalLaps = 0
	m.Flag = packet.GreenFlag
	m.Weather = Weather{}
	m.FastestLap = FastestLap{}
	m.Commentary = ""
	m.NumCars = 0
	m.CarPosition = nil
	m.CarInfo = nil
	m.ResetSalt()
}

// ResetSalt reseeds the decryption salt to the XOR-cipher's fixed start
// value (spec.md §4.2), called on EVENT_ID, KEY_FRAME, and cipher resets.
func (m *StateModel) ResetSalt() {
	m.Salt = 0x55555555
}

// GrowCars extends the car table so that car (a 1-based grid position) is
// addressable, per spec.md §4.8 "grow car arrays if packet.car > num_cars".
func (m *StateModel) GrowCars(car int) {
	if car <= m.NumCars {
		return
	}
	newPos := make([]int, car)
	copy(newPos, m.CarPosition)
	m.CarPosition = newPos

	newInfo := make([][]packet.CarAtom, car)
	copy(newInfo, m.CarInfo)
	for i := m.NumCars; i < car; i++ {
		newInfo[i] = make([]packet.CarAtom, packet.MaxCarAtomSlot)
	}
	m.CarInfo = newInfo
	m.NumCars = car
}

// Atom returns the atom cell for (car, slot), car is 1-based.
func (m *StateModel) Atom(car, slot int) *packet.CarAtom {
	return &m.CarInfo[car-1][slot]
}
