// Package clock implements application.Clock: the ~10 Hz tick loop of
// spec.md §4.7, grounded on original_source/src/stream.c's libevent
// timer callback, re-expressed as a Go ticker over a context.
package clock

import (
	"context"
	"time"

	"livetiming/application"
	"livetiming/domain/model"
	"livetiming/domain/packet"
	domainreader "livetiming/domain/reader"
)

const tickInterval = 100 * time.Millisecond

// growthCap bounds how far model_time may advance in a single tick
// (spec.md §4.7 step 3).
const growthCap = int64(1)

type clock struct {
	reader  *domainreader.StateReader
	model   *model.StateModel
	cache   application.PacketCache
	updater application.ModelUpdater
	sink    application.InfoSink

	now func() int64

	paused   bool
	gap      int64
	pausedAt int64
}

// New returns a Clock driving model and reader off cache, calling
// updater for every due packet and sink for user-visible notices. now
// returns the current Unix time in seconds; cmd passes a wrapper around
// time.Now().Unix.
func New(reader *domainreader.StateReader, m *model.StateModel, cache application.PacketCache, updater application.ModelUpdater, sink application.InfoSink, now func() int64) application.Clock {
	return &clock{reader: reader, model: m, cache: cache, updater: updater, sink: sink, now: now}
}

func (c *clock) SetPaused(paused bool) {
	if paused == c.paused {
		return
	}
	c.paused = paused
	if paused {
		c.pausedAt = c.now()
		return
	}
	c.gap += c.now() - c.pausedAt
}

func (c *clock) AdjustGap(delta int64) {
	c.gap += delta
}

// Run implements application.Clock.
func (c *clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.tick(); err != nil {
				return err
			}
		}
	}
}

func (c *clock) tick() error {
	now := c.now()

	if c.paused {
		c.model.PausedTime = now - c.pausedAt
	} else if c.reader.StopReason == domainreader.StopNone {
		c.reader.SavingTime = now
	}

	c.model.TimeGap = c.gap
	target := now - (c.model.TimeGap + c.model.ReplayGap)
	if !c.paused && target > c.model.ModelTime {
		step := target - c.model.ModelTime
		if step > growthCap {
			step = growthCap
		}
		c.model.ModelTime += step
	}

	for {
		p, ok, err := c.cache.Get(c.model.Iter)
		if err != nil {
			return err
		}
		if !ok || p.At > c.model.ModelTime {
			break
		}
		if isWaitingKeyMarker(&p) {
			break
		}
		events, err := c.updater.Handle(&p)
		if err != nil {
			return err
		}
		if c.sink != nil {
			for _, ev := range events {
				if ev.Kind == application.ViewInfo {
					c.sink.Info(ev.Text)
				}
			}
		}
		if err := c.cache.Advance(&c.model.Iter); err != nil {
			return err
		}
	}

	return c.cache.SaveUnsaved()
}

// isWaitingKeyMarker reports whether p is a USER_SYS_KEY packet that
// blocks the drain because no key is committed yet: bit 0 of data clear
// (spec.md §4.8 "if data & 1, load key... otherwise this is the waiting
// marker"; the write contract of §4.6 always sets bit 0 on a committed
// key, data=(cipher<<1)|1, so only the empty marker can block the
// drain — see DESIGN.md for the resolution of §4.7's conflicting {1,3}
// prose).
func isWaitingKeyMarker(p *packet.Packet) bool {
	if !p.IsSystem() || packet.SystemPacketType(p.Type) != packet.SysUserKey {
		return false
	}
	return p.Data&1 == 0
}
