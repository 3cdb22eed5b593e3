// Package reader implements application.Reader: the pre-handler and
// cipher-switch detector of spec.md §4.6, grounded on
// original_source/src/stream.c's continue_pre_handle_stream and
// packet.c's write_decryption_key.
package reader

import (
	"livetiming/application"
	domaincache "livetiming/domain/cache"
	"livetiming/domain/packet"
	domainreader "livetiming/domain/reader"
)

type preHandler struct {
	state    *domainreader.StateReader
	reverser application.KeyReverser
	cache    application.PacketCache
	acquirer application.Acquirer
	logger   application.Logger

	seenFirstNotice bool
	committed       bool
}

// New returns a Reader coordinating reverser, cache, and acquirer per
// spec.md §4.6.
func New(state *domainreader.StateReader, reverser application.KeyReverser, cache application.PacketCache, acquirer application.Acquirer, logger application.Logger) application.Reader {
	return &preHandler{state: state, reverser: reverser, cache: cache, acquirer: acquirer, logger: logger}
}

// PreHandle implements application.Reader.
func (r *preHandler) PreHandle(p *packet.Packet, fromFrame bool) error {
	store := r.feedReverser(p)

	if packet.IsResetDecryptionPacket(p) {
		r.reverser.Reset()
		r.seenFirstNotice = false
		r.committed = false
	}

	r.acquirer.Notify(p)

	if r.cipherSwitchDetected(p) {
		r.state.ValidFrame = false
		empty := packet.Packet{Car: 0, Type: int(packet.SysUserKey), Data: 0, Len: 0}
		var end domaincache.Iterator
		r.cache.ToEnd(&end)
		if err := r.cache.Push(&empty); err != nil {
			return err
		}
		r.state.KeyIter = end
	}

	if store || fromFrame {
		p.At = r.state.SavingTime
		return r.cache.Push(p)
	}
	return nil
}

// feedReverser implements §4.6 step 1: feed the KeyReverser the first
// encrypted NOTICE (Start) or subsequent crypted bytes (Feed), and
// commit a newly recovered key. Returns whether p should still be
// stored (the reverser never vetoes storage on its own).
func (r *preHandler) feedReverser(p *packet.Packet) bool {
	if !packet.IsCrypted(p) {
		return true
	}
	if p.IsSystem() && packet.SystemPacketType(p.Type) == packet.SysNotice && !r.seenFirstNotice {
		r.seenFirstNotice = true
		if err := r.reverser.Start(p.Payload[:max0(p.Len)]); err != nil && r.logger != nil {
			r.logger.Printf("keyreverser: start failed: %v", err)
		}
	} else if r.reverser.Status() == application.ReverserInProgress {
		for _, b := range p.Payload[:max0(p.Len)] {
			_ = r.reverser.Feed(b)
		}
	}

	switch r.reverser.Status() {
	case application.ReverserSuccess:
		if !r.committed {
			_ = r.WriteDecryptionKey(r.reverser.Key(), 1)
			r.committed = true
			r.state.CurrentCipherKey = r.reverser.Key()
		}
	case application.ReverserPlaintext:
		if !r.committed {
			_ = r.WriteDecryptionKey(0, 0)
			r.committed = true
			r.state.CurrentCipherKey = 0
		}
	}
	return true
}

// cipherSwitchDetected implements §4.6 step 3.
func (r *preHandler) cipherSwitchDetected(p *packet.Packet) bool {
	if !packet.IsCrypted(p) {
		return false
	}
	if r.state.CurrentCipherKey == 0 && r.reverser.Status() != application.ReverserPlaintext {
		return true
	}
	return false
}

// WriteDecryptionKey implements application.Reader: overwrite the
// persisted USER_SYS_KEY slot only if the committed (cipher, key) pair
// changes (spec.md §4.6).
func (r *preHandler) WriteDecryptionKey(key uint32, cipher int) error {
	existing, ok, err := r.cache.Get(r.state.KeyIter)
	if err != nil {
		return err
	}
	if ok && existing.Data == (cipher<<1)|1 {
		existingKey := uint32(existing.Payload[0]) | uint32(existing.Payload[1])<<8 |
			uint32(existing.Payload[2])<<16 | uint32(existing.Payload[3])<<24
		if existingKey == key {
			return nil
		}
	}

	var p packet.Packet
	p.Car, p.Type = 0, int(packet.SysUserKey)
	p.Data = (cipher << 1) | 1
	p.Len = 4
	p.Payload[0] = byte(key)
	p.Payload[1] = byte(key >> 8)
	p.Payload[2] = byte(key >> 16)
	p.Payload[3] = byte(key >> 24)
	return r.cache.Write(r.state.KeyIter, &p)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
