package packetcache

import (
	"path/filepath"
	"testing"

	domaincache "livetiming/domain/cache"
	"livetiming/domain/packet"
)

func mustPacket(car, typ, data, length int, text string) packet.Packet {
	var p packet.Packet
	p.Car, p.Type, p.Data, p.Len = car, typ, data, length
	copy(p.Payload[:], text)
	return p
}

func TestPushAndSaveUnsavedDurability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.dat")

	c, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []packet.Packet{
		mustPacket(0, int(packet.SysValidMarker), 0, 0, ""),
		mustPacket(3, int(packet.RaceNumber), 0, 2, "44"),
	}
	for i := range want {
		if err := c.Push(&want[i]); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if err := c.SaveUnsaved(); err != nil {
		t.Fatalf("SaveUnsaved: %v", err)
	}
	newPacket := mustPacket(0, int(packet.SysTimestamp), 0, 2, "ab")
	if err := c.Push(&newPacket); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := c.SaveUnsaved(); err != nil {
		t.Fatalf("SaveUnsaved: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want = append(want, newPacket)

	reopened, err := New(path, true)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var iter domaincache.Iterator
	reopened.ToStart(&iter)
	for i := range want {
		p, ok, err := reopened.Get(iter)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !ok {
			t.Fatalf("packet %d missing after reopen", i)
		}
		if p.Car != want[i].Car || p.Type != want[i].Type || p.Len != want[i].Len {
			t.Fatalf("packet %d = %+v, want %+v", i, p, want[i])
		}
		if err := reopened.Advance(&iter); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if _, ok, _ := reopened.Get(iter); ok {
		t.Fatal("expected no packet past the push cursor")
	}
}

func TestWriteInPlacePreservesOtherOffsets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.dat")

	c, err := New(path, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := mustPacket(0, int(packet.SysUserKey), 0, 0, "")
	second := mustPacket(3, int(packet.RaceNumber), 0, 2, "44")
	if err := c.Push(&first); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := c.Push(&second); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := c.SaveUnsaved(); err != nil {
		t.Fatalf("SaveUnsaved: %v", err)
	}

	var keyIter domaincache.Iterator
	c.ToStart(&keyIter)
	updated := mustPacket(0, int(packet.SysUserKey), 3, 4, "")
	if err := c.Write(keyIter, &updated); err != nil {
		t.Fatalf("Write: %v", err)
	}

	secondIter := domaincache.Iterator{Index: 0, Pos: 1}
	got, ok, err := c.Get(secondIter)
	if err != nil || !ok {
		t.Fatalf("Get second: ok=%v err=%v", ok, err)
	}
	if got.Car != second.Car || got.Type != second.Type {
		t.Fatalf("second packet corrupted by in-place write: %+v", got)
	}

	gotKey, ok, err := c.Get(keyIter)
	if err != nil || !ok {
		t.Fatalf("Get key: ok=%v err=%v", ok, err)
	}
	if gotKey.Data != 3 || gotKey.Len != 4 {
		t.Fatalf("key slot not overwritten: %+v", gotKey)
	}
}
