package packet

import "testing"

func TestCarAtomTextRoundTrip(t *testing.T) {
	var a CarAtom
	a.SetText("44")
	if got := a.String(); got != "44" {
		t.Fatalf("String() = %q, want %q", got, "44")
	}
}

func TestCarAtomTextTruncates(t *testing.T) {
	var a CarAtom
	a.SetText("this text is far too long for the field")
	if len(a.String()) > 16 {
		t.Fatalf("String() too long: %q", a.String())
	}
}

func TestPacketTextHeaderOnly(t *testing.T) {
	p := Packet{Len: HeaderOnlyLen}
	if got := p.Text(); got != "" {
		t.Fatalf("Text() = %q, want empty", got)
	}
}

func TestPacketTextRespectsLen(t *testing.T) {
	p := Packet{Len: 3}
	copy(p.Payload[:], "abcdef")
	if got := p.Text(); got != "abc" {
		t.Fatalf("Text() = %q, want %q", got, "abc")
	}
}

func TestIsCryptedSystemPackets(t *testing.T) {
	cases := []struct {
		typ     SystemPacketType
		crypted bool
	}{
		{SysTimestamp, true},
		{SysWeather, true},
		{SysTrackStatus, true},
		{SysCommentary, true},
		{SysNotice, true},
		{SysSpeed, true},
		{SysEventID, false},
		{SysKeyFrame, false},
		{SysValidMarker, false},
		{SysCopyright, false},
	}
	for _, c := range cases {
		p := Packet{Car: 0, Type: int(c.typ)}
		if got := IsCrypted(&p); got != c.crypted {
			t.Errorf("IsCrypted(type=%d) = %v, want %v", c.typ, got, c.crypted)
		}
	}
}

func TestIsCryptedCarPackets(t *testing.T) {
	p := Packet{Car: 3, Type: int(CarPositionUpdate)}
	if IsCrypted(&p) {
		t.Error("CAR_POSITION_UPDATE must not be crypted")
	}
	p = Packet{Car: 3, Type: int(RaceNumber)}
	if !IsCrypted(&p) {
		t.Error("car data atom must be crypted")
	}
}

func TestIsResetDecryptionPacket(t *testing.T) {
	if !IsResetDecryptionPacket(&Packet{Car: 0, Type: int(SysEventID)}) {
		t.Error("SYS_EVENT_ID must reset decryption")
	}
	if !IsResetDecryptionPacket(&Packet{Car: 0, Type: int(SysKeyFrame)}) {
		t.Error("SYS_KEY_FRAME must reset decryption")
	}
	if IsResetDecryptionPacket(&Packet{Car: 0, Type: int(SysNotice)}) {
		t.Error("SYS_NOTICE must not reset decryption")
	}
	if IsResetDecryptionPacket(&Packet{Car: 1, Type: int(SysEventID)}) {
		t.Error("car packets never reset decryption")
	}
}

func TestEncodingForCarPackets(t *testing.T) {
	if enc, ok := EncodingFor(3, int(CarPositionUpdate)); !ok || enc != EncodingSpecial {
		t.Errorf("CAR_POSITION_UPDATE encoding = %v, %v", enc, ok)
	}
	if enc, ok := EncodingFor(3, int(CarPositionHistory)); !ok || enc != EncodingLong {
		t.Errorf("CAR_POSITION_HISTORY encoding = %v, %v", enc, ok)
	}
	if enc, ok := EncodingFor(3, int(RaceNumber)); !ok || enc != EncodingShort {
		t.Errorf("car data atom encoding = %v, %v", enc, ok)
	}
}

func TestEncodingForSystemPackets(t *testing.T) {
	if enc, ok := EncodingFor(0, int(SysTimestamp)); !ok || enc != EncodingFixed {
		t.Errorf("TIMESTAMP encoding = %v, %v", enc, ok)
	}
	if enc, ok := EncodingFor(0, int(SysCommentary)); !ok || enc != EncodingLong {
		t.Errorf("COMMENTARY encoding = %v, %v", enc, ok)
	}
	if enc, ok := EncodingFor(0, int(SysValidMarker)); !ok || enc != EncodingMarker {
		t.Errorf("VALID_MARKER encoding = %v, %v", enc, ok)
	}
	if _, ok := EncodingFor(0, 13); ok {
		t.Error("unknown system type should report ok=false")
	}
}
