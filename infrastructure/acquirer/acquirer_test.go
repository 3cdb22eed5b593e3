package acquirer

import (
	"context"
	"strings"
	"testing"

	"livetiming/application"
	domaincache "livetiming/domain/cache"
	"livetiming/domain/packet"
	"livetiming/domain/reader"
	"livetiming/infrastructure/framer"
)

type fakeHTTPClient struct {
	frameBody []byte
	keyBody   []byte
	calls     []string
}

func (f *fakeHTTPClient) Get(_ context.Context, url string, _ map[string]string) ([]byte, error) {
	f.calls = append(f.calls, url)
	switch {
	case strings.Contains(url, "keyframe"):
		return f.frameBody, nil
	case strings.Contains(url, "getkey"):
		return f.keyBody, nil
	case strings.Contains(url, "laps.php"):
		return []byte("58"), nil
	}
	return nil, nil
}

func (f *fakeHTTPClient) PostForm(_ context.Context, url string, _ map[string]string) ([]byte, []string, error) {
	f.calls = append(f.calls, url)
	return nil, []string{"USER=cookie123"}, nil
}

type fakeCache struct{}

func (fakeCache) Push(*packet.Packet) error                            { return nil }
func (fakeCache) Get(domaincache.Iterator) (packet.Packet, bool, error) { return packet.Packet{}, false, nil }
func (fakeCache) Advance(*domaincache.Iterator) error                  { return nil }
func (fakeCache) ToStart(*domaincache.Iterator)                       {}
func (fakeCache) ToEnd(*domaincache.Iterator)                         {}
func (fakeCache) Write(domaincache.Iterator, *packet.Packet) error    { return nil }
func (fakeCache) SaveUnsaved() error                                  { return nil }
func (fakeCache) Close() error                                        { return nil }

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

type recordedCall struct {
	p         packet.Packet
	fromFrame bool
}

type fakeReader struct {
	calls []recordedCall
}

func (f *fakeReader) PreHandle(p *packet.Packet, fromFrame bool) error {
	f.calls = append(f.calls, recordedCall{*p, fromFrame})
	return nil
}

func (f *fakeReader) WriteDecryptionKey(uint32, int) error { return nil }

// encodeCopyright builds the wire bytes for one SYS_COPYRIGHT packet (the
// EncodingLong layout, spec.md §4.1), used only to build a fixture frame
// response.
func encodeCopyright(text string) []byte {
	typ := int(packet.SysCopyright)
	byte0 := byte(typ&7) << 5
	byte1 := byte((typ>>3)&1) | byte(len(text))<<1
	return append([]byte{byte0, byte1}, text...)
}

func newTestAcquirer(http application.HTTPClient, state *reader.StateReader) *acquirer {
	return &acquirer{
		endpoints: Endpoints{AuthHost: "auth.example", DataHost: "data.example", WebHost: "web.example"},
		email:     "driver@example.com",
		password:  "hunter2",
		http:      http,
		cache:     fakeCache{},
		logger:    noopLogger{},
		state:     state,
		newFramer: func() application.Framer { return framer.New(noopLogger{}) },
	}
}

func TestRunFrameRoutesPacketsThroughReaderWithFromFrameTrue(t *testing.T) {
	http := &fakeHTTPClient{frameBody: encodeCopyright("(C) FIA")}
	state := reader.New()
	a := newTestAcquirer(http, state)
	fr := &fakeReader{}
	a.SetReader(fr)

	if err := a.runFrame(context.Background()); err != nil {
		t.Fatalf("runFrame() returned error: %v", err)
	}

	if len(fr.calls) != 1 {
		t.Fatalf("expected 1 packet routed through PreHandle, got %d", len(fr.calls))
	}
	if !fr.calls[0].fromFrame {
		t.Errorf("expected fromFrame=true, got false")
	}
	if fr.calls[0].p.Text() != "(C) FIA" {
		t.Errorf("expected packet text %q, got %q", "(C) FIA", fr.calls[0].p.Text())
	}
	if state.Needs(reader.ObtainingFrame) {
		t.Errorf("expected ObtainingFrame satisfied after runFrame succeeds")
	}
}

func TestRunDoesNotRequestKeyBeforeFrameSatisfied(t *testing.T) {
	http := &fakeHTTPClient{frameBody: encodeCopyright("(C) FIA"), keyBody: []byte("DEADBEEF")}
	state := reader.New()
	state.Obtaining = reader.ObtainingKey | reader.ObtainingFrame
	a := newTestAcquirer(http, state)
	a.SetReader(&fakeReader{})
	a.cookie = "cookie123"

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	for _, url := range http.calls {
		if strings.Contains(url, "getkey") {
			t.Fatalf("KEY request issued before FRAME was satisfied: calls=%v", http.calls)
		}
	}
	if state.Needs(reader.ObtainingFrame) {
		t.Errorf("expected FRAME to be satisfied after Run")
	}

	// Second call: FRAME is now satisfied, so KEY may proceed.
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("second Run() returned error: %v", err)
	}
	sawKey := false
	for _, url := range http.calls {
		if strings.Contains(url, "getkey") {
			sawKey = true
		}
	}
	if !sawKey {
		t.Errorf("expected KEY request once FRAME was satisfied, calls=%v", http.calls)
	}
}
