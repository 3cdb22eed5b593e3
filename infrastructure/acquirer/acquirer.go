// Package acquirer implements application.Acquirer: the async
// AUTH/FRAME/KEY/TOTAL_LAPS HTTP state machine of spec.md §4.5, grounded
// on original_source/src/stream.c's connect/request orchestration and
// remodelled onto golang.org/x/sync (errgroup for concurrent in-flight
// requests, singleflight to collapse duplicate launches) plus
// github.com/pkg/errors for annotated failures crossing the async
// boundary back to the tick loop.
package acquirer

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"livetiming/application"
	domaincache "livetiming/domain/cache"
	"livetiming/domain/packet"
	"livetiming/domain/reader"
)

// Endpoints names the three hosts the Acquirer issues requests against
// (spec.md §6 "HTTP endpoints").
type Endpoints struct {
	AuthHost string
	DataHost string
	WebHost  string
}

type acquirer struct {
	endpoints Endpoints
	email     string
	password  string

	http      application.HTTPClient
	cache     application.PacketCache
	logger    application.Logger
	state     *reader.StateReader
	newFramer func() application.Framer
	pre       application.Reader

	sf     singleflight.Group
	cookie string
}

// New returns an Acquirer operating against state, writing recovered
// packets (the USER_SYS_KEY marker, the synthesized
// USER_SYS_TOTAL_LAPS packet) into cache. newFramer builds a fresh Framer
// for each FRAME response, which is a complete, self-contained byte blob
// rather than a continuation of the live stream. SetReader must be called
// before Run.
func New(ep Endpoints, email, password string, http application.HTTPClient, cache application.PacketCache, logger application.Logger, state *reader.StateReader, newFramer func() application.Framer) application.Acquirer {
	return &acquirer{endpoints: ep, email: email, password: password, http: http, cache: cache, logger: logger, state: state, newFramer: newFramer}
}

// SetReader implements application.Acquirer.
func (a *acquirer) SetReader(r application.Reader) {
	a.pre = r
}

// Notify implements application.Acquirer: reacts to SYS_EVENT_ID and
// SYS_KEY_FRAME per spec.md §4.5's transition table.
func (a *acquirer) Notify(p *packet.Packet) {
	if !p.IsSystem() {
		return
	}
	switch packet.SystemPacketType(p.Type) {
	case packet.SysEventID:
		// Data carries the event type; the payload is one prefix byte
		// followed by the decimal event number.
		a.state.NewEventType = p.Data
		if p.Len > 1 {
			a.state.NewEventNo, _ = strconv.Atoi(string(p.Payload[1:p.Len]))
		}
		var end domaincache.Iterator
		a.cache.ToEnd(&end)
		a.state.KeyIter = end
		marker := packet.Packet{Car: 0, Type: int(packet.SysUserKey), Data: 0, Len: 0}
		_ = a.cache.Push(&marker)
		// KEY and FRAME are both required here, but Run's gate holds KEY
		// pending until FRAME is satisfied (invariant 7: never request KEY
		// before a FRAME has been successfully received).
		a.state.Require(reader.ObtainingFrame)
		a.state.Require(reader.ObtainingKey)
		a.state.Require(reader.ObtainingTotalLaps)
	case packet.SysKeyFrame:
		frame := int(int32(p.Payload[0]) | int32(p.Payload[1])<<8 | int32(p.Payload[2])<<16 | int32(p.Payload[3])<<24)
		if frame > a.state.NewFrameNumber() {
			a.state.SetNewFrameNumber(frame)
			a.state.Require(reader.ObtainingFrame)
		}
	}
}

// StopHandlingReason implements application.Acquirer: FRAME and KEY
// block draining the input→encrypted pipeline; AUTH does not (spec.md
// §4.5).
func (a *acquirer) StopHandlingReason() uint {
	return uint(a.state.Obtaining & (reader.ObtainingFrame | reader.ObtainingKey))
}

// Run implements application.Acquirer: launches every outstanding,
// not-yet-pending request concurrently and applies their results.
func (a *acquirer) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.state.Needs(reader.ObtainingAuth) {
		a.state.MarkPending(reader.ObtainingAuth)
		g.Go(func() error { return a.runAuth(gctx) })
	}
	// KEY never starts while a FRAME fetch is still outstanding (invariant
	// 7, SPEC_FULL.md §10): the key-frame body seeds the KeyReverser's
	// start phrase that KEY recovery depends on.
	if a.state.Needs(reader.ObtainingKey) && a.cookie != "" && !a.state.Needs(reader.ObtainingFrame) {
		a.state.MarkPending(reader.ObtainingKey)
		g.Go(func() error { return a.runKey(gctx) })
	}
	if a.state.Needs(reader.ObtainingFrame) {
		a.state.MarkPending(reader.ObtainingFrame)
		g.Go(func() error { return a.runFrame(gctx) })
	}
	if a.state.Needs(reader.ObtainingTotalLaps) {
		a.state.MarkPending(reader.ObtainingTotalLaps)
		g.Go(func() error { return a.runTotalLaps(gctx) })
	}

	return g.Wait()
}

func (a *acquirer) runAuth(ctx context.Context) error {
	v, err, _ := a.sf.Do("auth", func() (any, error) {
		url := fmt.Sprintf("https://%s/reg/login", a.endpoints.AuthHost)
		_, setCookie, err := a.http.PostForm(ctx, url, map[string]string{
			"email":    a.email,
			"password": a.password,
		})
		if err != nil {
			return nil, errors.Wrap(err, "auth request")
		}
		return extractUserCookie(setCookie), nil
	})
	if err != nil {
		// AUTH retries with backoff at the caller's discretion; clearing
		// only the pending bit (not Obtaining) lets the next tick retry.
		a.state.Pending &^= reader.ObtainingAuth
		return errors.Wrap(err, "acquirer: auth")
	}

	cookie := v.(string)
	if cookie == "" {
		a.state.StopReason = reader.StopBadAuth
		if a.logger != nil {
			a.logger.Printf("login failed: check email and password")
		}
		return errors.New("login failed: check email and password")
	}
	a.cookie = cookie
	a.state.Satisfy(reader.ObtainingAuth)
	return nil
}

func (a *acquirer) runKey(ctx context.Context) error {
	defer func() { a.state.Pending &^= reader.ObtainingKey }()

	url := fmt.Sprintf("https://%s/reg/getkey/%d.asp?auth=%s", a.endpoints.DataHost, a.state.NewEventNo, a.cookie)
	body, err := a.http.Get(ctx, url, nil)
	if err != nil {
		return errors.Wrap(err, "acquirer: key request")
	}
	key, err := parseHexKey(body)
	if err != nil {
		return errors.Wrap(err, "acquirer: parsing key response")
	}
	a.state.CurrentCipherKey = key
	a.state.Satisfy(reader.ObtainingKey)
	return nil
}

func (a *acquirer) runFrame(ctx context.Context) error {
	defer func() { a.state.Pending &^= reader.ObtainingFrame }()

	var url string
	if n := a.state.NewFrameNumber(); n > 0 {
		url = fmt.Sprintf("https://%s/keyframe_%05d.bin", a.endpoints.DataHost, n)
	} else {
		url = fmt.Sprintf("https://%s/keyframe.bin", a.endpoints.DataHost)
	}
	body, err := a.http.Get(ctx, url, nil)
	if err != nil {
		return errors.Wrap(err, "acquirer: frame request")
	}

	fr := a.newFramer()
	packets, err := fr.Feed(body)
	if err != nil {
		return errors.Wrap(err, "acquirer: framing response")
	}
	for i := range packets {
		if err := a.pre.PreHandle(&packets[i], true); err != nil {
			return errors.Wrap(err, "acquirer: pre-handling frame packet")
		}
	}

	a.state.Satisfy(reader.ObtainingFrame)
	return nil
}

func (a *acquirer) runTotalLaps(ctx context.Context) error {
	defer func() { a.state.Pending &^= reader.ObtainingTotalLaps }()

	url := fmt.Sprintf("https://%s/laps.php", a.endpoints.WebHost)
	body, err := a.http.Get(ctx, url, nil)
	if err != nil {
		return errors.Wrap(err, "acquirer: total laps request")
	}
	laps, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return errors.Wrap(err, "acquirer: parsing total laps response")
	}
	p := packet.Packet{Car: 0, Type: int(packet.SysUserTotalLaps), Data: laps, At: a.state.SavingTime}
	if err := a.cache.Push(&p); err != nil {
		return errors.Wrap(err, "acquirer: pushing total laps packet")
	}
	a.state.Satisfy(reader.ObtainingTotalLaps)
	return nil
}

func extractUserCookie(setCookie []string) string {
	for _, sc := range setCookie {
		parts := strings.Split(sc, ";")
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "USER=") {
				return strings.TrimPrefix(p, "USER=")
			}
		}
	}
	return ""
}

func parseHexKey(body []byte) (uint32, error) {
	s := strings.TrimSpace(string(body))
	if len(s) > 8 {
		s = s[:8]
	}
	v, err := hex.DecodeString(padHex(s))
	if err != nil {
		return 0, err
	}
	var key uint32
	for _, b := range v {
		key = key<<8 | uint32(b)
	}
	return key, nil
}

func padHex(s string) string {
	if len(s)%2 != 0 {
		return "0" + s
	}
	return s
}

func firstByteInt(payload []byte) int {
	if len(payload) == 0 {
		return 0
	}
	return int(payload[0])
}
