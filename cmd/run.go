package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"livetiming/application"
	"livetiming/domain/model"
	domainreader "livetiming/domain/reader"
	"livetiming/infrastructure/acquirer"
	"livetiming/infrastructure/cipher"
	"livetiming/infrastructure/clock"
	"livetiming/infrastructure/framer"
	"livetiming/infrastructure/httpclient"
	"livetiming/infrastructure/keyreverser"
	"livetiming/infrastructure/logging"
	"livetiming/infrastructure/modelupdater"
	"livetiming/infrastructure/packetcache"
	inforeader "livetiming/infrastructure/reader"
	"livetiming/presentation"
	"livetiming/settings"
)

const (
	dataHost = "live-timing.formula1.com"
	authHost = "www.formula1.com"
	webHost  = "www.formula1.com"
	tcpPort  = "4321"

	reconnectBackoffMin = 1 * time.Second
	reconnectBackoffMax = 30 * time.Second
)

func runRoot(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	level := logging.LevelWarn
	switch {
	case debug:
		level = logging.LevelDebug
	case verboseCount >= 2:
		level = logging.LevelDebug
	case verboseCount == 1:
		level = logging.LevelInfo
	}
	logger := logging.New(level)

	cachePath := filePath
	if cachePath == "" {
		home, ok := os.LookupEnv("HOME")
		if !ok || home == "" {
			return exitError{code: presentation.ExitSetupFailure, message: "HOME is not set"}
		}
		cachePath = filepath.Join(home, ".f1data")
	}

	cache, err := packetcache.New(cachePath, replay)
	if err != nil {
		return exitError{code: presentation.ExitSetupFailure, message: err.Error()}
	}
	defer cache.Close()

	mgr := settings.NewManager()
	creds, err := resolveCredentials(mgr)
	if err != nil {
		return exitError{code: presentation.ExitSetupFailure, message: err.Error()}
	}

	state := domainreader.New()
	state.Username, state.Password = creds.Email, creds.Password
	state.Host = firstNonEmpty(creds.Host, dataHost)

	if noKey {
		state.Obtaining &^= domainreader.ObtainingKey
		state.CurrentCipherKey = 0
	}
	if keyOverride != "" {
		key, err := parseHexKeyFlag(keyOverride)
		if err != nil {
			return exitError{code: presentation.ExitSetupFailure, message: fmt.Sprintf("--key: %v", err)}
		}
		state.Obtaining &^= domainreader.ObtainingKey
		state.CurrentCipherKey = key
	}

	httpClient := httpclient.New(15 * time.Second)
	authHostResolved := firstNonEmpty(creds.AuthHost, authHost)
	endpoints := acquirer.Endpoints{AuthHost: authHostResolved, DataHost: state.Host, WebHost: webHost}
	newFramer := func() application.Framer { return framer.New(logger) }
	acq := acquirer.New(endpoints, creds.Email, creds.Password, httpClient, cache, logger, state, newFramer)

	reverser := keyreverser.New()
	pre := inforeader.New(state, reverser, cache, acq, logger)
	acq.SetReader(pre)

	modelState := model.New()
	modelCipher := cipher.New(0)
	updater := modelupdater.New(modelState, modelCipher, logger)

	events := make(chan application.ViewEvent, 64)
	sink := presentation.NewInfoSink(events)

	clk := clock.New(state, modelState, cache, updater, sink, func() int64 { return time.Now().Unix() })

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	go func() { errs <- clk.Run(runCtx) }()
	go func() { errs <- runAcquisitionLoop(runCtx, acq, state, logger) }()
	if !replay {
		go func() { errs <- runStreamLoop(runCtx, state, pre, logger) }()
	}

	adjustGap := func(delta int64) { clk.AdjustGap(delta) }
	setPaused := func(paused bool) { clk.SetPaused(paused) }
	program := presentation.NewProgram(modelState, events, adjustGap, setPaused)

	code, err := program.Run()
	cancel()
	if err != nil {
		return exitError{code: presentation.ExitSetupFailure, message: err.Error()}
	}
	if code != presentation.ExitSuccess {
		return exitError{code: code}
	}

	select {
	case err := <-errs:
		if err != nil && err != context.Canceled {
			return exitError{code: presentation.ExitStreamFailure, message: err.Error()}
		}
	default:
	}
	return nil
}

// runAcquisitionLoop drives the Acquirer's AUTH/KEY/FRAME/TOTAL_LAPS
// state machine at the same cadence as the tick loop (spec.md §4.5).
// A failed request is logged and retried on a later tick; only a
// rejected login ends the loop.
func runAcquisitionLoop(ctx context.Context, acq application.Acquirer, state *domainreader.StateReader, logger application.Logger) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := acq.Run(ctx); err != nil {
				if state.StopReason == domainreader.StopBadAuth {
					return err
				}
				logger.Printf("acquirer: %v", err)
			}
		}
	}
}

// runStreamLoop dials the live TCP feed and feeds bytes through the
// Framer into the Reader's pre-handler, reconnecting with exponential
// backoff on failure (spec.md §6.3, §7).
func runStreamLoop(ctx context.Context, state *domainreader.StateReader, pre application.Reader, logger application.Logger) error {
	fr := framer.New(logger)
	backoff := reconnectBackoffMin

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		dialer := net.Dialer{Timeout: 10 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(state.Host, tcpPort))
		if err != nil {
			logger.Printf("stream: dial failed: %v", err)
			if !sleepBackoff(ctx, &backoff) {
				return ctx.Err()
			}
			continue
		}

		err = readStream(ctx, conn, fr, pre)
		conn.Close()
		if err != nil {
			logger.Printf("stream: connection lost: %v", err)
		}
		state.StopReason = domainreader.StopNoFeed
		if !sleepBackoff(ctx, &backoff) {
			return ctx.Err()
		}
	}
}

func readStream(ctx context.Context, conn net.Conn, fr application.Framer, pre application.Reader) error {
	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := conn.Read(buf)
		if n > 0 {
			packets, ferr := fr.Feed(buf[:n])
			if ferr != nil {
				return ferr
			}
			for i := range packets {
				if herr := pre.PreHandle(&packets[i], false); herr != nil {
					return herr
				}
			}
		}
		if err != nil {
			return err
		}
	}
}

func sleepBackoff(ctx context.Context, backoff *time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(*backoff):
	}
	*backoff *= 2
	if *backoff > reconnectBackoffMax {
		*backoff = reconnectBackoffMax
	}
	return true
}

func parseHexKeyFlag(s string) (uint32, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return 0, err
	}
	var key uint32
	for _, v := range b {
		key = key<<8 | uint32(v)
	}
	return key, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
