// Package vquic runs HTTP requests over a QUIC transport. It adapts the
// client's generic connect/read/write stream contract to an external
// QUIC/HTTP-3 protocol engine: it pumps datagrams between a non-blocking
// socket and the engine, transcodes HTTP/1.1-style header blocks into
// the ordered pseudo-header list the engine's request API expects, and
// maps the engine's event-driven response delivery back onto plain byte
// reads.
package vquic

import (
	"io"
	"log"
	"time"
)

const (
	defaultIdleTimeout = 60 * time.Second
	defaultMaxData     = 1 << 20    // 1 MiB of connection and per-stream flow control
	defaultMaxStreams  = 256 * 1024 // concurrent stream credit offered to the peer
	defaultALPN        = "h3"
)

// Config holds the per-connection tunables. All of them are fixed at
// connect time; nothing here can change on a live connection.
type Config struct {
	IdleTimeout                    time.Duration
	InitialMaxData                 uint64
	InitialMaxStreamDataBidiLocal  uint64
	InitialMaxStreamDataBidiRemote uint64
	InitialMaxStreamDataUni        uint64
	InitialMaxStreamsBidi          uint64
	InitialMaxStreamsUni           uint64
	ApplicationProtocol            string // ALPN identifier
	Secure                         bool   // selects :scheme https vs http
	// OnHeader observes each response header field as it is delivered.
	// A failure is logged and never aborts the receive; nil installs a
	// logging observer.
	OnHeader func(name, value []byte) error
	Logger   *log.Logger
}

// newSilentLogger creates a logger that discards all output.
func newSilentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// DefaultConfig returns a Config with the transport defaults: 60s idle
// timeout, 1 MiB flow-control windows and 256Ki streams in each
// direction.
func DefaultConfig() Config {
	return Config{
		IdleTimeout:                    defaultIdleTimeout,
		InitialMaxData:                 defaultMaxData,
		InitialMaxStreamDataBidiLocal:  defaultMaxData,
		InitialMaxStreamDataBidiRemote: defaultMaxData,
		InitialMaxStreamDataUni:        defaultMaxData,
		InitialMaxStreamsBidi:          defaultMaxStreams,
		InitialMaxStreamsUni:           defaultMaxStreams,
		ApplicationProtocol:            defaultALPN,
		Secure:                         true,
		Logger:                         newSilentLogger(),
	}
}

// Validate checks and normalizes the configuration values.
func (c *Config) Validate() error {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = defaultIdleTimeout
	}
	if c.InitialMaxData == 0 {
		c.InitialMaxData = defaultMaxData
	}
	if c.InitialMaxStreamDataBidiLocal == 0 {
		c.InitialMaxStreamDataBidiLocal = defaultMaxData
	}
	if c.InitialMaxStreamDataBidiRemote == 0 {
		c.InitialMaxStreamDataBidiRemote = defaultMaxData
	}
	if c.InitialMaxStreamDataUni == 0 {
		c.InitialMaxStreamDataUni = defaultMaxData
	}
	if c.InitialMaxStreamsBidi == 0 {
		c.InitialMaxStreamsBidi = defaultMaxStreams
	}
	if c.InitialMaxStreamsUni == 0 {
		c.InitialMaxStreamsUni = defaultMaxStreams
	}
	if c.ApplicationProtocol == "" {
		c.ApplicationProtocol = defaultALPN
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return nil
}

// transportParams projects the engine-facing subset of the config.
func (c *Config) transportParams() TransportParams {
	return TransportParams{
		IdleTimeout:                    c.IdleTimeout,
		InitialMaxData:                 c.InitialMaxData,
		InitialMaxStreamDataBidiLocal:  c.InitialMaxStreamDataBidiLocal,
		InitialMaxStreamDataBidiRemote: c.InitialMaxStreamDataBidiRemote,
		InitialMaxStreamDataUni:        c.InitialMaxStreamDataUni,
		InitialMaxStreamsBidi:          c.InitialMaxStreamsBidi,
		InitialMaxStreamsUni:           c.InitialMaxStreamsUni,
		ApplicationProtocol:            c.ApplicationProtocol,
	}
}
