package vquic

import "time"

// TransportParams is the engine configuration fixed once at connect
// time. None of these values are tunable after the handshake starts.
type TransportParams struct {
	IdleTimeout                    time.Duration
	InitialMaxData                 uint64
	InitialMaxStreamDataBidiLocal  uint64
	InitialMaxStreamDataBidiRemote uint64
	InitialMaxStreamDataUni        uint64
	InitialMaxStreamsBidi          uint64
	InitialMaxStreamsUni           uint64
	// ApplicationProtocol is the ALPN identifier offered during the
	// handshake.
	ApplicationProtocol string
}

// Engine is the external QUIC/HTTP-3 protocol engine. It owns the
// handshake, encryption, congestion control, stream multiplexing and
// framing; this package only pumps bytes in and out of it.
type Engine interface {
	// Connect opens a client connection to host using the given source
	// connection ID and transport parameters.
	Connect(host string, scid []byte, params TransportParams) (Conn, error)
	// NewH3Conn creates an HTTP/3 request context bound to an
	// established QUIC connection.
	NewH3Conn(conn Conn) (H3Conn, error)
}

// Conn is one QUIC connection inside the engine.
type Conn interface {
	// Recv feeds one received datagram to the engine. ErrDone means the
	// engine has nothing to consume.
	Recv(datagram []byte) (int, error)
	// Send asks the engine to produce the next outgoing datagram into
	// buf. ErrDone means nothing is left to send.
	Send(buf []byte) (int, error)
	IsEstablished() bool
	// StreamRecv reads stream payload into buf. ErrDone means no data
	// is available yet. fin reports whether the peer finished the
	// stream.
	StreamRecv(streamID int64, buf []byte) (n int, fin bool, err error)
	// StreamSend writes buf to the stream, finalizing it when fin is
	// set. It returns how many bytes the engine accepted.
	StreamSend(streamID int64, buf []byte, fin bool) (int, error)
	// Close starts connection shutdown with an application error code
	// and reason.
	Close(app bool, code uint64, reason string) error
}

// H3Conn is the engine's HTTP/3 layer on top of one Conn.
type H3Conn interface {
	// SendRequest submits a request header list. hasBody announces that
	// body bytes will follow on the returned stream; a request without
	// a body is final as submitted.
	SendRequest(conn Conn, fields []Field, hasBody bool) (streamID int64, err error)
	// Poll pops the next pending HTTP/3 event, or ErrDone when the
	// queue is empty.
	Poll(conn Conn) (Event, error)
}

// EventKind tags the variants of the engine's HTTP/3 event queue.
type EventKind int

const (
	// EventHeaders delivers the response header section.
	EventHeaders EventKind = iota
	// EventData announces readable response body bytes.
	EventData
	// EventFinished marks the end of the response stream.
	EventFinished
)

func (k EventKind) String() string {
	switch k {
	case EventHeaders:
		return "headers"
	case EventData:
		return "data"
	case EventFinished:
		return "finished"
	}
	return "unknown"
}

// Event is one entry from the engine's per-connection HTTP/3 event
// queue.
type Event interface {
	Kind() EventKind
	StreamID() int64
	// ForEachHeader iterates the delivered header fields. Only
	// meaningful for EventHeaders.
	ForEachHeader(fn func(name, value []byte) error) error
	// ReadBody copies response body bytes into buf. Only meaningful for
	// EventData.
	ReadBody(conn Conn, buf []byte) (int, error)
}
