package vquic

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("vquic")

// connIDLen is the fixed length of the locally chosen source
// connection ID.
const connIDLen = 16

type connState int

const (
	stateConnecting connState = iota
	stateEstablished
)

// quicSession is the per-connection state: the engine handles, the
// socket, the source connection ID and the session-owned scratch
// buffers. A session is exclusively owned by the connection driver that
// created it; nothing here is shared across goroutines.
type quicSession struct {
	conn   Conn
	h3     H3Conn
	params TransportParams
	scid   [connIDLen]byte
	sock   DatagramConn

	// Each session owns its pump buffers so concurrent connections
	// never interfere through shared scratch space.
	ingress []byte
	egress  []byte

	req requestState
}

// requestState tracks the single in-flight request on the connection.
type requestState struct {
	opened   bool // HTTP/3 context created and request submitted
	streamID int64
	hasBody  bool
	// uploadLeft counts the body bytes still expected from the caller;
	// -1 means a nonzero amount of unknown size.
	uploadLeft int64
}

// streamIO is the read/write capability installed when the handshake
// completes. Selecting an interface value exactly once replaces the
// mutable function-pointer dispatch the pump model would otherwise
// need.
type streamIO interface {
	Send(p []byte) (int, error)
	Recv(p []byte) (int, error)
}

// Transport runs HTTP requests over one QUIC connection attempt. It
// exposes the generic send/recv contract the surrounding request engine
// expects from any connection, and drives the engine synchronously:
// every call makes protocol progress itself, there is no background
// task. A Transport belongs to a single connection driver and is not
// safe for concurrent use.
type Transport struct {
	cfg   Config
	eng   Engine
	sess  *quicSession
	state connState
	io    streamIO
	span  trace.Span
}

// NewTransport validates cfg and builds a transport bound to the given
// protocol engine.
func NewTransport(eng Engine, cfg Config) (*Transport, error) {
	if eng == nil {
		return nil, errors.New("vquic: nil engine")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Transport{cfg: cfg, eng: eng, state: stateConnecting}, nil
}

// Connect builds the engine configuration, generates the source
// connection ID from a cryptographically secure source, opens the
// engine connection to host and flushes the client Initial onto the
// wire. sock must already be connected and non-blocking. On failure no
// usable session is left behind.
func (t *Transport) Connect(ctx context.Context, host string, sock DatagramConn) error {
	sess := &quicSession{
		params:  t.cfg.transportParams(),
		sock:    sock,
		ingress: make([]byte, maxIngressSize),
		egress:  make([]byte, maxDatagramSize),
	}
	sess.req.streamID = -1

	if _, err := rand.Read(sess.scid[:]); err != nil {
		return &InitError{Op: "connection id", Err: err}
	}

	conn, err := t.eng.Connect(host, sess.scid[:], sess.params)
	if err != nil {
		return &InitError{Op: "connect", Err: err}
	}
	sess.conn = conn

	_, span := tracer.Start(ctx, "vquic.connection",
		trace.WithAttributes(
			attribute.String("server.address", host),
			attribute.String("tls.next_protocol", sess.params.ApplicationProtocol),
		))

	if err := flushEgress(sess, sock); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "initial flush")
		span.End()
		return &InitError{Op: "initial flush", Err: err}
	}

	t.sess = sess
	t.span = span
	t.cfg.Logger.Printf("vquic: sent client Initial to %s, ALPN %q", host, sess.params.ApplicationProtocol)
	return nil
}

// IsConnected drives the handshake one step: ingress, egress, then the
// engine's completion check. done turns true when the connection is
// established and never reverts; once established the call keeps
// pumping but is otherwise a no-op.
func (t *Transport) IsConnected() (done bool, err error) {
	sess := t.sess
	if sess == nil {
		return false, &InitError{Op: "probe", Err: errors.New("no session")}
	}

	if err := processIngress(sess, sess.sock); err != nil {
		return false, err
	}
	if err := flushEgress(sess, sess.sock); err != nil {
		return false, err
	}

	if t.state == stateEstablished {
		return true, nil
	}

	if sess.conn.IsEstablished() {
		t.state = stateEstablished
		t.io = &h3IO{t: t}
		handshakesEstablished.Inc()
		if t.span != nil {
			t.span.AddEvent("handshake.established")
		}
		t.cfg.Logger.Printf("vquic: connection established")
		return true, nil
	}
	return false, nil
}

// Send submits request bytes to the connection: the header block on the
// first call, body bytes afterwards. It reports how many bytes were
// consumed.
func (t *Transport) Send(p []byte) (int, error) {
	if t.io == nil {
		return 0, &SendError{Err: errNotEstablished}
	}
	return t.io.Send(p)
}

// Recv reads response bytes into p. It returns ErrAgain when the engine
// has nothing to deliver yet; the caller re-invokes on the next socket
// readiness notification.
func (t *Transport) Recv(p []byte) (int, error) {
	if t.io == nil {
		return 0, &RecvError{Err: errNotEstablished}
	}
	return t.io.Recv(p)
}

// Disconnect tears the connection down by discarding the session.
// Engine-side draining (CONNECTION_CLOSE plus a final egress flush) is
// not performed yet; the hook exists so the outer client has a single
// teardown point once that lands.
func (t *Transport) Disconnect() error {
	if t.span != nil {
		t.span.End()
		t.span = nil
	}
	t.sess = nil
	t.io = nil
	return nil
}

// Conncheck reports whether the connection still looks usable. A real
// liveness probe needs engine support that is not wired up; every
// connection is assumed healthy.
func (t *Transport) Conncheck() bool {
	return true
}

// Version identifies this transport for the client's version banner.
func Version() string {
	return "vquic"
}

// String implements fmt.Stringer for log output.
func (t *Transport) String() string {
	state := "connecting"
	if t.state == stateEstablished {
		state = "established"
	}
	return fmt.Sprintf("vquic(%s)", state)
}
