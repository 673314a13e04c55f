package vquic

import (
	"io"
	"log"
)

// Scripted collaborators shared by the package tests: a datagram socket
// and a protocol engine whose behavior each test sets up explicitly.

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

type fakeSocket struct {
	in       [][]byte
	out      [][]byte
	readErr  error
	writeErr error
	reads    int
	writes   int
}

func (s *fakeSocket) ReadDatagram(buf []byte) (int, error) {
	s.reads++
	if s.readErr != nil {
		return 0, s.readErr
	}
	if len(s.in) == 0 {
		return 0, ErrAgain
	}
	head := s.in[0]
	s.in = s.in[1:]
	return copy(buf, head), nil
}

func (s *fakeSocket) WriteDatagram(buf []byte) (int, error) {
	s.writes++
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	owned := make([]byte, len(buf))
	copy(owned, buf)
	s.out = append(s.out, owned)
	return len(buf), nil
}

func (s *fakeSocket) Close() error { return nil }

type fakeConn struct {
	established bool

	recvd   [][]byte
	recvErr error

	toSend  [][]byte
	sendErr error

	streamData    []byte
	streamFin     bool
	streamRecvErr error

	streamSent    [][]byte
	streamFins    []bool
	streamSendN   int // bytes accepted per call; 0 accepts everything
	streamSendErr error

	closeCalls int
	closeErr   error
}

func (c *fakeConn) Recv(datagram []byte) (int, error) {
	if c.recvErr != nil {
		return 0, c.recvErr
	}
	owned := make([]byte, len(datagram))
	copy(owned, datagram)
	c.recvd = append(c.recvd, owned)
	return len(datagram), nil
}

func (c *fakeConn) Send(buf []byte) (int, error) {
	if c.sendErr != nil {
		return 0, c.sendErr
	}
	if len(c.toSend) == 0 {
		return 0, ErrDone
	}
	head := c.toSend[0]
	c.toSend = c.toSend[1:]
	return copy(buf, head), nil
}

func (c *fakeConn) IsEstablished() bool { return c.established }

func (c *fakeConn) StreamRecv(_ int64, buf []byte) (int, bool, error) {
	if c.streamRecvErr != nil {
		return 0, false, c.streamRecvErr
	}
	if c.streamData == nil {
		return 0, false, ErrDone
	}
	return copy(buf, c.streamData), c.streamFin, nil
}

func (c *fakeConn) StreamSend(_ int64, buf []byte, fin bool) (int, error) {
	if c.streamSendErr != nil {
		return 0, c.streamSendErr
	}
	owned := make([]byte, len(buf))
	copy(owned, buf)
	c.streamSent = append(c.streamSent, owned)
	c.streamFins = append(c.streamFins, fin)
	if c.streamSendN > 0 && c.streamSendN < len(buf) {
		return c.streamSendN, nil
	}
	return len(buf), nil
}

func (c *fakeConn) Close(bool, uint64, string) error {
	c.closeCalls++
	return c.closeErr
}

type fakeEngine struct {
	conn       *fakeConn
	connectErr error
	h3         *fakeH3
	h3Err      error

	gotHost   string
	gotSCID   []byte
	gotParams TransportParams
}

func (e *fakeEngine) Connect(host string, scid []byte, params TransportParams) (Conn, error) {
	e.gotHost = host
	e.gotSCID = append([]byte(nil), scid...)
	e.gotParams = params
	if e.connectErr != nil {
		return nil, e.connectErr
	}
	return e.conn, nil
}

func (e *fakeEngine) NewH3Conn(Conn) (H3Conn, error) {
	if e.h3Err != nil {
		return nil, e.h3Err
	}
	return e.h3, nil
}

type fakeH3 struct {
	streamID int64
	sendErr  error
	events   []Event

	sendCalls  int
	gotFields  []Field
	gotHasBody bool
}

func (h *fakeH3) SendRequest(_ Conn, fields []Field, hasBody bool) (int64, error) {
	h.sendCalls++
	h.gotFields = fields
	h.gotHasBody = hasBody
	if h.sendErr != nil {
		return 0, h.sendErr
	}
	return h.streamID, nil
}

func (h *fakeH3) Poll(Conn) (Event, error) {
	if len(h.events) == 0 {
		return nil, ErrDone
	}
	head := h.events[0]
	h.events = h.events[1:]
	return head, nil
}

type fakeEvent struct {
	kind     EventKind
	sid      int64
	headers  [][2]string
	body     []byte
	zeroRead bool // simulate a body read that yields nothing
	bodyErr  error
}

func (e *fakeEvent) Kind() EventKind { return e.kind }

func (e *fakeEvent) StreamID() int64 { return e.sid }

func (e *fakeEvent) ForEachHeader(fn func(name, value []byte) error) error {
	for _, kv := range e.headers {
		if err := fn([]byte(kv[0]), []byte(kv[1])); err != nil {
			return err
		}
	}
	return nil
}

func (e *fakeEvent) ReadBody(_ Conn, buf []byte) (int, error) {
	if e.bodyErr != nil {
		return 0, e.bodyErr
	}
	if e.zeroRead {
		return 0, nil
	}
	return copy(buf, e.body), nil
}
