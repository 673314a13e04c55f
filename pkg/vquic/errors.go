package vquic

import "errors"

// ErrAgain signals that no data is available right now and the caller
// must retry the operation later. The datagram socket returns it for a
// would-block read, and Recv returns it when the request stream has
// nothing to deliver yet. It is not a failure.
var ErrAgain = errors.New("vquic: no data available yet")

// ErrDone is the engine's "nothing pending" sentinel: Conn.Recv has
// nothing left to consume, Conn.Send nothing left to produce, and
// H3Conn.Poll an empty event queue.
var ErrDone = errors.New("vquic: engine done")

var errNotEstablished = errors.New("connection not established")

// InitError reports a failure while bootstrapping a QUIC connection:
// engine configuration, connection ID generation, the engine connect
// call, or the initial egress flush.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string { return "vquic: init " + e.Op + ": " + e.Err.Error() }

func (e *InitError) Unwrap() error { return e.Err }

// RecvError reports a fatal ingress failure, from either the socket or
// the engine's packet decoder.
type RecvError struct {
	Err error
}

func (e *RecvError) Error() string { return "vquic: recv: " + e.Err.Error() }

func (e *RecvError) Unwrap() error { return e.Err }

// SendError reports a fatal egress failure: the engine refusing a
// stream write, producing packets, or the socket rejecting a datagram.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return "vquic: send: " + e.Err.Error() }

func (e *SendError) Unwrap() error { return e.Err }

// HeaderError reports a malformed request header block. The request is
// refused before any engine call is made.
type HeaderError struct {
	Reason string
}

func (e *HeaderError) Error() string { return "vquic: header block: " + e.Reason }
