package vquic

import (
	"errors"
	"fmt"
)

const (
	// maxDatagramSize bounds every egress datagram to the safe QUIC
	// payload size for an unverified path.
	maxDatagramSize = 1200
	// maxIngressSize fits the largest UDP payload the socket can hand
	// over in one read.
	maxIngressSize = 65535
)

// processIngress drains pending datagrams from the socket into the
// engine. It stops cleanly when the socket would block or the engine
// reports it is done consuming; any other failure on either side is
// fatal for the connection and nothing is retried.
func processIngress(sess *quicSession, sock DatagramConn) error {
	for {
		n, err := sock.ReadDatagram(sess.ingress)
		if errors.Is(err, ErrAgain) {
			return nil
		}
		if err != nil {
			return &RecvError{Err: fmt.Errorf("socket read: %w", err)}
		}
		datagramsReceived.Inc()
		ingressBytes.Add(float64(n))

		if _, err := sess.conn.Recv(sess.ingress[:n]); err != nil {
			if errors.Is(err, ErrDone) {
				return nil
			}
			return &RecvError{Err: fmt.Errorf("engine recv: %w", err)}
		}
	}
}

// flushEgress asks the engine for outgoing datagrams and writes each
// one to the socket until the engine runs dry. A connection with
// nothing queued performs zero socket writes.
func flushEgress(sess *quicSession, sock DatagramConn) error {
	for {
		n, err := sess.conn.Send(sess.egress)
		if errors.Is(err, ErrDone) {
			return nil
		}
		if err != nil {
			return &SendError{Err: fmt.Errorf("engine send: %w", err)}
		}

		if _, err := sock.WriteDatagram(sess.egress[:n]); err != nil {
			return &SendError{Err: fmt.Errorf("socket write: %w", err)}
		}
		datagramsSent.Inc()
		egressBytes.Add(float64(n))
	}
}
