package vquic

import (
	"fmt"
	"log"
	"sync"

	"github.com/panjf2000/gnet/v2"
)

// DatagramConn is the non-blocking datagram socket the adapter drives.
// ReadDatagram returns ErrAgain when no datagram is pending; it never
// blocks. WriteDatagram queues one datagram for transmission and
// reports its full length on success.
type DatagramConn interface {
	ReadDatagram(buf []byte) (int, error)
	WriteDatagram(buf []byte) (int, error)
	Close() error
}

// gnetSocket adapts a gnet UDP client connection to DatagramConn. The
// gnet event loop delivers datagrams on OnTraffic; they are copied into
// a queue that ReadDatagram pops without blocking. Writes go through
// AsyncWrite so the pump never waits on the kernel either.
type gnetSocket struct {
	mu     sync.Mutex
	queue  [][]byte
	conn   gnet.Conn
	client *gnet.Client
	closed bool
	logger *log.Logger
}

// socketEvents receives gnet events for one dialed socket.
type socketEvents struct {
	gnet.BuiltinEventEngine
	sock *gnetSocket
}

// OnTraffic queues each received datagram. gnet reuses its read buffer
// after the callback returns, so the payload is copied out.
func (ev *socketEvents) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Next(-1)
	if err != nil {
		ev.sock.logger.Printf("vquic: socket read event: %v", err)
		return gnet.Close
	}
	ev.sock.enqueue(buf)
	return gnet.None
}

func (ev *socketEvents) OnClose(_ gnet.Conn, err error) gnet.Action {
	ev.sock.mu.Lock()
	ev.sock.closed = true
	ev.sock.mu.Unlock()
	if err != nil {
		ev.sock.logger.Printf("vquic: socket closed: %v", err)
	}
	return gnet.None
}

// Dial opens a connected non-blocking UDP socket to addr, backed by a
// dedicated gnet client event loop.
func Dial(addr string, logger *log.Logger) (DatagramConn, error) {
	if logger == nil {
		logger = newSilentLogger()
	}
	s := &gnetSocket{logger: logger}

	client, err := gnet.NewClient(&socketEvents{sock: s})
	if err != nil {
		return nil, fmt.Errorf("vquic: gnet client: %w", err)
	}
	if err := client.Start(); err != nil {
		return nil, fmt.Errorf("vquic: gnet start: %w", err)
	}
	conn, err := client.Dial("udp", addr)
	if err != nil {
		_ = client.Stop()
		return nil, fmt.Errorf("vquic: dial %s: %w", addr, err)
	}

	s.client = client
	s.conn = conn
	return s, nil
}

func (s *gnetSocket) enqueue(datagram []byte) {
	owned := make([]byte, len(datagram))
	copy(owned, datagram)

	s.mu.Lock()
	s.queue = append(s.queue, owned)
	s.mu.Unlock()
}

// ReadDatagram pops the oldest queued datagram into buf. A datagram
// larger than buf is truncated to len(buf), matching recv() semantics.
func (s *gnetSocket) ReadDatagram(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		if s.closed {
			return 0, fmt.Errorf("vquic: socket closed")
		}
		return 0, ErrAgain
	}
	head := s.queue[0]
	s.queue = s.queue[1:]
	return copy(buf, head), nil
}

// WriteDatagram hands one datagram to the event loop for transmission.
func (s *gnetSocket) WriteDatagram(buf []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, fmt.Errorf("vquic: socket closed")
	}

	// AsyncWrite completes after this call returns; the datagram is
	// copied so the caller can reuse buf immediately.
	owned := make([]byte, len(buf))
	copy(owned, buf)
	if err := s.conn.AsyncWrite(owned, nil); err != nil {
		return 0, err
	}
	return len(buf), nil
}

func (s *gnetSocket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.conn.Close()
	if s.client != nil {
		if stopErr := s.client.Stop(); err == nil {
			err = stopErr
		}
	}
	return err
}
