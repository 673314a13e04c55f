package vquic

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// h3IO is the stream I/O capability installed at establishment. It maps
// the engine's event-driven response delivery onto the caller's plain
// byte-buffer reads and writes.
type h3IO struct {
	t *Transport
}

// Send handles one caller write. The first call carries the request
// header block: it is transcoded, the HTTP/3 context is created lazily
// and the request is submitted, with the full input reported as
// consumed. Later calls stream body bytes to the open request stream.
func (h *h3IO) Send(p []byte) (int, error) {
	t := h.t
	sess := t.sess

	if !sess.req.opened {
		if err := h.sendRequest(p); err != nil {
			return 0, err
		}
		return len(p), nil
	}

	// A known upload length finalizes the stream on the write that
	// exhausts it; unknown-length uploads leave the stream open for the
	// outer client to finish.
	fin := sess.req.uploadLeft > 0 && int64(len(p)) == sess.req.uploadLeft
	n, err := sess.conn.StreamSend(sess.req.streamID, p, fin)
	if err != nil {
		return 0, &SendError{Err: fmt.Errorf("stream send: %w", err)}
	}
	if sess.req.uploadLeft > 0 {
		sess.req.uploadLeft -= int64(n)
	}

	// Push the bytes out before returning to the caller, every time.
	if err := flushEgress(sess, sess.sock); err != nil {
		return 0, err
	}
	return n, nil
}

// sendRequest transcodes the header block, creates the HTTP/3 context
// and submits the request. Body-bearing methods announce a body and
// record the expected upload length; everything else is final as
// submitted.
func (h *h3IO) sendRequest(block []byte) error {
	t := h.t
	sess := t.sess

	head, err := transcodeHeaderBlock(block, t.cfg.Secure, t.cfg.Logger)
	if err != nil {
		return err
	}

	h3c, err := t.eng.NewH3Conn(sess.conn)
	if err != nil {
		return &SendError{Err: fmt.Errorf("h3 context: %w", err)}
	}

	hasBody := methodHasBody(head.method)
	streamID, err := h3c.SendRequest(sess.conn, head.fields, hasBody)
	if err != nil {
		return &SendError{Err: fmt.Errorf("send request: %w", err)}
	}

	sess.h3 = h3c
	sess.req = requestState{opened: true, streamID: streamID, hasBody: hasBody}
	if hasBody {
		if head.contentLength >= 0 {
			sess.req.uploadLeft = head.contentLength
		} else {
			// Body bytes will come without a declared amount: unknown,
			// but not zero.
			sess.req.uploadLeft = -1
		}
	}

	requestsStarted.Inc()
	if t.span != nil {
		t.span.AddEvent("request.started", trace.WithAttributes(
			attribute.Int64("http3.stream_id", streamID),
			attribute.String("http.request.method", string(head.method)),
		))
	}
	t.cfg.Logger.Printf("vquic: using HTTP/3 stream %d", streamID)

	return flushEgress(sess, sess.sock)
}

// Recv handles one caller read: drive ingress, read the request stream,
// then drain the engine's HTTP/3 event queue. The returned count is
// whichever was established last by the stream read or a body read
// inside the event loop.
func (h *h3IO) Recv(p []byte) (int, error) {
	t := h.t
	sess := t.sess

	if err := processIngress(sess, sess.sock); err != nil {
		return 0, err
	}

	n, _, err := sess.conn.StreamRecv(sess.req.streamID, p)
	if errors.Is(err, ErrDone) {
		return 0, ErrAgain
	}
	if err != nil {
		return 0, &RecvError{Err: fmt.Errorf("stream recv: %w", err)}
	}

	if sess.h3 == nil {
		return n, nil
	}

	for {
		ev, err := sess.h3.Poll(sess.conn)
		if err != nil {
			// ErrDone or any poll failure: nothing more to do.
			break
		}
		h3Events.WithLabelValues(ev.Kind().String()).Inc()

		switch ev.Kind() {
		case EventHeaders:
			if err := ev.ForEachHeader(h.observeHeader); err != nil {
				// Non-fatal: the response is still delivered even when
				// the observer refuses a field.
				t.cfg.Logger.Printf("vquic: header observer: %v", err)
			}
		case EventData:
			// A body read of zero or fewer bytes leaves the previously
			// established count untouched, which can misreport to the
			// caller. Kept as-is pending a design decision on
			// signaling "no new data" explicitly.
			if m, err := ev.ReadBody(sess.conn, p); err == nil && m > 0 {
				n = m
			}
		case EventFinished:
			if err := sess.conn.Close(true, 0, ""); err != nil {
				t.cfg.Logger.Printf("vquic: close after finished stream: %v", err)
			}
		}
	}

	return n, nil
}

// observeHeader forwards one response header field to the configured
// observer, or logs it when none is set.
func (h *h3IO) observeHeader(name, value []byte) error {
	if h.t.cfg.OnHeader != nil {
		return h.t.cfg.OnHeader(name, value)
	}
	h.t.cfg.Logger.Printf("vquic: h3 header %s: %s", name, value)
	return nil
}
