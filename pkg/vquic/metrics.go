package vquic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datagramsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_datagrams_received_total",
			Help: "Total datagrams drained from the socket into the engine",
		},
	)

	datagramsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_datagrams_sent_total",
			Help: "Total datagrams produced by the engine and written to the socket",
		},
	)

	ingressBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_ingress_bytes_total",
			Help: "Total bytes received from the socket",
		},
	)

	egressBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_egress_bytes_total",
			Help: "Total bytes written to the socket",
		},
	)

	handshakesEstablished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_handshakes_established_total",
			Help: "Total QUIC handshakes observed complete",
		},
	)

	requestsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_requests_started_total",
			Help: "Total HTTP/3 requests submitted to the engine",
		},
	)

	h3Events = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vquic_h3_events_total",
			Help: "Total HTTP/3 events drained from the engine, by kind",
		},
		[]string{"kind"},
	)

	oversizedHeaderBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vquic_oversized_header_blocks_total",
			Help: "Total requests whose cumulative header length exceeded the soft budget",
		},
	)
)
