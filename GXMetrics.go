package gxframenet

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// GXMetrics holds the Prometheus collectors of a media.
// A nil *GXMetrics records nothing.
type GXMetrics struct {
	framesReceived  prometheus.Counter
	framesSent      prometheus.Counter
	bytesReceived   prometheus.Counter
	bytesSent       prometheus.Counter
	frameErrors     *prometheus.CounterVec
	clientsActive   prometheus.Gauge
	clientsAccepted prometheus.Counter
	clientsRejected prometheus.Counter
	clientsReaped   prometheus.Counter
}

// NewGXMetrics creates the collectors under the given namespace.
// Register them with Register before use.
func NewGXMetrics(namespace string) *GXMetrics {
	return &GXMetrics{
		framesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "received_total",
			Help:      "Total frames read from the network.",
		}),
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "sent_total",
			Help:      "Total frames written to the network.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "received_payload_bytes_total",
			Help:      "Total payload bytes of received frames.",
		}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "sent_payload_bytes_total",
			Help:      "Total payload bytes of sent frames.",
		}),
		frameErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frames",
			Name:      "errors_total",
			Help:      "Framing and transmission errors by kind.",
		}, []string{"kind"}),
		clientsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "active",
			Help:      "Clients in the live registry.",
		}),
		clientsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "accepted_total",
			Help:      "Total clients started.",
		}),
		clientsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "rejected_total",
			Help:      "Total clients vetoed by the client filter.",
		}),
		clientsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "reaped_total",
			Help:      "Total clients released by the reaper.",
		}),
	}
}

// Collectors returns all collectors of m.
func (m *GXMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.framesReceived, m.framesSent, m.bytesReceived, m.bytesSent, m.frameErrors,
		m.clientsActive, m.clientsAccepted, m.clientsRejected, m.clientsReaped,
	}
}

// Register registers all collectors with r.
func (m *GXMetrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *GXMetrics) frameReceived(n int) {
	if m == nil {
		return
	}
	m.framesReceived.Inc()
	m.bytesReceived.Add(float64(n))
}

func (m *GXMetrics) frameSent(n int) {
	if m == nil {
		return
	}
	m.framesSent.Inc()
	m.bytesSent.Add(float64(n))
}

func (m *GXMetrics) frameError(err error) {
	if m == nil {
		return
	}
	m.frameErrors.WithLabelValues(errorKind(err)).Inc()
}

func (m *GXMetrics) clientStarted() {
	if m == nil {
		return
	}
	m.clientsAccepted.Inc()
	m.clientsActive.Inc()
}

func (m *GXMetrics) clientEnded() {
	if m == nil {
		return
	}
	m.clientsActive.Dec()
}

func (m *GXMetrics) clientRejected() {
	if m == nil {
		return
	}
	m.clientsRejected.Inc()
}

func (m *GXMetrics) clientReaped() {
	if m == nil {
		return
	}
	m.clientsReaped.Inc()
}

// errorKind returns the metric label of err.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrMissingParam):
		return "missing_param"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, ErrIO):
		return "io"
	}
	return "other"
}
