// Package wametrics exposes Prometheus metrics for a gowa client session.
package wametrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// -------------------------------------------------------------------------
// Prometheus Metric Constants
// -------------------------------------------------------------------------

const (
	namespace = "gowa"
	subsystem = "session"
)

// Label names for session metrics.
const (
	labelKind      = "stanza_kind"
	labelFromState = "from_state"
	labelToState   = "to_state"
)

// -------------------------------------------------------------------------
// Collector — Prometheus Session Metrics
// -------------------------------------------------------------------------

// Collector holds all gowa Prometheus metrics.
//
//   - Sessions tracks whether the current connection is up.
//   - Stanza counters track sent/received/dropped volumes per stanza kind.
//   - State transition counters record FSM changes for alerting.
//   - AuthFailures counts handshake rejections.
type Collector struct {
	// Sessions is 1 while the connection is in StateSteady, 0 otherwise.
	Sessions prometheus.Gauge

	// StanzasSent counts stanzas transmitted, labeled by top-level tag.
	StanzasSent *prometheus.CounterVec

	// StanzasReceived counts stanzas received, labeled by top-level tag.
	StanzasReceived *prometheus.CounterVec

	// StanzasDropped counts inbound stanzas that matched no dispatch
	// predicate.
	StanzasDropped prometheus.Counter

	// StateTransitions counts FSM state transitions, labeled by old and
	// new state.
	StateTransitions *prometheus.CounterVec

	// AuthFailures counts handshake rejections (failure stanzas).
	AuthFailures prometheus.Counter
}

// NewCollector creates a Collector with all metrics registered against
// reg. If reg is nil, prometheus.DefaultRegisterer is used.
//
// All metrics are created with the "gowa_session_" prefix
// (namespace_subsystem) to avoid collisions with other exporters.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.Sessions,
		c.StanzasSent,
		c.StanzasReceived,
		c.StanzasDropped,
		c.StateTransitions,
		c.AuthFailures,
	)

	return c
}

// newMetrics creates all Prometheus metric vectors without registering them.
func newMetrics() *Collector {
	kindLabels := []string{labelKind}
	transitionLabels := []string{labelFromState, labelToState}

	return &Collector{
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "up",
			Help:      "1 if the session is currently in the Steady state, 0 otherwise.",
		}),

		StanzasSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stanzas_sent_total",
			Help:      "Total stanzas transmitted, labeled by top-level tag.",
		}, kindLabels),

		StanzasReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stanzas_received_total",
			Help:      "Total stanzas received, labeled by top-level tag.",
		}, kindLabels),

		StanzasDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stanzas_dropped_total",
			Help:      "Total inbound stanzas matched by no dispatch predicate.",
		}),

		StateTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state_transitions_total",
			Help:      "Total session FSM state transitions.",
		}, transitionLabels),

		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "auth_failures_total",
			Help:      "Total handshake rejections (failure stanzas received).",
		}),
	}
}

// -------------------------------------------------------------------------
// Session Lifecycle
// -------------------------------------------------------------------------

// SetUp sets the session-up gauge. Called on every FSM transition.
func (c *Collector) SetUp(up bool) {
	if up {
		c.Sessions.Set(1)
		return
	}

	c.Sessions.Set(0)
}

// -------------------------------------------------------------------------
// Stanza Counters
// -------------------------------------------------------------------------

// IncStanzaSent increments the transmitted stanza counter for kind (the
// stanza's top-level tag, e.g. "message", "iq", "presence").
func (c *Collector) IncStanzaSent(kind string) {
	c.StanzasSent.WithLabelValues(kind).Inc()
}

// IncStanzaReceived increments the received stanza counter for kind.
func (c *Collector) IncStanzaReceived(kind string) {
	c.StanzasReceived.WithLabelValues(kind).Inc()
}

// IncStanzaDropped increments the dropped-stanza counter. Called when
// ServiceLoop decodes a stanza that no registered predicate matches.
func (c *Collector) IncStanzaDropped() {
	c.StanzasDropped.Inc()
}

// -------------------------------------------------------------------------
// State Transitions
// -------------------------------------------------------------------------

// RecordStateTransition increments the state transition counter with the
// old and new state labels.
func (c *Collector) RecordStateTransition(from, to string) {
	c.StateTransitions.WithLabelValues(from, to).Inc()
}

// -------------------------------------------------------------------------
// Authentication
// -------------------------------------------------------------------------

// IncAuthFailures increments the handshake-rejection counter.
func (c *Collector) IncAuthFailures() {
	c.AuthFailures.Inc()
}
