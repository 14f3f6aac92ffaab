package wametrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	wametrics "github.com/dantte-lp/gowa/internal/metrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wametrics.NewCollector(reg)

	if c.Sessions == nil {
		t.Error("Sessions is nil")
	}
	if c.StanzasSent == nil {
		t.Error("StanzasSent is nil")
	}
	if c.StanzasReceived == nil {
		t.Error("StanzasReceived is nil")
	}
	if c.StanzasDropped == nil {
		t.Error("StanzasDropped is nil")
	}
	if c.StateTransitions == nil {
		t.Error("StateTransitions is nil")
	}
	if c.AuthFailures == nil {
		t.Error("AuthFailures is nil")
	}

	// Verify all metrics are registered by gathering them.
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	// No data yet, so families may be empty -- but registration must not panic.
	_ = families
}

func TestSetUp(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wametrics.NewCollector(reg)

	c.SetUp(true)

	if val := gaugeValue(t, c.Sessions); val != 1 {
		t.Errorf("after SetUp(true): sessions gauge = %v, want 1", val)
	}

	c.SetUp(false)

	if val := gaugeValue(t, c.Sessions); val != 0 {
		t.Errorf("after SetUp(false): sessions gauge = %v, want 0", val)
	}
}

func TestStanzaCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wametrics.NewCollector(reg)

	c.IncStanzaSent("message")
	c.IncStanzaSent("message")
	c.IncStanzaSent("message")

	if val := counterValue(t, c.StanzasSent, "message"); val != 3 {
		t.Errorf("StanzasSent(message) = %v, want 3", val)
	}

	c.IncStanzaReceived("iq")
	c.IncStanzaReceived("iq")

	if val := counterValue(t, c.StanzasReceived, "iq"); val != 2 {
		t.Errorf("StanzasReceived(iq) = %v, want 2", val)
	}

	c.IncStanzaDropped()

	if val := counterValueNoLabels(t, c.StanzasDropped); val != 1 {
		t.Errorf("StanzasDropped = %v, want 1", val)
	}
}

func TestStateTransition(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wametrics.NewCollector(reg)

	c.RecordStateTransition("Connecting", "Streaming")

	if val := counterValue(t, c.StateTransitions, "Connecting", "Streaming"); val != 1 {
		t.Errorf("StateTransitions(Connecting->Streaming) = %v, want 1", val)
	}

	c.RecordStateTransition("Streaming", "Challenging")

	if val := counterValue(t, c.StateTransitions, "Streaming", "Challenging"); val != 1 {
		t.Errorf("StateTransitions(Streaming->Challenging) = %v, want 1", val)
	}

	c.RecordStateTransition("Connecting", "Streaming")

	if val := counterValue(t, c.StateTransitions, "Connecting", "Streaming"); val != 2 {
		t.Errorf("StateTransitions(Connecting->Streaming) = %v, want 2", val)
	}
}

func TestAuthFailures(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := wametrics.NewCollector(reg)

	c.IncAuthFailures()
	c.IncAuthFailures()

	if val := counterValueNoLabels(t, c.AuthFailures); val != 2 {
		t.Errorf("AuthFailures = %v, want 2", val)
	}
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

// gaugeValue reads the current value of a plain Gauge.
func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetGauge().GetValue()
}

// counterValue reads the current value of a CounterVec with the given labels.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}

// counterValueNoLabels reads the current value of a plain Counter.
func counterValueNoLabels(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}
