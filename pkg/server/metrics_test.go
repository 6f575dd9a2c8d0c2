package server

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("test"),
		WithConstLabels(prometheus.Labels{"app": "todo"}),
		WithBuckets([]float64{0.001, 0.01}),
	)

	m.sessionRegistered()
	m.event("onClick")
	m.disconnect(ReasonClosed)
	m.observeRender(0.005)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
		for _, metric := range f.GetMetric() {
			found := false
			for _, l := range metric.GetLabel() {
				if l.GetName() == "app" && l.GetValue() == "todo" {
					found = true
				}
			}
			if !found {
				t.Errorf("%s: missing const label app=todo", f.GetName())
			}
		}
	}

	for _, want := range []string{
		"test_sessions_active",
		"test_sessions_total",
		"test_events_total",
		"test_disconnects_total",
		"test_render_duration_seconds",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestMetricsValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	m.sessionRegistered()
	m.sessionRegistered()
	m.sessionRemoved()
	m.frameSent(3)
	m.frameSent(2)
	m.decodeError()
	m.acceptRejectedInc()

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"sessions_active", m.sessionsActive, 1},
		{"sessions_total", m.sessionsTotal, 2},
		{"frames_sent", m.framesSent, 2},
		{"patches_sent", m.patchesSent, 5},
		{"decode_errors", m.decodeErrors, 1},
		{"accept_rejected", m.acceptRejected, 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}

	expected := `
# HELP monolith_frames_sent_total Total number of outbound frames
# TYPE monolith_frames_sent_total counter
monolith_frames_sent_total 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "monolith_frames_sent_total"); err != nil {
		t.Error(err)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.sessionRegistered()
	m.sessionRemoved()
	m.acceptRejectedInc()
	m.event("onClick")
	m.decodeError()
	m.frameSent(1)
	m.noopRender()
	m.observeRender(1)
	m.disconnect(ReasonPanic)
}
