package simd

import (
	"bytes"
	"errors"
	"io"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/archbench/archbench-engine/internal/normalize"
	"github.com/archbench/archbench-engine/internal/validation"
)

func parseExposition(t *testing.T, r io.Reader) map[string]*dto.MetricFamily {
	t.Helper()
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return families
}

func failureCount(families map[string]*dto.MetricFamily, reason string) float64 {
	for _, m := range families["archbench_simulation_failures_total"].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "reason" && l.GetValue() == reason {
				return m.GetCounter().GetValue()
			}
		}
	}
	return -1
}

func TestMetricsObserveFailureClassifies(t *testing.T) {
	m := NewMetrics(5)

	tests := []struct {
		err  error
		want string
	}{
		{&validation.ValidationError{Detail: "Missing name"}, ReasonValidation},
		{&normalize.ConfigurationError{NodeID: "x", Type: "mainframe"}, ReasonConfiguration},
		{errors.New("boom"), ReasonOther},
	}
	for _, tt := range tests {
		if got := m.ObserveFailure(tt.err); got != tt.want {
			t.Errorf("ObserveFailure(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}

	for _, reason := range []string{ReasonValidation, ReasonConfiguration, ReasonOther} {
		if got := m.Failures(reason); got != 1 {
			t.Errorf("expected 1 %s failure, got %d", reason, got)
		}
	}
	if m.Failures("unknown") != 0 {
		t.Error("expected unknown reason to report zero")
	}
}

func TestMetricsWriteText(t *testing.T) {
	m := NewMetrics(5)
	m.ObserveSuccess(87)
	m.ObserveSuccess(42)
	m.ObserveFailure(&validation.ValidationError{Detail: "Missing nodes"})

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	families := parseExposition(t, &buf)
	if got := families["archbench_simulations_total"].GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("expected 2 simulations, got %v", got)
	}
	if got := families["archbench_simulation_score"].GetMetric()[0].GetGauge().GetValue(); got != 42 {
		t.Errorf("expected last score 42, got %v", got)
	}
	if got := families["archbench_node_types"].GetMetric()[0].GetGauge().GetValue(); got != 5 {
		t.Errorf("expected 5 node types, got %v", got)
	}
	if got := failureCount(families, ReasonValidation); got != 1 {
		t.Errorf("expected 1 validation failure, got %v", got)
	}
	if got := failureCount(families, ReasonConfiguration); got != 0 {
		t.Errorf("expected 0 configuration failures, got %v", got)
	}
	if families["archbench_simulations_total"].GetType() != dto.MetricType_COUNTER {
		t.Errorf("expected counter type, got %v", families["archbench_simulations_total"].GetType())
	}
}
