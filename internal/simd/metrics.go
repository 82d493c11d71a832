package simd

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/archbench/archbench-engine/internal/normalize"
	"github.com/archbench/archbench-engine/internal/validation"
)

// Failure reasons used as the "reason" label.
const (
	ReasonValidation    = "validation"
	ReasonConfiguration = "configuration"
	ReasonOther         = "other"
)

// Metrics holds the daemon counters exposed on /metrics.
type Metrics struct {
	simulations           atomic.Uint64
	validationFailures    atomic.Uint64
	configurationFailures atomic.Uint64
	otherFailures         atomic.Uint64
	lastScore             atomic.Uint64 // float64 bits
	nodeTypes             int
}

// NewMetrics creates counters for a daemon serving nodeTypes node types.
func NewMetrics(nodeTypes int) *Metrics {
	return &Metrics{nodeTypes: nodeTypes}
}

// ObserveSuccess counts a completed simulation.
func (m *Metrics) ObserveSuccess(score int) {
	m.simulations.Add(1)
	m.lastScore.Store(math.Float64bits(float64(score)))
}

// ObserveFailure counts a rejected simulation and returns its reason.
func (m *Metrics) ObserveFailure(err error) string {
	var verr *validation.ValidationError
	var cerr *normalize.ConfigurationError
	switch {
	case errors.As(err, &verr):
		m.validationFailures.Add(1)
		return ReasonValidation
	case errors.As(err, &cerr):
		m.configurationFailures.Add(1)
		return ReasonConfiguration
	default:
		m.otherFailures.Add(1)
		return ReasonOther
	}
}

// Simulations returns the number of completed simulations.
func (m *Metrics) Simulations() uint64 {
	return m.simulations.Load()
}

// Failures returns the number of failures recorded for reason.
func (m *Metrics) Failures(reason string) uint64 {
	switch reason {
	case ReasonValidation:
		return m.validationFailures.Load()
	case ReasonConfiguration:
		return m.configurationFailures.Load()
	case ReasonOther:
		return m.otherFailures.Load()
	}
	return 0
}

// Families snapshots the counters as Prometheus metric families.
func (m *Metrics) Families() []*dto.MetricFamily {
	failures := &dto.MetricFamily{
		Name: proto.String("archbench_simulation_failures_total"),
		Help: proto.String("Simulations rejected, by reason."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, reason := range []string{ReasonConfiguration, ReasonOther, ReasonValidation} {
		failures.Metric = append(failures.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String("reason"), Value: proto.String(reason)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(m.Failures(reason)))},
		})
	}

	return []*dto.MetricFamily{
		{
			Name:   proto.String("archbench_node_types"),
			Help:   proto.String("Node types registered in the defaults table."),
			Type:   dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(float64(m.nodeTypes))}}},
		},
		failures,
		{
			Name:   proto.String("archbench_simulation_score"),
			Help:   proto.String("Score of the most recent completed simulation."),
			Type:   dto.MetricType_GAUGE.Enum(),
			Metric: []*dto.Metric{{Gauge: &dto.Gauge{Value: proto.Float64(math.Float64frombits(m.lastScore.Load()))}}},
		},
		{
			Name:   proto.String("archbench_simulations_total"),
			Help:   proto.String("Simulations completed successfully."),
			Type:   dto.MetricType_COUNTER.Enum(),
			Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(float64(m.Simulations()))}}},
		},
	}
}

// WriteText writes the Prometheus text exposition to w.
func (m *Metrics) WriteText(w io.Writer) error {
	for _, mf := range m.Families() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
