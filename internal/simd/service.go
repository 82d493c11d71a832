package simd

import (
	"context"

	"github.com/archbench/archbench-engine/internal/engine"
	"github.com/archbench/archbench-engine/pkg/logger"
	"github.com/archbench/archbench-engine/pkg/models"
)

// Service is the transport-independent front of the engine. It records
// metrics and emits completion events for every simulation it runs.
type Service struct {
	engine      *engine.Engine
	metrics     *Metrics
	notifier    *Notifier
	parallelism int
}

// NewService wires an engine with metrics and an optional notifier. A nil
// notifier disables events.
func NewService(eng *engine.Engine, m *Metrics, n *Notifier) *Service {
	if m == nil {
		m = NewMetrics(eng.Defaults().Len())
	}
	return &Service{engine: eng, metrics: m, notifier: n}
}

// SetBatchParallelism bounds concurrent simulations per batch. Zero means
// GOMAXPROCS.
func (s *Service) SetBatchParallelism(n int) {
	s.parallelism = n
}

// Engine returns the underlying engine.
func (s *Service) Engine() *engine.Engine {
	return s.engine
}

// Metrics returns the service counters.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// Simulate runs one scenario.
func (s *Service) Simulate(_ context.Context, scenario *models.Scenario) (*models.SimulationResult, error) {
	result, err := s.engine.Simulate(scenario)
	s.record(scenario, result, err)
	return result, err
}

// SimulateBatch runs scenarios concurrently; see engine.SimulateBatch.
func (s *Service) SimulateBatch(ctx context.Context, scenarios []*models.Scenario) []engine.BatchItem {
	items := s.engine.SimulateBatch(ctx, scenarios, s.parallelism)
	for _, item := range items {
		s.record(scenarios[item.Index], item.Result, item.Err)
	}
	return items
}

func (s *Service) record(scenario *models.Scenario, result *models.SimulationResult, err error) {
	if err != nil {
		reason := s.metrics.ObserveFailure(err)
		logger.Debug("simulation rejected", "reason", reason, "error", err)
		return
	}
	s.metrics.ObserveSuccess(result.Score)
	s.notifier.Notify(scenario.Name, result)
}
