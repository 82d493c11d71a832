// Package engine runs the simulation pipeline: validate, normalize, compute
// aggregate metrics and derive insights. An Engine is immutable after New and
// safe for concurrent use.
package engine

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/archbench/archbench-engine/internal/defaults"
	"github.com/archbench/archbench-engine/internal/insight"
	"github.com/archbench/archbench-engine/internal/metrics"
	"github.com/archbench/archbench-engine/internal/normalize"
	"github.com/archbench/archbench-engine/internal/validation"
	"github.com/archbench/archbench-engine/pkg/logger"
	"github.com/archbench/archbench-engine/pkg/models"
	"github.com/archbench/archbench-engine/pkg/utils"
)

// Engine estimates the performance of architecture scenarios.
type Engine struct {
	table      *defaults.Table
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// New creates an engine backed by table. A nil table means the built-in one.
func New(table *defaults.Table) *Engine {
	if table == nil {
		table = defaults.Builtin()
	}
	return &Engine{
		table:      table,
		normalizer: normalize.New(table),
		logger:     logger.Default,
	}
}

// SetLogger sets the engine's logger
func (e *Engine) SetLogger(l *slog.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Defaults returns the node-type table the engine normalizes against.
func (e *Engine) Defaults() *defaults.Table {
	return e.table
}

// Simulate validates and evaluates one scenario. It returns either a complete
// result or an error, never both. Validation failures are
// *validation.ValidationError; a node type missing from the table yields a
// *normalize.ConfigurationError.
func (e *Engine) Simulate(s *models.Scenario) (*models.SimulationResult, error) {
	if err := validation.Validate(s); err != nil {
		return nil, err
	}

	nodes, err := e.normalizer.Normalize(s.Nodes)
	if err != nil {
		return nil, err
	}

	agg := metrics.Compute(nodes, s.Edges)
	ins := insight.Evaluate(insight.TargetsFromScenario(s), insight.Observed{
		LatencyP95:  agg.LatencyP95,
		Throughput:  agg.Throughput,
		FailureRate: agg.FailureRate,
	})

	result := &models.SimulationResult{
		LatencyMsP50:  agg.LatencyP50,
		LatencyMsP95:  agg.LatencyP95,
		ThroughputRps: agg.Throughput,
		FailureRate:   agg.FailureRate,
		CostPerHour:   agg.CostPerHour,
		Status:        ins.Status,
		Score:         ins.Score,
		Hints:         ins.Hints,
	}

	e.logger.Debug("Simulation completed",
		"scenario", s.Name,
		"nodes", len(nodes),
		"p95_ms", result.LatencyMsP95,
		"throughput_rps", result.ThroughputRps,
		"failure_rate", utils.Round(result.FailureRate, 4),
		"status", result.Status,
		"score", result.Score)

	return result, nil
}

// BatchItem is the outcome of one scenario in a batch. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Index  int
	Result *models.SimulationResult
	Err    error
}

// SimulateBatch simulates scenarios concurrently with at most parallelism
// in flight (GOMAXPROCS when parallelism <= 0). Items are returned in input
// order. A failing scenario does not affect the others. Once ctx is done no
// new scenarios are started and the remaining items carry ctx.Err().
func (e *Engine) SimulateBatch(ctx context.Context, scenarios []*models.Scenario, parallelism int) []BatchItem {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	items := make([]BatchItem, len(scenarios))
	g := new(errgroup.Group)
	g.SetLimit(parallelism)

	for i, s := range scenarios {
		i, s := i, s
		items[i].Index = i
		if err := ctx.Err(); err != nil {
			items[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			result, err := e.Simulate(s)
			if err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result = result
			return nil
		})
	}

	// Workers never return an error; failures are recorded per item.
	_ = g.Wait()

	e.logger.Debug("Batch completed", "scenarios", len(scenarios), "parallelism", parallelism)
	return items
}
