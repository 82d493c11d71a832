// Package metrics aggregates normalized nodes into scenario-level latency,
// throughput, failure rate and cost figures.
//
// The model assumes every declared node sits on one serial
// path, the weakest node caps throughput and node failures are independent.
// Edges do not take part in the arithmetic.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/archbench/archbench-engine/pkg/models"
	"github.com/archbench/archbench-engine/pkg/utils"
)

// Aggregate holds the scenario-level figures.
type Aggregate struct {
	LatencyP50  int
	LatencyP95  int
	Throughput  int
	FailureRate float64
	CostPerHour float64
}

// Compute calculates every aggregate figure for nodes.
func Compute(nodes []models.NormalizedNode, edges []*models.Edge) Aggregate {
	p50 := LatencyP50(nodes, edges)
	return Aggregate{
		LatencyP50:  p50,
		LatencyP95:  LatencyP95(p50, nodes),
		Throughput:  Throughput(nodes),
		FailureRate: FailureRate(nodes),
		CostPerHour: Cost(nodes),
	}
}

// LatencyP50 sums the latency of every node. edges is accepted for
// signature stability but not used.
func LatencyP50(nodes []models.NormalizedNode, _ []*models.Edge) int {
	total := 0
	for _, n := range nodes {
		total += n.LatencyMs
	}
	return total
}

// LatencyP95 scales p50 by the average variance factor (1.0 with no nodes).
func LatencyP95(p50 int, nodes []models.NormalizedNode) int {
	variances := make([]float64, 0, len(nodes))
	for _, n := range nodes {
		variances = append(variances, n.VarianceFactor)
	}
	return utils.RoundHalfUp(float64(p50) * utils.Mean(variances, 1.0))
}

// Throughput is the smallest node capacity, or 0 with no nodes.
func Throughput(nodes []models.NormalizedNode) int {
	if len(nodes) == 0 {
		return 0
	}
	lowest := nodes[0].CapacityRps
	for _, n := range nodes[1:] {
		if n.CapacityRps < lowest {
			lowest = n.CapacityRps
		}
	}
	return lowest
}

// FailureRate composes independent node failures: 1 - prod(1 - rate).
func FailureRate(nodes []models.NormalizedNode) float64 {
	if len(nodes) == 0 {
		return 0.0
	}
	survival := 1.0
	for _, n := range nodes {
		survival *= 1.0 - n.FailureRate
	}
	return 1.0 - survival
}

// Cost sums the hourly cost of every node in decimal arithmetic so that
// typical cent values add up exactly.
func Cost(nodes []models.NormalizedNode) float64 {
	total := decimal.Zero
	for _, n := range nodes {
		total = total.Add(decimal.NewFromFloat(n.CostPerHour))
	}
	f, _ := total.Float64()
	return f
}
