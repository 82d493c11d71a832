// Package insight scores aggregate metrics against a scenario's optional
// workload targets and derives a status and remediation hints.
package insight

import (
	"fmt"

	"github.com/archbench/archbench-engine/pkg/models"
	"github.com/archbench/archbench-engine/pkg/utils"
)

// FailureDegradedThreshold is the failure rate above which a scenario is
// degraded regardless of targets.
const FailureDegradedThreshold = 0.05

// Score weights. They sum to 1.0.
const (
	weightThroughput  = 0.45
	weightLatency     = 0.45
	weightReliability = 0.10
)

// reliabilityPenalty scales the failure rate so that 20% failures score zero.
const reliabilityPenalty = 5.0

// Targets are the workload goals of a scenario. A nil field is always met.
type Targets struct {
	Rps   *int
	P95Ms *int
}

// TargetsFromScenario extracts the workload targets of s.
func TargetsFromScenario(s *models.Scenario) Targets {
	if s == nil || s.Workload == nil {
		return Targets{}
	}
	return Targets{Rps: s.Workload.TargetRps, P95Ms: s.Workload.TargetP95Ms}
}

// Observed are the aggregate figures the insights are derived from.
type Observed struct {
	LatencyP95  int
	Throughput  int
	FailureRate float64
}

// Insights bundles score, status and hints.
type Insights struct {
	Score  int
	Status string
	Hints  []string
}

// Evaluate derives score, status and hints in one pass.
func Evaluate(t Targets, o Observed) Insights {
	return Insights{
		Score:  Score(t, o),
		Status: Status(t, o),
		Hints:  Hints(t, o),
	}
}

// Score returns a weighted 0-100 score.
func Score(t Targets, o Observed) int {
	throughputScore := 1.0
	if t.Rps != nil && *t.Rps > 0 {
		throughputScore = utils.Clamp01(float64(o.Throughput) / float64(*t.Rps))
	}
	latencyScore := 1.0
	if t.P95Ms != nil && *t.P95Ms > 0 && o.LatencyP95 > 0 {
		latencyScore = utils.Clamp01(float64(*t.P95Ms) / float64(o.LatencyP95))
	}
	reliabilityScore := utils.Clamp01(1.0 - o.FailureRate*reliabilityPenalty)

	weighted := throughputScore*weightThroughput + latencyScore*weightLatency + reliabilityScore*weightReliability
	return utils.RoundHalfUp(weighted * 100.0)
}

// Status is "degraded" when any target is missed or failures are too high.
func Status(t Targets, o Observed) string {
	throughputMiss := t.Rps != nil && o.Throughput < *t.Rps
	latencyMiss := t.P95Ms != nil && o.LatencyP95 > *t.P95Ms
	failureHigh := o.FailureRate > FailureDegradedThreshold
	if throughputMiss || latencyMiss || failureHigh {
		return models.StatusDegraded
	}
	return models.StatusOK
}

// Hints returns remediation hints in a fixed order: throughput, latency,
// failure rate. The result is never nil.
func Hints(t Targets, o Observed) []string {
	hints := make([]string, 0, 3)

	if t.Rps != nil && *t.Rps > o.Throughput {
		hints = append(hints, fmt.Sprintf(
			"Throughput is below the workload target (%d rps < %d rps); increase capacity on the slowest nodes or introduce caching/sharding.",
			o.Throughput, *t.Rps,
		))
	}

	if t.P95Ms != nil && o.LatencyP95 > *t.P95Ms {
		hints = append(hints, fmt.Sprintf(
			"p95 latency exceeds the workload target (%d ms > %d ms); reduce per-node latency or insert faster caching layers.",
			o.LatencyP95, *t.P95Ms,
		))
	}

	if o.FailureRate > FailureDegradedThreshold {
		hints = append(hints, fmt.Sprintf(
			"Failure rate is above %.0f%% (%.2f%% observed); add redundancy or backpressure to stabilize the path.",
			FailureDegradedThreshold*100, o.FailureRate*100,
		))
	}

	return hints
}

// CalculateScore is Score with targets taken from s.
func CalculateScore(s *models.Scenario, latencyP95, throughput int, failureRate float64) int {
	return Score(TargetsFromScenario(s), Observed{LatencyP95: latencyP95, Throughput: throughput, FailureRate: failureRate})
}

// DeriveStatus is Status with targets taken from s.
func DeriveStatus(s *models.Scenario, latencyP95, throughput int, failureRate float64) string {
	return Status(TargetsFromScenario(s), Observed{LatencyP95: latencyP95, Throughput: throughput, FailureRate: failureRate})
}

// GenerateHints is Hints with targets taken from s.
func GenerateHints(s *models.Scenario, latencyP95, throughput int, failureRate float64) []string {
	return Hints(TargetsFromScenario(s), Observed{LatencyP95: latencyP95, Throughput: throughput, FailureRate: failureRate})
}
