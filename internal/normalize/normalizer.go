// Package normalize resolves each node's effective performance
// characteristics from explicit overrides and type defaults, then applies the
// database-specific adjustments.
package normalize

import (
	"strings"

	"github.com/archbench/archbench-engine/internal/defaults"
	"github.com/archbench/archbench-engine/pkg/models"
	"github.com/archbench/archbench-engine/pkg/utils"
)

// ConfigurationError indicates a node type with no registered defaults. It is
// not caller-correctable in the way a validation failure is.
type ConfigurationError struct {
	NodeID string
	Type   string
}

func (e *ConfigurationError) Error() string {
	return "no defaults configured for node type: " + e.Type
}

// Normalizer resolves nodes against a defaults table.
type Normalizer struct {
	table *defaults.Table
}

// New creates a Normalizer backed by table.
func New(table *defaults.Table) *Normalizer {
	return &Normalizer{table: table}
}

// Normalize resolves every non-nil node, preserving order. The input nodes
// are never modified.
func (n *Normalizer) Normalize(nodes []*models.Node) ([]models.NormalizedNode, error) {
	out := make([]models.NormalizedNode, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		nn, err := n.NormalizeNode(node)
		if err != nil {
			return nil, err
		}
		out = append(out, nn)
	}
	return out, nil
}

// NormalizeNode resolves a single node.
func (n *Normalizer) NormalizeNode(node *models.Node) (models.NormalizedNode, error) {
	d, ok := n.table.Lookup(node.Type)
	if !ok {
		return models.NormalizedNode{}, &ConfigurationError{NodeID: node.ID, Type: node.Type}
	}

	latency := intOr(node.LatencyMs, d.LatencyMs)
	capacity := intOr(node.CapacityRps, d.CapacityRps)

	if node.Type == models.NodeTypeDatabase && node.DbConfig != nil {
		m := DatabaseMultipliers(node.DbConfig)
		latency = utils.RoundHalfUp(float64(latency) * m.Latency)
		capacity = utils.RoundHalfUp(float64(capacity) * m.Capacity)
	}

	return models.NormalizedNode{
		ID:             node.ID,
		Type:           node.Type,
		LatencyMs:      latency,
		VarianceFactor: floatOr(node.VarianceFactor, d.VarianceFactor),
		CapacityRps:    capacity,
		FailureRate:    floatOr(node.FailureRate, d.FailureRate),
		CostPerHour:    floatOr(node.CostPerHour, d.CostPerHour),
	}, nil
}

// Multipliers scale a database node's resolved latency and capacity.
type Multipliers struct {
	Latency  float64
	Capacity float64
}

// neutral leaves latency and capacity unchanged.
var neutral = Multipliers{Latency: 1, Capacity: 1}

// DatabaseMultipliers combines the per-table effects pessimistically (the
// slowest table's latency, the weakest table's capacity) and then applies
// the engine effect.
func DatabaseMultipliers(cfg *models.DbConfig) Multipliers {
	if cfg == nil {
		return neutral
	}

	agg := neutral
	seen := false
	for _, table := range cfg.Tables {
		if table == nil {
			continue
		}
		tm := TableMultipliers(table)
		if !seen {
			agg = tm
			seen = true
			continue
		}
		if tm.Latency > agg.Latency {
			agg.Latency = tm.Latency
		}
		if tm.Capacity < agg.Capacity {
			agg.Capacity = tm.Capacity
		}
	}

	engine := ""
	if cfg.Engine != nil {
		engine = *cfg.Engine
	}
	em := EngineMultipliers(engine)
	return Multipliers{
		Latency:  agg.Latency * em.Latency,
		Capacity: agg.Capacity * em.Capacity,
	}
}

// TableMultipliers returns the size-class and index effect of one table.
func TableMultipliers(table *models.DbTable) Multipliers {
	m := neutral
	switch strings.ToUpper(strings.TrimSpace(table.SizeClass)) {
	case models.SizeClassSmall:
		m.Latency *= 0.9
		m.Capacity *= 1.1
	case models.SizeClassLarge:
		m.Latency *= 1.2
		m.Capacity *= 0.8
	}
	if len(table.Indexes) > 0 {
		m.Latency *= 0.9
	}
	return m
}

// EngineMultipliers returns the engine effect. Postgres, MySQL and an
// unspecified engine are neutral.
func EngineMultipliers(engine string) Multipliers {
	switch engine {
	case models.EngineMongo:
		return Multipliers{Latency: 0.95, Capacity: 1.05}
	case models.EngineDynamoDB:
		return Multipliers{Latency: 0.85, Capacity: 1.20}
	default:
		return neutral
	}
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
