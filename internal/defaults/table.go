// Package defaults holds the baseline performance characteristics for each
// node type. A Table is built once and never mutated afterwards, so it can be
// shared by any number of concurrent simulations without locking.
package defaults

import (
	"fmt"
	"math"
	"sort"

	"github.com/archbench/archbench-engine/pkg/models"
)

// Table maps a node type to its defaults.
type Table struct {
	entries map[string]models.NodeTypeDefaults
}

// builtin mirrors the values the engine has always shipped with. The client
// node never limits throughput, hence its capacity is the int32 ceiling.
var builtin = map[string]models.NodeTypeDefaults{
	models.NodeTypeClient:   {LatencyMs: 2, VarianceFactor: 1.1, CapacityRps: math.MaxInt32, FailureRate: 0.001, CostPerHour: 0.00},
	models.NodeTypeService:  {LatencyMs: 8, VarianceFactor: 1.5, CapacityRps: 3000, FailureRate: 0.005, CostPerHour: 0.05},
	models.NodeTypeCache:    {LatencyMs: 1, VarianceFactor: 1.1, CapacityRps: 50000, FailureRate: 0.002, CostPerHour: 0.02},
	models.NodeTypeDatabase: {LatencyMs: 12, VarianceFactor: 2.0, CapacityRps: 2000, FailureRate: 0.010, CostPerHour: 0.30},
	models.NodeTypeQueue:    {LatencyMs: 2, VarianceFactor: 1.2, CapacityRps: 10000, FailureRate: 0.003, CostPerHour: 0.01},
}

// Builtin returns a table with the built-in node types.
func Builtin() *Table {
	return New(builtin)
}

// New builds a table from entries. The map is copied.
func New(entries map[string]models.NodeTypeDefaults) *Table {
	t := &Table{entries: make(map[string]models.NodeTypeDefaults, len(entries))}
	for typ, d := range entries {
		t.entries[typ] = d
	}
	return t
}

// WithOverrides returns a new table where overrides replace or extend the
// entries of t. t itself is left untouched.
func (t *Table) WithOverrides(overrides map[string]models.NodeTypeDefaults) *Table {
	merged := make(map[string]models.NodeTypeDefaults, len(t.entries)+len(overrides))
	for typ, d := range t.entries {
		merged[typ] = d
	}
	for typ, d := range overrides {
		merged[typ] = d
	}
	return &Table{entries: merged}
}

// Lookup returns the defaults registered for typ.
func (t *Table) Lookup(typ string) (models.NodeTypeDefaults, bool) {
	d, ok := t.entries[typ]
	return d, ok
}

// Types returns the registered node types in sorted order.
func (t *Table) Types() []string {
	types := make([]string, 0, len(t.entries))
	for typ := range t.entries {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of registered node types.
func (t *Table) Len() int {
	return len(t.entries)
}

// Validate checks that a defaults entry is usable by the metrics
// calculator.
func Validate(typ string, d models.NodeTypeDefaults) error {
	if typ == "" {
		return fmt.Errorf("node type cannot be empty")
	}
	if d.LatencyMs < 0 {
		return fmt.Errorf("node type %s: latencyMs cannot be negative, got %d", typ, d.LatencyMs)
	}
	if d.VarianceFactor < 1 {
		return fmt.Errorf("node type %s: varianceFactor must be at least 1, got %f", typ, d.VarianceFactor)
	}
	if d.CapacityRps <= 0 {
		return fmt.Errorf("node type %s: capacityRps must be positive, got %d", typ, d.CapacityRps)
	}
	if d.FailureRate < 0 || d.FailureRate >= 1 {
		return fmt.Errorf("node type %s: failureRate must be in [0, 1), got %f", typ, d.FailureRate)
	}
	if d.CostPerHour < 0 {
		return fmt.Errorf("node type %s: costPerHour cannot be negative, got %f", typ, d.CostPerHour)
	}
	return nil
}
