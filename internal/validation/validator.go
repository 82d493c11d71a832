// Package validation checks the structural well-formedness of a scenario
// before any metric is computed.
//
// Checks run in a fixed order and stop at the first violation; the order
// decides which single message a caller sees.
package validation

import (
	"fmt"
	"strings"

	"github.com/archbench/archbench-engine/pkg/models"
)

// supportedEngines are the database engines a DbConfig may name.
var supportedEngines = map[string]bool{
	models.EnginePostgres: true,
	models.EngineMySQL:    true,
	models.EngineDynamoDB: true,
	models.EngineMongo:    true,
}

// ValidationError reports a caller-correctable problem with a scenario.
// Detail is meant to be shown to the caller verbatim.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func bad(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// IsSupportedEngine reports whether engine is an accepted database engine.
func IsSupportedEngine(engine string) bool {
	return supportedEngines[engine]
}

// Validate returns a *ValidationError for the first violation found in s,
// or nil when s is well-formed.
func Validate(s *models.Scenario) error {
	if s == nil {
		return bad("Request body is null")
	}
	if isBlank(s.Name) {
		return bad("Missing name")
	}
	if len(s.Nodes) == 0 {
		return bad("Missing nodes")
	}
	if s.Edges == nil {
		return bad("Missing edges")
	}

	nodeIDs := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n == nil {
			return bad("Node entry is null")
		}
		if isBlank(n.ID) {
			return bad("Node id is missing/blank")
		}
		if nodeIDs[n.ID] {
			return bad("Duplicate node id: %s", n.ID)
		}
		nodeIDs[n.ID] = true
		if isBlank(n.Type) {
			return bad("Node '%s' has missing 'type'", n.ID)
		}
		if n.Type == models.NodeTypeDatabase && n.DbConfig != nil {
			if err := validateDbConfig(n); err != nil {
				return err
			}
		}
	}

	for _, e := range s.Edges {
		if e == nil {
			return bad("Edge entry is null")
		}
		if isBlank(e.From) {
			return bad("Edge missing 'from'")
		}
		if isBlank(e.To) {
			return bad("Edge missing 'to'")
		}
		if e.From == e.To {
			return bad("Self-loop edge not allowed: %s", e.From)
		}
		if !nodeIDs[e.From] {
			return bad("Edge 'from' not found: %s", e.From)
		}
		if !nodeIDs[e.To] {
			return bad("Edge 'to' not found: %s", e.To)
		}
	}

	return nil
}

// validateDbConfig checks the engine and the uniqueness of table and column
// names. Blank names are not tracked and do not fail.
func validateDbConfig(n *models.Node) error {
	cfg := n.DbConfig
	if cfg.Engine != nil && !supportedEngines[*cfg.Engine] {
		return bad("Node '%s' has unsupported database engine '%s'", n.ID, *cfg.Engine)
	}

	if len(cfg.Tables) == 0 {
		return nil
	}

	tableNames := make(map[string]bool, len(cfg.Tables))
	for _, table := range cfg.Tables {
		if table == nil {
			continue
		}
		tableName := strings.TrimSpace(table.Name)
		if tableName != "" {
			if tableNames[tableName] {
				return bad("Node '%s' has duplicate table name '%s'", n.ID, tableName)
			}
			tableNames[tableName] = true
		}

		if len(table.Columns) == 0 {
			continue
		}
		columnNames := make(map[string]bool, len(table.Columns))
		for _, col := range table.Columns {
			if col == nil || isBlank(col.Name) {
				continue
			}
			colName := strings.TrimSpace(col.Name)
			if columnNames[colName] {
				safeTable := tableName
				if safeTable == "" {
					safeTable = "(unnamed)"
				}
				return bad("Node '%s' has duplicate column name '%s' in table '%s'", n.ID, colName, safeTable)
			}
			columnNames[colName] = true
		}
	}

	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
