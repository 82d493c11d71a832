package models

// Node types with built-in defaults.
const (
	NodeTypeClient   = "client"
	NodeTypeService  = "service"
	NodeTypeCache    = "cache"
	NodeTypeDatabase = "database"
	NodeTypeQueue    = "queue"
)

// Database engines accepted in a DbConfig.
const (
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineDynamoDB = "dynamodb"
	EngineMongo    = "mongo"
)

// Table size classes. An absent size class is treated as SizeClassMedium.
const (
	SizeClassSmall  = "S"
	SizeClassMedium = "M"
	SizeClassLarge  = "L"
)

// Result statuses.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Scenario describes an architecture topology and optional workload targets.
// Nodes and edges may contain nil entries; a nil Edges slice means the edge
// list was absent, an empty one means it was present with no entries.
type Scenario struct {
	Name     string    `json:"name" yaml:"name"`
	Workload *Workload `json:"workload,omitempty" yaml:"workload,omitempty"`
	Nodes    []*Node   `json:"nodes" yaml:"nodes"`
	Edges    []*Edge   `json:"edges" yaml:"edges"`
}

// Workload holds the optional targets a scenario is scored against.
type Workload struct {
	TargetRps   *int `json:"targetRps,omitempty" yaml:"targetRps,omitempty"`
	TargetP95Ms *int `json:"targetP95Ms,omitempty" yaml:"targetP95Ms,omitempty"`
}

// Node is one architectural component. Nil performance fields fall back to
// the defaults registered for the node type.
type Node struct {
	ID             string    `json:"id" yaml:"id"`
	Type           string    `json:"type" yaml:"type"`
	LatencyMs      *int      `json:"latencyMs,omitempty" yaml:"latencyMs,omitempty"`
	VarianceFactor *float64  `json:"varianceFactor,omitempty" yaml:"varianceFactor,omitempty"`
	CapacityRps    *int      `json:"capacityRps,omitempty" yaml:"capacityRps,omitempty"`
	FailureRate    *float64  `json:"failureRate,omitempty" yaml:"failureRate,omitempty"`
	CostPerHour    *float64  `json:"costPerHour,omitempty" yaml:"costPerHour,omitempty"`
	DbConfig       *DbConfig `json:"dbConfig,omitempty" yaml:"dbConfig,omitempty"`
}

// DbConfig is only meaningful on nodes of type "database".
type DbConfig struct {
	Engine *string    `json:"engine,omitempty" yaml:"engine,omitempty"`
	Tables []*DbTable `json:"tables,omitempty" yaml:"tables,omitempty"`
}

// DbTable describes one table of a database node.
type DbTable struct {
	Name      string      `json:"name" yaml:"name"`
	SizeClass string      `json:"sizeClass,omitempty" yaml:"sizeClass,omitempty"` // S, M, L
	Indexes   []string    `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	Columns   []*DbColumn `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// DbColumn describes one column. Type is free-form.
type DbColumn struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Edge connects two declared nodes.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// NodeTypeDefaults are the baseline characteristics of a node type.
type NodeTypeDefaults struct {
	LatencyMs      int     `json:"latencyMs" yaml:"latencyMs"`
	VarianceFactor float64 `json:"varianceFactor" yaml:"varianceFactor"`
	CapacityRps    int     `json:"capacityRps" yaml:"capacityRps"`
	FailureRate    float64 `json:"failureRate" yaml:"failureRate"`
	CostPerHour    float64 `json:"costPerHour" yaml:"costPerHour"`
}

// NormalizedNode is a node whose performance fields have all been resolved
// and database-adjusted.
type NormalizedNode struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	LatencyMs      int     `json:"latencyMs"`
	VarianceFactor float64 `json:"varianceFactor"`
	CapacityRps    int     `json:"capacityRps"`
	FailureRate    float64 `json:"failureRate"`
	CostPerHour    float64 `json:"costPerHour"`
}

// Node converts n back into a Node with every override set. The database
// adjustment is already folded into the values, so DbConfig is left nil.
func (n NormalizedNode) Node() *Node {
	return &Node{
		ID:             n.ID,
		Type:           n.Type,
		LatencyMs:      Int(n.LatencyMs),
		VarianceFactor: Float64(n.VarianceFactor),
		CapacityRps:    Int(n.CapacityRps),
		FailureRate:    Float64(n.FailureRate),
		CostPerHour:    Float64(n.CostPerHour),
	}
}

// SimulationResult is the outcome of one simulation.
type SimulationResult struct {
	LatencyMsP50  int      `json:"latencyMsP50"`
	LatencyMsP95  int      `json:"latencyMsP95"`
	ThroughputRps int      `json:"throughputRps"`
	FailureRate   float64  `json:"failureRate"`
	CostPerHour   float64  `json:"costPerHour"`
	Status        string   `json:"status"`
	Score         int      `json:"score"`
	Hints         []string `json:"hints"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
