package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/archbench/archbench-engine/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "archbench.yaml", `
log_level: debug
log_format: text
http_addr: ":9090"
grpc_addr: ""
nats_url: nats://localhost:4222
batch_parallelism: 4
node_defaults:
  database:
    latencyMs: 15
    varianceFactor: 2.5
    capacityRps: 1500
    failureRate: 0.02
    costPerHour: 0.4
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got '%s'", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("Expected log_format 'text', got '%s'", cfg.LogFormat)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("Expected http_addr ':9090', got '%s'", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != "" {
		t.Errorf("Expected gRPC to be disabled, got '%s'", cfg.GRPCAddr)
	}
	if cfg.NATSSubject != DefaultNATSSubject {
		t.Errorf("Expected default nats_subject, got '%s'", cfg.NATSSubject)
	}
	if cfg.BatchParallelism != 4 {
		t.Errorf("Expected batch_parallelism 4, got %d", cfg.BatchParallelism)
	}

	table := cfg.DefaultsTable()
	db, ok := table.Lookup(models.NodeTypeDatabase)
	if !ok || db.LatencyMs != 15 || db.CapacityRps != 1500 {
		t.Errorf("Expected database override, got %+v", db)
	}
	if _, ok := table.Lookup(models.NodeTypeService); !ok {
		t.Error("Expected built-in service defaults to survive overrides")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("Expected read error, got %v", err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("Expected default config to be valid: %v", err)
	}
	if cfg.DefaultsTable().Len() != 5 {
		t.Errorf("Expected 5 built-in node types, got %d", cfg.DefaultsTable().Len())
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ARCHBENCH_LOG_LEVEL", "warn")
	t.Setenv("ARCHBENCH_HTTP_ADDR", "127.0.0.1:8081")
	t.Setenv("ARCHBENCH_GRPC_ADDR", "127.0.0.1:50052")
	t.Setenv("ARCHBENCH_NATS_URL", "nats://nats:4222")
	t.Setenv("ARCHBENCH_BATCH_PARALLELISM", "not-a-number")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level from env, got %s", cfg.LogLevel)
	}
	if cfg.HTTPAddr != "127.0.0.1:8081" || cfg.GRPCAddr != "127.0.0.1:50052" {
		t.Errorf("Expected addresses from env, got %s / %s", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.NATSURL != "nats://nats:4222" {
		t.Errorf("Expected NATS URL from env, got %s", cfg.NATSURL)
	}
	if cfg.BatchParallelism != 0 {
		t.Errorf("Expected unparsable int to keep default, got %d", cfg.BatchParallelism)
	}
}

func TestApplyEnvRejectsInvalidValues(t *testing.T) {
	t.Setenv("ARCHBENCH_LOG_LEVEL", "verbose")

	cfg := Default()
	if err := cfg.ApplyEnv(); err == nil {
		t.Fatal("Expected invalid log level from env to be rejected")
	}
}

func TestLoadScenarioYAML(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
name: url-shortener
workload:
  targetRps: 1000
nodes:
  - id: api
    type: service
  - id: db
    type: database
    dbConfig:
      engine: postgres
      tables:
        - name: urls
          sizeClass: L
          indexes: [short_code]
edges:
  - from: api
    to: db
`)

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	if s.Name != "url-shortener" {
		t.Errorf("Expected name 'url-shortener', got '%s'", s.Name)
	}
	if len(s.Nodes) != 2 || s.Nodes[1].DbConfig == nil {
		t.Fatalf("Expected database node with dbConfig, got %+v", s.Nodes)
	}
	if *s.Nodes[1].DbConfig.Engine != models.EnginePostgres {
		t.Errorf("Expected postgres engine, got %s", *s.Nodes[1].DbConfig.Engine)
	}
	if s.Workload.TargetP95Ms != nil {
		t.Errorf("Expected absent p95 target, got %d", *s.Workload.TargetP95Ms)
	}
}

func TestLoadScenarioJSON(t *testing.T) {
	path := writeFile(t, "scenario.JSON", `{"name":"demo","nodes":[{"id":"c","type":"client"}],"edges":[]}`)

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	if s.Name != "demo" || len(s.Nodes) != 1 {
		t.Errorf("Unexpected scenario: %+v", s)
	}
	if s.Edges == nil {
		t.Error("Expected present-but-empty edges to decode as non-nil")
	}
}

func TestLoadScenarioDoesNotValidate(t *testing.T) {
	path := writeFile(t, "scenario.yaml", "name: \"\"\nnodes: []\n")

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("Expected decoding to succeed, got %v", err)
	}
	if s.Edges != nil {
		t.Errorf("Expected absent edges to stay nil, got %v", s.Edges)
	}
}

func TestLoadNodeDefaults(t *testing.T) {
	path := writeFile(t, "defaults.yaml", `
gateway:
  latencyMs: 3
  varianceFactor: 1.3
  capacityRps: 20000
  failureRate: 0.001
  costPerHour: 0.04
`)

	entries, err := LoadNodeDefaults(path)
	if err != nil {
		t.Fatalf("Failed to load node defaults: %v", err)
	}
	if entries["gateway"].CapacityRps != 20000 {
		t.Errorf("Expected gateway capacity 20000, got %+v", entries["gateway"])
	}
}
