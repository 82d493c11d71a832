package config

import (
	"strings"
	"testing"
)

func TestParseConfigYAMLAppliesDefaults(t *testing.T) {
	cfg, err := ParseConfigYAML([]byte("log_level: error\n"))
	if err != nil {
		t.Fatalf("ParseConfigYAML failed: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Expected log_level 'error', got '%s'", cfg.LogLevel)
	}
	if cfg.HTTPAddr != DefaultHTTPAddr || cfg.GRPCAddr != DefaultGRPCAddr || cfg.LogFormat != DefaultLogFormat {
		t.Errorf("Expected unspecified fields to keep defaults, got %+v", cfg)
	}
}

func TestParseConfigYAMLValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"invalid log level", "log_level: trace\n", "invalid log_level"},
		{"invalid log format", "log_format: xml\n", "invalid log_format"},
		{"empty http addr", "http_addr: \"\"\n", "http_addr cannot be empty"},
		{"nats without subject", "nats_url: nats://x\nnats_subject: \"\"\n", "nats_subject cannot be empty"},
		{"negative parallelism", "batch_parallelism: -1\n", "batch_parallelism cannot be negative"},
		{
			"bad node defaults",
			"node_defaults:\n  cache:\n    latencyMs: 1\n    varianceFactor: 0.5\n    capacityRps: 10\n",
			"varianceFactor must be at least 1",
		},
		{
			"zero capacity",
			"node_defaults:\n  cache:\n    latencyMs: 1\n    varianceFactor: 1.1\n    capacityRps: 0\n",
			"capacityRps must be positive",
		},
		{"malformed yaml", "log_level: [\n", "failed to parse config yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigYAML([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseScenarioJSONMalformed(t *testing.T) {
	if _, err := ParseScenarioJSON([]byte(`{"name":`)); err == nil {
		t.Fatal("Expected malformed JSON to fail")
	}
}

func TestParseScenarioJSONNull(t *testing.T) {
	s, err := ParseScenarioJSON([]byte(`null`))
	if err != nil {
		t.Fatalf("Expected null to decode, got %v", err)
	}
	if s != nil {
		t.Errorf("Expected nil scenario, got %+v", s)
	}
}

func TestParseScenarioYAMLMalformed(t *testing.T) {
	if _, err := ParseScenarioYAML([]byte("nodes: [\n")); err == nil {
		t.Fatal("Expected malformed YAML to fail")
	}
}

func TestParseNodeDefaultsYAMLRejectsInvalid(t *testing.T) {
	_, err := ParseNodeDefaultsYAML([]byte("queue:\n  capacityRps: 10\n  varianceFactor: 1.2\n  failureRate: 1.5\n"))
	if err == nil || !strings.Contains(err.Error(), "failureRate must be in [0, 1)") {
		t.Fatalf("Expected failure rate error, got %v", err)
	}
}
