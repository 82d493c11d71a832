package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/archbench/archbench-engine/internal/defaults"
	"github.com/archbench/archbench-engine/pkg/models"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadScenario loads a scenario file. Files ending in .json are decoded as
// JSON, anything else as YAML. Structural checks are left to the validator.
func LoadScenario(path string) (*models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var scenario *models.Scenario
	if strings.EqualFold(filepath.Ext(path), ".json") {
		scenario, err = ParseScenarioJSON(data)
	} else {
		scenario, err = ParseScenarioYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return scenario, nil
}

// LoadNodeDefaults loads a YAML file of node-type defaults keyed by type.
func LoadNodeDefaults(path string) (map[string]models.NodeTypeDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read node defaults file %s: %w", path, err)
	}
	entries, err := ParseNodeDefaultsYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node defaults file %s: %w", path, err)
	}
	return entries, nil
}

// ApplyEnv overrides fields from ARCHBENCH_* environment variables and
// re-validates the result.
func (c *Config) ApplyEnv() error {
	c.LogLevel = getEnv("ARCHBENCH_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("ARCHBENCH_LOG_FORMAT", c.LogFormat)
	c.HTTPAddr = getEnv("ARCHBENCH_HTTP_ADDR", c.HTTPAddr)
	c.GRPCAddr = getEnv("ARCHBENCH_GRPC_ADDR", c.GRPCAddr)
	c.NATSURL = getEnv("ARCHBENCH_NATS_URL", c.NATSURL)
	c.NATSSubject = getEnv("ARCHBENCH_NATS_SUBJECT", c.NATSSubject)
	c.BatchParallelism = getEnvInt("ARCHBENCH_BATCH_PARALLELISM", c.BatchParallelism)

	if err := validateConfig(c); err != nil {
		return fmt.Errorf("invalid config from environment: %w", err)
	}
	return nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("invalid log_format: %s (must be json or text)", cfg.LogFormat)
	}

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return fmt.Errorf("http_addr cannot be empty")
	}

	if cfg.NATSURL != "" && strings.TrimSpace(cfg.NATSSubject) == "" {
		return fmt.Errorf("nats_subject cannot be empty when nats_url is set")
	}

	if cfg.BatchParallelism < 0 {
		return fmt.Errorf("batch_parallelism cannot be negative, got %d", cfg.BatchParallelism)
	}

	if err := validateNodeDefaults(cfg.NodeDefaults); err != nil {
		return fmt.Errorf("node_defaults validation failed: %w", err)
	}

	return nil
}

// validateNodeDefaults checks entries in sorted order so the reported error
// is stable.
func validateNodeDefaults(entries map[string]models.NodeTypeDefaults) error {
	types := make([]string, 0, len(entries))
	for typ := range entries {
		types = append(types, typ)
	}
	sort.Strings(types)

	for _, typ := range types {
		if err := defaults.Validate(typ, entries[typ]); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
