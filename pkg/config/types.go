package config

import (
	"github.com/archbench/archbench-engine/internal/defaults"
	"github.com/archbench/archbench-engine/pkg/models"
)

// Defaults applied before a config file is decoded.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultHTTPAddr    = ":8080"
	DefaultGRPCAddr    = ":50051"
	DefaultNATSSubject = "archbench.simulations.completed"
)

// Config represents the daemon configuration. An empty GRPCAddr disables the
// gRPC listener, an empty NATSURL disables event publishing, and a zero
// BatchParallelism means GOMAXPROCS.
type Config struct {
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	HTTPAddr         string `yaml:"http_addr"`
	GRPCAddr         string `yaml:"grpc_addr"`
	NATSURL          string `yaml:"nats_url,omitempty"`
	NATSSubject      string `yaml:"nats_subject"`
	BatchParallelism int    `yaml:"batch_parallelism"`

	// NodeDefaults replaces or extends the built-in node-type table.
	NodeDefaults map[string]models.NodeTypeDefaults `yaml:"node_defaults,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		HTTPAddr:    DefaultHTTPAddr,
		GRPCAddr:    DefaultGRPCAddr,
		NATSSubject: DefaultNATSSubject,
	}
}

// DefaultsTable builds the node-type table for this configuration.
func (c *Config) DefaultsTable() *defaults.Table {
	if len(c.NodeDefaults) == 0 {
		return defaults.Builtin()
	}
	return defaults.Builtin().WithOverrides(c.NodeDefaults)
}
