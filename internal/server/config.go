// Package server implements the HTTP interface of the dynagraph daemon.
//
// This file defines the YAML server configuration and its defaults.
package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sanonone/dynagraph/pkg/engine"
)

// Config is the top-level structure of the server configuration file.
type Config struct {
	// HTTPAddr is the listen address, e.g. ":9091".
	HTTPAddr string `yaml:"http_addr"`

	// DataDir holds the append-only log and snapshot files.
	DataDir string `yaml:"data_dir"`

	// AuthToken, when set, requires a matching bearer token on every
	// endpoint except /healthz.
	AuthToken string `yaml:"auth_token"`

	Graph       GraphConfig       `yaml:"graph"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// GraphConfig selects the shape of the stored graph.
type GraphConfig struct {
	Directed   bool `yaml:"directed"`
	AppendOnly bool `yaml:"append_only"`
}

// PersistenceConfig tunes the durability policies.
type PersistenceConfig struct {
	AofFilename             string `yaml:"aof_filename"`
	AutoSaveIntervalSeconds int    `yaml:"auto_save_interval_seconds"`
	AutoSaveThreshold       int64  `yaml:"auto_save_threshold"`
	AofRewritePercentage    int    `yaml:"aof_rewrite_percentage"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		HTTPAddr: ":9091",
		DataDir:  "./data",
		Persistence: PersistenceConfig{
			AofFilename:             "dynagraph.aof",
			AutoSaveIntervalSeconds: 60,
			AutoSaveThreshold:       1000,
			AofRewritePercentage:    100,
		},
	}
}

// LoadConfig reads the YAML configuration at path, filling omitted fields
// with defaults. An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":9091"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.Persistence.AofFilename == "" {
		cfg.Persistence.AofFilename = "dynagraph.aof"
	}
	return cfg, nil
}

// EngineOptions translates the configuration into engine options.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		DataDir:              c.DataDir,
		AofFilename:          c.Persistence.AofFilename,
		Directed:             c.Graph.Directed,
		AppendOnly:           c.Graph.AppendOnly,
		AutoSaveInterval:     time.Duration(c.Persistence.AutoSaveIntervalSeconds) * time.Second,
		AutoSaveThreshold:    c.Persistence.AutoSaveThreshold,
		AofRewritePercentage: c.Persistence.AofRewritePercentage,
	}
}
