// Copyright 2026 The TempoSynth Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the tool configuration: defaults, overridden by an
// optional YAML file, overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of the synthesis tool.
type Config struct {
	// LogLevel is the minimum log level (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogFormat selects console or json output.
	LogFormat string `yaml:"log_format"`

	// Workers is the number of parallel expansion workers.
	Workers int `yaml:"workers"`

	// MaxNodes caps the symbolic state space; 0 disables the cap.
	MaxNodes int `yaml:"max_nodes"`

	// HeuristicWeights weigh the components of the expansion heuristic:
	// breadth-first, fewer-words, environment-first, small-increment.
	HeuristicWeights []float64 `yaml:"heuristic_weights"`

	// Trace enables OpenTelemetry span export.
	Trace bool `yaml:"trace"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:         "info",
		LogFormat:        "console",
		Workers:          1,
		MaxNodes:         0,
		HeuristicWeights: []float64{16, 4, 2, 1},
	}
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when path is empty), and the SYNTH_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("SYNTH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SYNTH_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("SYNTH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse SYNTH_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("SYNTH_MAX_NODES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse SYNTH_MAX_NODES: %w", err)
		}
		cfg.MaxNodes = n
	}
	return cfg, nil
}
