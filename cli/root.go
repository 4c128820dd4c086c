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

// Package cli implements the synth command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temposynth/engine/config"
	"github.com/temposynth/engine/observe"
)

// Exit codes of the tool.
const (
	// ExitRealizable: a controller exists and was written.
	ExitRealizable = 0
	// ExitUnrealizable: the environment wins the synthesis game.
	ExitUnrealizable = 1
	// ExitInputError: the plant or specification could not be read.
	ExitInputError = 2
	// ExitCanceled: the search was canceled or gave up.
	ExitCanceled = 3
)

var (
	cfgPath   string
	logLevel  string
	logFormat string

	cfg      config.Config
	exitCode int

	rootCmd = &cobra.Command{
		Use:   "synth",
		Short: "Synthesize controllers for real-time plants against MTL specifications",
		Long: `synth searches the regionalized product of a plant and an alternating
timed automaton for a controller strategy that satisfies a metric temporal
logic specification against every environment behavior.

A realizable specification produces an UPPAAL-compatible controller:

  synth synthesize --plant plant.yaml --spec "F done" \
      --controller-actions start,move --output controller.xml`,
		SilenceUsage: true,
	}
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if exitCode == ExitRealizable {
			return ExitInputError
		}
	}
	return exitCode
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (trace..error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log output format (console or json)")

	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(visualizeCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(ExitInputError)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
}

func newLogger() observe.Logger {
	return observe.NewBoltLogger(observe.BoltConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
}
