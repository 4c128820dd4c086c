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

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/temposynth/engine/controller"
	"github.com/temposynth/engine/mtl"
	"github.com/temposynth/engine/observe"
	"github.com/temposynth/engine/plant"
	"github.com/temposynth/engine/search"
	"github.com/temposynth/engine/translation"
	"github.com/temposynth/engine/visualization"
)

var (
	plantPath           string
	plantKind           string
	specText            string
	controllerActions   []string
	environmentActions  []string
	boundOverride       uint
	locationConstraints bool
	setSemantics        bool
	workersFlag         int
	maxNodesFlag        int
	heuristicWeights    []float64
	timeoutFlag         time.Duration
	outputPath          string
	visualizePath       string
	traceFlag           bool

	synthesizeCmd = &cobra.Command{
		Use:   "synthesize",
		Short: "Solve the synthesis game and write the controller",
		RunE:  runSynthesize,
	}
)

func init() {
	flags := synthesizeCmd.Flags()
	flags.StringVarP(&plantPath, "plant", "p", "", "path to the plant description")
	flags.StringVar(&plantKind, "plant-kind", "ta", "plant kind: ta (YAML timed automata) or golog (program)")
	flags.StringVarP(&specText, "spec", "s", "", "MTL specification the controller must enforce")
	flags.StringSliceVarP(&controllerActions, "controller-actions", "c", nil, "actions the controller decides")
	flags.StringSliceVarP(&environmentActions, "environment-actions", "e", nil, "actions of the environment (default: all others)")
	flags.UintVarP(&boundOverride, "K", "K", 0, "override for the region bound K")
	flags.BoolVar(&locationConstraints, "location-constraints", false, "read specification symbols from plant locations")
	flags.BoolVar(&setSemantics, "set-semantics", false, "collapse duplicate symbols in canonical words")
	flags.IntVar(&workersFlag, "workers", 0, "parallel expansion workers (default from config)")
	flags.IntVar(&maxNodesFlag, "max-nodes", 0, "node cap for the symbolic state space")
	flags.Float64SliceVar(&heuristicWeights, "heuristic-weights", nil,
		"weights for the expansion heuristics: breadth-first, fewer-words, environment-first, small-increment")
	flags.DurationVar(&timeoutFlag, "timeout", 0, "cancel the search after this duration")
	flags.StringVarP(&outputPath, "output", "o", "controller.xml", "output path for the controller XML")
	flags.StringVar(&visualizePath, "visualize", "", "write a Graphviz view of the search graph to this path")
	flags.BoolVar(&traceFlag, "trace", false, "export OpenTelemetry spans to stdout")
	_ = synthesizeCmd.MarkFlagRequired("plant")
	_ = synthesizeCmd.MarkFlagRequired("spec")
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	spec, err := mtl.Parse(specText)
	if err != nil {
		exitCode = ExitInputError
		return err
	}
	adapter, cleanup, err := loadPlant()
	if err != nil {
		exitCode = ExitInputError
		return err
	}
	defer cleanup()

	alphabet := adapter.Alphabet()
	if locationConstraints {
		alphabet = locationSymbols(adapter)
	}
	automaton, err := translation.Translate(spec, alphabet)
	if err != nil {
		exitCode = ExitInputError
		return err
	}

	obs := observe.New(observe.WithLogger(logger))
	if traceFlag || cfg.Trace {
		shutdown, err := installTracer()
		if err != nil {
			exitCode = ExitInputError
			return err
		}
		defer shutdown()
		obs.Tracer = observe.NewOtelTracer()
		obs.Metrics = observe.NewOtelMetrics()
	}

	k := boundOverride
	if k == 0 {
		k = search.Bound(adapter, spec)
	}
	workers := cfg.Workers
	if workersFlag > 0 {
		workers = workersFlag
	}
	maxNodes := cfg.MaxNodes
	if maxNodesFlag > 0 {
		maxNodes = maxNodesFlag
	}
	weights := cfg.HeuristicWeights
	if len(heuristicWeights) > 0 {
		weights = heuristicWeights
	}

	ts, err := search.NewTreeSearch(adapter, automaton, search.Options{
		ControllerActions:  controllerActions,
		EnvironmentActions: environmentActions,
		K:                  k,
		Config: search.Config{
			UseLocationConstraints: locationConstraints,
			UseSetSemantics:        setSemantics,
		},
		MaxNodes:         maxNodes,
		Workers:          workers,
		HeuristicWeights: weights,
		Timeout:          timeoutFlag,
		Observability:    obs,
	})
	if err != nil {
		exitCode = ExitInputError
		return err
	}

	result, err := ts.Run(cmd.Context())
	if err != nil && !errors.Is(err, search.ErrModelTooLarge) {
		exitCode = ExitInputError
		return err
	}

	if visualizePath != "" {
		if werr := os.WriteFile(visualizePath, []byte(visualization.SearchToDOT(ts.Root())), 0o644); werr != nil {
			logger.Warn("failed to write search visualization", map[string]interface{}{"error": werr})
		}
	}

	switch result {
	case search.ResultRealizable:
		ctrl, err := controller.Create(ts)
		if err != nil {
			exitCode = ExitInputError
			return err
		}
		data, err := controller.Marshal(controller.FromAutomaton("Controller", ctrl))
		if err != nil {
			exitCode = ExitInputError
			return err
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			exitCode = ExitInputError
			return err
		}
		logger.Info("controller written", map[string]interface{}{"path": outputPath})
		exitCode = ExitRealizable
	case search.ResultUnrealizable:
		logger.Info("specification is unrealizable", nil)
		exitCode = ExitUnrealizable
	default:
		logger.Warn("search did not decide the game", map[string]interface{}{"result": result.String()})
		exitCode = ExitCanceled
	}
	return nil
}

func loadPlant() (plant.Adapter, func(), error) {
	switch plantKind {
	case "ta":
		ta, err := plant.LoadFile(plantPath)
		if err != nil {
			return nil, nil, err
		}
		return ta, func() {}, nil
	case "golog":
		text, err := os.ReadFile(plantPath)
		if err != nil {
			return nil, nil, err
		}
		program, err := plant.ParseProgram(string(text))
		if err != nil {
			return nil, nil, err
		}
		golog, err := plant.NewGolog(program)
		if err != nil {
			return nil, nil, err
		}
		return golog, golog.Release, nil
	default:
		return nil, nil, fmt.Errorf("unknown plant kind %q", plantKind)
	}
}

func locationSymbols(adapter plant.Adapter) []string {
	type locationLister interface {
		Locations() []string
	}
	lister, ok := adapter.(locationLister)
	if !ok {
		return adapter.Alphabet()
	}
	var res []string
	for _, l := range lister.Locations() {
		res = append(res, adapter.SymbolsFor(l)...)
	}
	return res
}

func installTracer() (func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return func() {
		_ = provider.Shutdown(context.Background())
	}, nil
}
