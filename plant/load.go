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

package plant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/temposynth/engine/clock"
)

// Description is the YAML form of a timed-automaton plant. A file may
// describe several automata; they are combined into a product.
type Description struct {
	Automata []AutomatonDescription `yaml:"automata"`
}

// AutomatonDescription describes one timed automaton.
type AutomatonDescription struct {
	Alphabet    []string                `yaml:"alphabet"`
	Initial     string                  `yaml:"initial"`
	Final       []string                `yaml:"final"`
	Locations   []string                `yaml:"locations"`
	Clocks      []string                `yaml:"clocks"`
	Transitions []TransitionDescription `yaml:"transitions"`
}

// TransitionDescription describes one guarded edge.
type TransitionDescription struct {
	Source string             `yaml:"source"`
	Target string             `yaml:"target"`
	Action string             `yaml:"action"`
	Guards []GuardDescription `yaml:"guards"`
	Resets []string           `yaml:"resets"`
}

// GuardDescription describes one clock constraint, e.g. {clock: x, op: "<", value: 2}.
type GuardDescription struct {
	Clock string `yaml:"clock"`
	Op    string `yaml:"op"`
	Value uint   `yaml:"value"`
}

// LoadFile reads a plant description from a YAML file and builds the
// product automaton.
func LoadFile(path string) (*TimedAutomaton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plant description: %w", err)
	}
	return Load(data)
}

// Load builds the product automaton of a YAML plant description.
func Load(data []byte) (*TimedAutomaton, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse plant description: %w", err)
	}
	if len(desc.Automata) == 0 {
		return nil, fmt.Errorf("%w: plant description contains no automata", ErrAdapter)
	}
	components := make([]*TimedAutomaton, 0, len(desc.Automata))
	for i, ad := range desc.Automata {
		component, err := buildAutomaton(ad)
		if err != nil {
			return nil, fmt.Errorf("automaton %d: %w", i, err)
		}
		components = append(components, component)
	}
	if len(components) == 1 {
		return components[0], nil
	}
	return Product(components...)
}

func buildAutomaton(ad AutomatonDescription) (*TimedAutomaton, error) {
	ta := NewTimedAutomaton(ad.Alphabet, ad.Initial, ad.Final)
	for _, l := range ad.Locations {
		ta.AddLocation(l)
	}
	for _, c := range ad.Clocks {
		ta.AddClock(c)
	}
	for _, td := range ad.Transitions {
		guards := make([]Guard, 0, len(td.Guards))
		for _, gd := range td.Guards {
			op, err := parseOp(gd.Op)
			if err != nil {
				return nil, err
			}
			guards = append(guards, Guard{
				Clock:      gd.Clock,
				Constraint: clock.Constraint{Op: op, Comparand: gd.Value},
			})
		}
		if err := ta.AddTransition(Transition{
			Source: td.Source,
			Target: td.Target,
			Action: td.Action,
			Guards: guards,
			Resets: td.Resets,
		}); err != nil {
			return nil, err
		}
	}
	return ta, nil
}

func parseOp(s string) (clock.Op, error) {
	switch s {
	case "<":
		return clock.Less, nil
	case "<=":
		return clock.LessEqual, nil
	case "==", "=":
		return clock.Equal, nil
	case ">=":
		return clock.GreaterEqual, nil
	case ">":
		return clock.Greater, nil
	default:
		return 0, fmt.Errorf("%w: unknown guard operator %q", ErrAdapter, s)
	}
}
