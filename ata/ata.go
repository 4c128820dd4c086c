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

package ata

import (
	"fmt"
	"strings"

	"github.com/temposynth/engine/clock"
	"github.com/temposynth/engine/mtl"
)

// Transition maps a (source location, input symbol) pair to a positive
// boolean formula over successor states.
type Transition struct {
	// Source is the location the transition leaves.
	Source *mtl.Formula

	// Symbol is the input symbol the transition reads.
	Symbol string

	// Formula is the transition target, a node in the automaton's arena.
	Formula NodeID
}

// Automaton is an alternating timed automaton. Locations are MTL formulas;
// each alternating state carries its own clock. The automaton is read-only
// after construction and safe for concurrent use.
type Automaton struct {
	arena       *Arena
	alphabet    []string
	initial     *mtl.Formula
	accepting   map[string]bool
	transitions map[string]map[string]NodeID // location key -> symbol -> formula
}

// NewAutomaton assembles an automaton from its parts. The arena must contain
// every formula referenced by the transitions.
func NewAutomaton(arena *Arena, alphabet []string, initial *mtl.Formula,
	accepting []*mtl.Formula, transitions []Transition) *Automaton {

	acc := make(map[string]bool, len(accepting))
	for _, loc := range accepting {
		acc[loc.Key()] = true
	}
	trans := map[string]map[string]NodeID{}
	for _, t := range transitions {
		bySymbol, ok := trans[t.Source.Key()]
		if !ok {
			bySymbol = map[string]NodeID{}
			trans[t.Source.Key()] = bySymbol
		}
		bySymbol[t.Symbol] = t.Formula
	}
	return &Automaton{
		arena:       arena,
		alphabet:    alphabet,
		initial:     initial,
		accepting:   acc,
		transitions: trans,
	}
}

// Arena returns the formula arena of the automaton.
func (a *Automaton) Arena() *Arena { return a.arena }

// Alphabet returns the input symbols.
func (a *Automaton) Alphabet() []string { return a.alphabet }

// InitialLocation returns the initial location.
func (a *Automaton) InitialLocation() *mtl.Formula { return a.initial }

// InitialConfiguration returns the configuration the automaton starts in:
// the initial location with its clock at zero.
func (a *Automaton) InitialConfiguration() Configuration {
	return Configuration{{Location: a.initial, Clock: 0}}
}

// IsAcceptingLocation reports whether the location is accepting.
func (a *Automaton) IsAcceptingLocation(loc *mtl.Formula) bool {
	return a.accepting[loc.Key()]
}

// IsAcceptingConfiguration reports whether every state of the configuration
// is in an accepting location. The empty configuration is accepting.
func (a *Automaton) IsAcceptingConfiguration(c Configuration) bool {
	for _, s := range c {
		if !a.accepting[s.Location.Key()] {
			return false
		}
	}
	return true
}

// SymbolStep computes all successor configurations reached by reading symbol
// from the given configuration. Each state of the configuration follows its
// transition independently; the results are combined by pairwise union over
// all choices of minimal models (the alternating semantics). A state without
// a transition on the symbol kills the run branch, yielding no successors.
func (a *Automaton) SymbolStep(start Configuration, symbol string) []Configuration {
	if len(start) == 0 {
		// Nothing to do: the empty configuration steps to itself.
		return []Configuration{{}}
	}
	// One entry per state of the start configuration, each holding the
	// minimal models of that state's transition formula. A state without a
	// transition on the symbol behaves like ⊥.
	models := make([][]Configuration, 0, len(start))
	for _, s := range start {
		bySymbol, ok := a.transitions[s.Location.Key()]
		if !ok {
			return nil
		}
		formula, ok := bySymbol[symbol]
		if !ok {
			return nil
		}
		models = append(models, a.arena.MinimalModels(formula, s.Clock))
	}

	res := make([]Configuration, 0, len(models[0]))
	for _, m := range models[0] {
		res = appendConfiguration(res, m)
	}
	for _, stateModels := range models[1:] {
		var expanded []Configuration
		for _, m := range stateModels {
			for _, cfg := range res {
				expanded = appendConfiguration(expanded, cfg.union(m))
			}
		}
		res = expanded
	}
	return res
}

// TimeStep advances every clock of the configuration by delta.
// A negative delta is rejected.
func (a *Automaton) TimeStep(start Configuration, delta clock.Valuation) (Configuration, error) {
	if delta < 0 {
		return nil, fmt.Errorf("negative time delta %v", delta)
	}
	return start.Advance(delta), nil
}

// AcceptsWord reports whether the automaton accepts a finite timed word.
// The word must start at time 0. A run alternates symbol steps and time
// steps; the word is accepted if some run ends in a configuration whose
// states are all accepting.
func (a *Automaton) AcceptsWord(word mtl.Word) (bool, error) {
	if len(word) == 0 {
		return false, nil
	}
	if !clock.IsNearZero(word[0].Time) {
		return false, fmt.Errorf("timed word must start at time 0, got %v", word[0].Time)
	}

	configurations := a.SymbolStep(a.InitialConfiguration(), firstSymbol(word[0]))
	lastTime := word[0].Time
	for _, letter := range word[1:] {
		var next []Configuration
		for _, cfg := range configurations {
			aged, err := a.TimeStep(cfg, letter.Time-lastTime)
			if err != nil {
				return false, err
			}
			for _, succ := range a.SymbolStep(aged, firstSymbol(letter)) {
				next = appendConfiguration(next, succ)
			}
		}
		configurations = next
		lastTime = letter.Time
	}
	for _, cfg := range configurations {
		if a.IsAcceptingConfiguration(cfg) {
			return true, nil
		}
	}
	return false, nil
}

func firstSymbol(l mtl.Letter) string {
	if len(l.Symbols) == 0 {
		return ""
	}
	return l.Symbols[0]
}

// String renders the automaton for diagnostics.
func (a *Automaton) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Alphabet: {%s}, initial: %s\n", strings.Join(a.alphabet, ", "), a.initial)
	for locKey, bySymbol := range a.transitions {
		for symbol, formula := range bySymbol {
			fmt.Fprintf(&sb, "  %s --%s--> %s\n", locKey, symbol, a.arena.String(formula))
		}
	}
	return sb.String()
}
