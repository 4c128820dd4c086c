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

// Package plant defines the capability a controllable system must expose to
// the synthesis engine, together with two concrete implementations: timed
// automata (including products of automata) and Golog programs.
//
// The engine is completely decoupled from the concrete system: it only ever
// sees Configurations, action successors, and the symbols a configuration
// emits. Locations are canonical strings supplied by the adapter, which
// keeps configurations comparable and hashable without making the engine
// generic over location types.
package plant

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/temposynth/engine/clock"
)

var (
	// ErrAdapter indicates a structural inconsistency reported by a plant
	// adapter.
	ErrAdapter = errors.New("plant adapter error")

	// ErrAdapterBusy indicates that a single-instance adapter is already
	// live.
	ErrAdapterBusy = errors.New("plant adapter already in use")

	// ErrUnknownAction indicates a successor query with an action outside
	// the plant's alphabet.
	ErrUnknownAction = errors.New("unknown action")
)

// Configuration is a snapshot of a plant: a location and the valuation of
// every plant clock.
type Configuration struct {
	// Location is the canonical name of the current plant location.
	Location string

	// Clocks maps each clock name to its valuation.
	Clocks clock.Map
}

// Advance returns the configuration with every clock aged by delta.
func (c Configuration) Advance(delta clock.Valuation) Configuration {
	return Configuration{Location: c.Location, Clocks: c.Clocks.Advance(delta)}
}

// String renders the configuration as "(location, c1: v1, c2: v2)".
func (c Configuration) String() string {
	names := make([]string, 0, len(c.Clocks))
	for name := range c.Clocks {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %v", name, c.Clocks[name])
	}
	return "(" + c.Location + ", " + strings.Join(parts, ", ") + ")"
}

func clockMapWith(name string, v clock.Valuation) clock.Map {
	return clock.Map{name: v}
}

// Successor is one outcome of executing an action: the next configuration
// together with the clocks that were reset by the step. The reset set is
// carried through the search so controller extraction can reproduce it.
type Successor struct {
	// Configuration is the plant configuration after the step.
	Configuration Configuration

	// ResetClocks are the clocks reset by the step.
	ResetClocks []string
}

// Adapter is the capability a plant exposes to the search. Implementations
// must be deterministic (equal inputs yield equal successor sets) and safe
// for concurrent use.
type Adapter interface {
	// InitialConfiguration returns the configuration the plant starts in.
	InitialConfiguration() Configuration

	// Clocks returns the names of all plant clocks.
	Clocks() []string

	// Alphabet returns all actions of the plant.
	Alphabet() []string

	// Successors returns every configuration reachable from cfg by
	// executing action, with guards evaluated against the configuration's
	// clock valuations.
	Successors(cfg Configuration, action string) ([]Successor, error)

	// IsAccepting reports whether the configuration is accepting. A
	// violation of the specification only counts in accepting plant
	// configurations.
	IsAccepting(cfg Configuration) bool

	// SymbolsFor returns the input symbols the plant emits in the given
	// location. Adapters with plain action-based specifications return nil;
	// adapters supporting location constraints return the propositions
	// describing the location.
	SymbolsFor(location string) []string

	// LargestConstant returns the largest constant any plant guard compares
	// a clock against.
	LargestConstant() uint
}
